// Command userdata runs the record service that backs the Secondary storage
// tier. It stores record envelopes in SQLite and serves the legacy
// per-learner telemetry routes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/solbot-backend/internal/data/db"
	apphttp "github.com/yungbote/solbot-backend/internal/http"
	httpH "github.com/yungbote/solbot-backend/internal/http/handlers"
	"github.com/yungbote/solbot-backend/internal/observability"
	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/rubrics"
	"github.com/yungbote/solbot-backend/internal/storage"
)

const serviceName = "solbot-userdata"

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("record service exited", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	port := envutil.String("USERDATA_PORT", "8081", log)
	path := envutil.String("USERDATA_SQLITE_PATH", "userdata.db", log)
	shutdownTimeout := envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log)

	tracingCfg := observability.LoadTracingConfig(serviceName, log)
	shutdownTracing := observability.InitTracing(ctx, log, tracingCfg)
	metrics := observability.Init(envutil.Bool("METRICS_ENABLED", false, log), log)

	store, err := db.NewSQLiteService(path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	recordLog := storage.NewRecordLog(store.DB(), log)
	if err := recordLog.Migrate(); err != nil {
		return fmt.Errorf("migrate record log: %w", err)
	}
	if file := envutil.String("RUBRICS_FILE", "", log); file != "" {
		list, err := rubrics.LoadFile(file)
		if err != nil {
			log.Warn("Could not load rubrics file", "path", file, "error", err)
		} else if err := rubrics.SeedRecordLog(ctx, recordLog, list); err != nil {
			log.Warn("Could not seed rubrics", "path", file, "error", err)
		}
	}

	rc := apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		CORSOrigins:    envutil.List("CORS_ALLOW_ORIGINS", nil, log),
		RecordsHandler: httpH.NewRecordsHandler(recordLog),
		HealthHandler:  httpH.NewHealthHandler(nil),
	}
	if tracingCfg.Enabled {
		rc.ServiceName = serviceName
	}
	server := apphttp.NewServer(rc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Record service listening", "port", port, "sqlite_path", path)
		return server.Run(gctx, ":"+port, shutdownTimeout)
	})
	g.Go(func() error {
		metrics.StartDBCollector(gctx, log, store.DB(), "sqlite", envutil.Duration("METRICS_COLLECT_INTERVAL", 15*time.Second, log))
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdownTracing(sctx)
	})
	return g.Wait()
}
