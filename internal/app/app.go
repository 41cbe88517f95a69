package app

import (
	"context"
	"fmt"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	apphttp "github.com/yungbote/solbot-backend/internal/http"
	"github.com/yungbote/solbot-backend/internal/observability"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    *repos.Set
	Services Services
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	shutdownTracing func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("app: logger is required")
	}
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	tracingCfg := observability.LoadTracingConfig(serviceName, log)
	shutdownTracing := observability.InitTracing(ctx, log, tracingCfg)
	metrics := observability.Init(cfg.MetricsEnabled, log)

	clients := wireClients(ctx, log, cfg)
	var reposet *repos.Set
	if clients.Primary != nil {
		reposet = wireRepos(clients.Primary.DB(), log)
	}
	serviceset := wireServices(ctx, log, cfg, clients, reposet, metrics)
	handlerset := wireHandlers(log, serviceset)
	server := wireServer(log, cfg, handlerset, metrics, tracingCfg.Enabled)

	return &App{
		Log:             log,
		Cfg:             cfg,
		Clients:         clients,
		Repos:           reposet,
		Services:        serviceset,
		Metrics:         metrics,
		Server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Metrics != nil {
		if a.Clients.Primary != nil {
			a.Metrics.StartDBCollector(ctx, a.Log, a.Clients.Primary.DB(), a.Cfg.PrimaryDriver, a.Cfg.MetricsInterval)
		}
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, a.Cfg.MetricsInterval)
		}
	}
	a.Log.Info("Server listening", "address", a.Cfg.Address(),
		"primary", a.Clients.Primary != nil,
		"secondary", a.Cfg.SecondaryBaseURL,
		"redis", a.Clients.Redis != nil,
	)
	return a.Server.Run(ctx, a.Cfg.Address(), a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if n := a.Services.Gateway.Ephemeral().Len(); n > 0 {
		a.Log.Warn("Shutting down with records held only in memory", "ephemeral_records", n)
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.shutdownTracing(ctx); err != nil {
			a.Log.Warn("tracing shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close(a.Log)
	a.Log.Sync()
}
