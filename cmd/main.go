package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/solbot-backend/internal/app"
	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("failed to initialize app", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("server stopped")
}
