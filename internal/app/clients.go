package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/yungbote/solbot-backend/internal/clients/redis"
	"github.com/yungbote/solbot-backend/internal/data/db"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// Clients holds optional backends. A nil field means the backend is disabled
// or was unreachable at startup; the app runs degraded rather than failing.
type Clients struct {
	Primary db.Service
	Redis   *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.PrimaryEnabled {
		svc, err := db.Open(cfg.PrimaryDriver, cfg.SQLitePath, log)
		if err != nil {
			log.Warn("Primary store unavailable, continuing without it", "driver", cfg.PrimaryDriver, "error", err)
		} else if cfg.AutoMigrate {
			if err := db.AutoMigrateAll(svc.DB()); err != nil {
				log.Warn("Primary auto migration failed, continuing without primary", "error", err)
				_ = svc.Close()
			} else {
				out.Primary = svc
			}
		} else {
			out.Primary = svc
		}
	} else {
		log.Info("Primary store disabled by configuration")
	}

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("Redis unavailable, scaffolding cache stays in process", "addr", cfg.RedisAddr, "error", err)
		} else {
			out.Redis = rdb
		}
	}
	return out
}

func (c Clients) Close(log *logger.Logger) {
	if c.Primary != nil {
		if err := c.Primary.Close(); err != nil {
			log.Warn("closing primary store", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("closing redis", "error", err)
		}
	}
}
