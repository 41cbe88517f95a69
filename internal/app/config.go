package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/storage"
)

const serviceName = "solbot-api"

type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	PrimaryEnabled bool
	PrimaryDriver  string
	SQLitePath     string
	AutoMigrate    bool

	SecondaryEnabled bool
	SecondaryBaseURL string
	Retry            storage.RetryPolicy

	RedisAddr           string
	RedisPassword       string
	ScaffoldingCacheTTL time.Duration

	ProfileAtomicUpsert bool
	RubricsFile         string

	MetricsEnabled  bool
	MetricsInterval time.Duration
	CORSOrigins     []string
}

func LoadConfig(log *logger.Logger) Config {
	primaryEnabled := envutil.Bool("PRIMARY_ENABLED", true, log)
	if !envutil.Bool("DATABASE_ENABLED", true, log) {
		primaryEnabled = false
	}
	return Config{
		Port:            envutil.String("PORT", "8080", log),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log),

		PrimaryEnabled: primaryEnabled,
		PrimaryDriver:  strings.ToLower(envutil.String("PRIMARY_DRIVER", "postgres", log)),
		SQLitePath:     envutil.String("SQLITE_PATH", "solbot.db", log),
		AutoMigrate:    envutil.Bool("PRIMARY_AUTO_MIGRATE", true, log),

		SecondaryEnabled: envutil.Bool("SECONDARY_ENABLED", true, log),
		SecondaryBaseURL: envutil.String("SECONDARY_BASE_URL", "http://localhost:8081", log),
		Retry: storage.RetryPolicy{
			MaxRetries:     envutil.Int("SECONDARY_MAX_RETRIES", storage.DefaultMaxRetries, log),
			Delay:          envutil.Duration("SECONDARY_RETRY_DELAY", storage.DefaultRetryDelay, log),
			AttemptTimeout: envutil.Duration("SECONDARY_ATTEMPT_TIMEOUT", storage.DefaultAttemptTimeout, log),
		},

		RedisAddr:           envutil.String("REDIS_ADDR", "", log),
		RedisPassword:       envutil.String("REDIS_PASSWORD", "", log),
		ScaffoldingCacheTTL: envutil.Duration("SCAFFOLDING_CACHE_TTL", 24*time.Hour, log),

		ProfileAtomicUpsert: envutil.Bool("PROFILE_ATOMIC_UPSERT", true, log),
		RubricsFile:         envutil.String("RUBRICS_FILE", "", log),

		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", false, log),
		MetricsInterval: envutil.Duration("METRICS_COLLECT_INTERVAL", 15*time.Second, log),
		CORSOrigins:     envutil.List("CORS_ALLOW_ORIGINS", nil, log),
	}
}

func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf(":%s", port)
}
