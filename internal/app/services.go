package app

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/solbot-backend/internal/clients/redis"
	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/observability"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/rubrics"
	"github.com/yungbote/solbot-backend/internal/services"
	"github.com/yungbote/solbot-backend/internal/storage"
)

type Services struct {
	Gateway     *storage.Gateway
	Assessments services.AssessmentService
	Telemetry   services.TelemetryService
	Profiles    services.ProfileService
}

func wireGateway(db *gorm.DB, set *repos.Set, log *logger.Logger, cfg Config, metrics *observability.Metrics) *storage.Gateway {
	log.Info("Wiring storage tiers...")
	// A Primary over a nil db reports tier_unavailable on every call, which
	// keeps the write order intact when the store is down.
	primary := storage.NewPrimary(db, set, log)

	var secondary storage.Tier
	if cfg.SecondaryEnabled && cfg.SecondaryBaseURL != "" {
		secondary = storage.NewSecondary(cfg.SecondaryBaseURL, &http.Client{}, log)
	} else {
		log.Warn("Secondary tier disabled by configuration")
	}

	opts := []storage.Option{storage.WithRetryPolicy(cfg.Retry)}
	if metrics != nil {
		opts = append(opts, storage.WithRecorder(metrics))
	}
	return storage.NewGateway(primary, secondary, storage.NewEphemeral(log), log, opts...)
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, clients Clients, set *repos.Set, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var db *gorm.DB
	if clients.Primary != nil {
		db = clients.Primary.DB()
	}
	gateway := wireGateway(db, set, log, cfg, metrics)

	var cache services.ScaffoldingCache
	if clients.Redis != nil {
		cache = redisclient.NewScaffoldingCache(clients.Redis, cfg.ScaffoldingCacheTTL, log)
	} else {
		cache = services.NewMemoryScaffoldingCache(cfg.ScaffoldingCacheTTL)
	}

	var learners repos.LearnerRepo
	if set != nil {
		learners = set.Learner
		seedRubrics(ctx, log, cfg.RubricsFile, set.Rubric)
	}

	return Services{
		Gateway:     gateway,
		Assessments: services.NewAssessmentService(gateway, cache, log),
		Telemetry:   services.NewTelemetryService(gateway, log),
		Profiles:    services.NewProfileService(learners, cfg.ProfileAtomicUpsert, log),
	}
}

// seedRubrics is best-effort; a bad file leaves existing rubrics untouched.
func seedRubrics(ctx context.Context, log *logger.Logger, path string, repo repos.RubricRepo) {
	if path == "" {
		return
	}
	list, err := rubrics.LoadFile(path)
	if err != nil {
		log.Warn("Could not load rubrics file", "path", path, "error", err)
		return
	}
	if err := rubrics.SeedPrimary(ctx, repo, list); err != nil {
		log.Warn("Could not seed rubrics", "path", path, "error", err)
		return
	}
	log.Info("Seeded rubrics", "path", path, "count", len(list))
}
