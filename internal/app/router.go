package app

import (
	apphttp "github.com/yungbote/solbot-backend/internal/http"
	"github.com/yungbote/solbot-backend/internal/observability"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics, tracing bool) *apphttp.Server {
	rc := apphttp.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		HealthHandler:      handlers.Health,
		ScoresHandler:      handlers.Scores,
		UserDataHandler:    handlers.UserData,
		ProfileHandler:     handlers.Profile,
		ScaffoldingHandler: handlers.Scaffolding,
	}
	if tracing {
		rc.ServiceName = serviceName
	}
	return apphttp.NewServer(rc)
}
