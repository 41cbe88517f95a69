package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/solbot-backend/internal/http/handlers"
	httpMW "github.com/yungbote/solbot-backend/internal/http/middleware"
	"github.com/yungbote/solbot-backend/internal/observability"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName string
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string

	ScoresHandler      *httpH.ScoresHandler
	UserDataHandler    *httpH.UserDataHandler
	ProfileHandler     *httpH.ProfileHandler
	ScaffoldingHandler *httpH.ScaffoldingHandler
	RecordsHandler     *httpH.RecordsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/api/status", cfg.HealthHandler.Status)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.ScoresHandler != nil {
			api.POST("/scores", cfg.ScoresHandler.Submit)
			api.GET("/scores", cfg.ScoresHandler.List)
		}
		if cfg.UserDataHandler != nil {
			api.POST("/user-data", cfg.UserDataHandler.Record)
			api.GET("/user-data", cfg.UserDataHandler.List)
		}
		if cfg.ProfileHandler != nil {
			api.POST("/user/profile", cfg.ProfileHandler.Upsert)
			api.GET("/user/profile", cfg.ProfileHandler.Get)
		}
		if cfg.ScaffoldingHandler != nil {
			api.GET("/scaffolding", cfg.ScaffoldingHandler.Get)
		}

		// Record service
		if cfg.RecordsHandler != nil {
			api.POST("/v1/records", cfg.RecordsHandler.Put)
			api.GET("/v1/records", cfg.RecordsHandler.List)
			api.POST("/user-data/:learnerId", cfg.RecordsHandler.LegacyPut)
			api.GET("/user-data/:learnerId", cfg.RecordsHandler.LegacyList)
		}
	}

	return r
}
