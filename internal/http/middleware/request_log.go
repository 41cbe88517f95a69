package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/platform/ctxutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Writes that fell back past the
// primary tier are logged at warn even when the response was 200.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = ctxutil.LogFields(c.Request.Context(), fields...)
		if r := ctxutil.RequestFrom(c.Request.Context()); r != nil && r.LearnerID != "" {
			fields = append(fields, "learner_id", r.LearnerID)
		}
		tier := c.GetString(response.TierKey)
		if tier != "" {
			fields = append(fields, "tier", tier)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case tier != "" && tier != "primary":
			log.Warn("request served degraded", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
