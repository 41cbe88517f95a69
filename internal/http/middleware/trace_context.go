package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/solbot-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext stamps every request with trace and request ids and the
// learner it concerns. The trace id follows the active span when otelgin runs
// ahead of this middleware, so logs line up with exported traces.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &ctxutil.Request{
			TraceID:   traceID(c),
			RequestID: headerOr(c, headerRequestID),
			LearnerID: learnerID(c),
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequest(c.Request.Context(), req))
		c.Writer.Header().Set(headerTraceID, req.TraceID)
		c.Writer.Header().Set(headerRequestID, req.RequestID)
		c.Next()
	}
}

func traceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return headerOr(c, headerTraceID)
}

func headerOr(c *gin.Context, name string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return uuid.NewString()
}

// learnerID looks at the path first (record service routes), then the query.
// JSON bodies are not read here.
func learnerID(c *gin.Context) string {
	if v := strings.TrimSpace(c.Param("learnerId")); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Query("learnerId")); v != "" {
		return v
	}
	return strings.TrimSpace(c.Query("learner_id"))
}
