package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/platform/ctxutil"
)

// TierKey is the gin context key under which handlers note the storage tier
// that accepted a write, for the request log.
const TierKey = "storage_tier"

// ErrorBody is the failure shape every route shares: error is the plain
// message, code and requestId sit beside it.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	body := ErrorBody{Error: msg, Code: code}
	if r := ctxutil.RequestFrom(c.Request.Context()); r != nil {
		body.RequestID = r.RequestID
	}
	c.AbortWithStatusJSON(status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func NoteTier(c *gin.Context, tier string) {
	if tier != "" {
		c.Set(TierKey, tier)
	}
}
