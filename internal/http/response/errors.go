package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/platform/apierr"
)

// RespondErr classifies err through apierr and writes the error envelope.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(500, "internal", nil)
	}
	_ = c.Error(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
