package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/services"
)

const defaultTelemetryLimit = 100

type UserDataHandler struct {
	telemetry services.TelemetryService
}

func NewUserDataHandler(telemetry services.TelemetryService) *UserDataHandler {
	return &UserDataHandler{telemetry: telemetry}
}

type userDataRequest struct {
	LearnerID string          `json:"learnerId"`
	DataType  string          `json:"dataType"`
	Value     json.RawMessage `json:"value"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// POST /api/user-data
func (h *UserDataHandler) Record(c *gin.Context) {
	var req userDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	out, err := h.telemetry.Record(c.Request.Context(), services.TelemetryInput{
		LearnerID: req.LearnerID,
		DataType:  req.DataType,
		Value:     req.Value,
		Metadata:  req.Metadata,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.NoteTier(c, string(out.Tier))
	response.RespondOK(c, gin.H{"success": true, "tier": out.Tier, "recordId": out.RecordID.String()})
}

// GET /api/user-data?learnerId=&dataType=&limit=
func (h *UserDataHandler) List(c *gin.Context) {
	limit := defaultTelemetryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, 400, "validation_rejected", errBadLimit)
			return
		}
		limit = n
	}
	list, err := h.telemetry.List(c.Request.Context(), c.Query("learnerId"), c.Query("dataType"), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, list)
}
