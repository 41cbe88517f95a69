package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/domain/telemetry"
	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/storage"
)

// RecordsHandler serves the record service: the generic envelope API used by
// the Secondary tier plus the legacy per-learner telemetry routes.
type RecordsHandler struct {
	store storage.Tier
}

func NewRecordsHandler(store storage.Tier) *RecordsHandler {
	return &RecordsHandler{store: store}
}

// POST /api/v1/records
func (h *RecordsHandler) Put(c *gin.Context) {
	var rec storage.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	out, err := h.store.Put(c.Request.Context(), &rec)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"id": out.RecordID, "tier": out.Tier})
}

// GET /api/v1/records?kind=&learner_id=&data_type=&phase_id=&enrollment_id=&key=&limit=
func (h *RecordsHandler) List(c *gin.Context) {
	f := storage.Filter{
		Kind:     storage.Kind(strings.TrimSpace(c.Query("kind"))),
		DataType: c.Query("data_type"),
		PhaseID:  c.Query("phase_id"),
		Key:      c.Query("key"),
	}
	if f.Kind == "" {
		response.RespondError(c, 400, "validation_rejected", errMissingKind)
		return
	}
	if raw := c.Query("learner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, 400, "validation_rejected", errBadLearnerID)
			return
		}
		f.LearnerID = id
	}
	if raw := c.Query("enrollment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, 400, "validation_rejected", errBadEnrollment)
			return
		}
		f.EnrollmentID = id
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, 400, "validation_rejected", errBadLimit)
			return
		}
		f.Limit = n
	}
	recs, err := h.store.Get(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if recs == nil {
		recs = []*storage.Record{}
	}
	response.RespondOK(c, gin.H{"records": recs})
}

type legacyUserData struct {
	DataType string          `json:"data_type"`
	Value    json.RawMessage `json:"value"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type legacyUserDataItem struct {
	ID        uuid.UUID         `json:"id"`
	UserID    string            `json:"user_id"`
	DataType  string            `json:"data_type"`
	Value     telemetry.Payload `json:"value"`
	Metadata  json.RawMessage   `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// POST /api/user-data/:learnerId
func (h *RecordsHandler) LegacyPut(c *gin.Context) {
	userID := c.Param("learnerId")
	learnerID, err := learner.KeyFor(userID)
	if err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	var req legacyUserData
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	value, err := telemetry.ParsePayload(req.Value)
	if err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	t := &types.TelemetryRecord{
		LearnerID: learnerID,
		DataType:  strings.TrimSpace(req.DataType),
		Value:     value,
	}
	if meta := metadataOrNil(req.Metadata); meta != nil {
		t.Metadata = meta
	}
	rec := storage.NewTelemetryRecord(t)
	if _, err := h.store.Put(c.Request.Context(), rec); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, legacyUserDataItem{
		ID:        t.ID,
		UserID:    userID,
		DataType:  t.DataType,
		Value:     t.Value,
		Metadata:  req.Metadata,
		CreatedAt: t.CreatedAt,
	})
}

// GET /api/user-data/:learnerId?data_type=
func (h *RecordsHandler) LegacyList(c *gin.Context) {
	userID := c.Param("learnerId")
	learnerID, err := learner.KeyFor(userID)
	if err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	recs, err := h.store.Get(c.Request.Context(), storage.Filter{
		Kind:      storage.KindTelemetry,
		LearnerID: learnerID,
		DataType:  c.Query("data_type"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out := make([]legacyUserDataItem, 0, len(recs))
	for _, r := range recs {
		if r.Telemetry == nil {
			continue
		}
		out = append(out, legacyUserDataItem{
			ID:        r.Telemetry.ID,
			UserID:    userID,
			DataType:  r.Telemetry.DataType,
			Value:     r.Telemetry.Value,
			Metadata:  json.RawMessage(r.Telemetry.Metadata),
			CreatedAt: r.Telemetry.CreatedAt,
		})
	}
	response.RespondOK(c, out)
}

func metadataOrNil(raw json.RawMessage) []byte {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	return []byte(s)
}
