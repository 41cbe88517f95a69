package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/domain/telemetry"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/storage"
)

type TelemetryInput struct {
	LearnerID string
	DataType  string
	Value     json.RawMessage
	Metadata  json.RawMessage
}

type TelemetryService interface {
	Record(ctx context.Context, in TelemetryInput) (storage.Outcome, error)
	List(ctx context.Context, learnerID, dataType string, limit int) ([]*types.TelemetryRecord, error)
}

type telemetryService struct {
	gateway RecordGateway
	log     *logger.Logger
}

func NewTelemetryService(gateway RecordGateway, log *logger.Logger) TelemetryService {
	return &telemetryService{gateway: gateway, log: log.With("service", "TelemetryService")}
}

// Record validates shape only: value must be JSON and metadata, when present,
// a JSON object. Backend failures never reach the caller.
func (s *telemetryService) Record(ctx context.Context, in TelemetryInput) (storage.Outcome, error) {
	const op = "services.telemetry.record"
	learnerID, err := learner.KeyFor(in.LearnerID)
	if err != nil {
		return storage.Outcome{}, types.Rejected(op, "learnerId is required")
	}
	dataType := strings.TrimSpace(in.DataType)
	if dataType == "" {
		return storage.Outcome{}, types.Rejected(op, "dataType is required")
	}
	value, err := telemetry.ParsePayload(in.Value)
	if err != nil {
		return storage.Outcome{}, types.Rejected(op, "value must be JSON")
	}
	meta, err := metadataObject(in.Metadata)
	if err != nil {
		return storage.Outcome{}, types.Rejected(op, "metadata must be a JSON object")
	}

	rec := storage.NewTelemetryRecord(&types.TelemetryRecord{
		LearnerID: learnerID,
		DataType:  dataType,
		Value:     value,
		Metadata:  meta,
	})
	out, err := s.gateway.Put(ctx, rec)
	if err != nil {
		return storage.Outcome{}, err
	}
	s.log.Debug("telemetry stored", "learner_id", learnerID.String(), "data_type", dataType, "tier", string(out.Tier))
	return out, nil
}

func (s *telemetryService) List(ctx context.Context, learnerID, dataType string, limit int) ([]*types.TelemetryRecord, error) {
	id, err := learner.KeyFor(learnerID)
	if err != nil {
		return nil, types.Rejected("services.telemetry.list", "learnerId is required")
	}
	recs := s.gateway.Get(ctx, storage.Filter{
		Kind:      storage.KindTelemetry,
		LearnerID: id,
		DataType:  strings.TrimSpace(dataType),
		Limit:     limit,
	})
	out := make([]*types.TelemetryRecord, 0, len(recs))
	for _, r := range recs {
		if r.Telemetry != nil {
			out = append(out, r.Telemetry)
		}
	}
	return out, nil
}

func metadataObject(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	return datatypes.JSON(trimmed), nil
}
