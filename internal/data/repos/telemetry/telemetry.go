package telemetry

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type TelemetryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TelemetryRecord) ([]*types.TelemetryRecord, error)
	List(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, dataType string, limit int) ([]*types.TelemetryRecord, error)
}

type telemetryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTelemetryRepo(db *gorm.DB, baseLog *logger.Logger) TelemetryRepo {
	repoLog := baseLog.With("repo", "TelemetryRepo")
	return &telemetryRepo{db: db, log: repoLog}
}

func (r *telemetryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TelemetryRecord) ([]*types.TelemetryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.TelemetryRecord{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns newest first; dataType is optional and limit <= 0 means all.
func (r *telemetryRepo) List(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, dataType string, limit int) ([]*types.TelemetryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("learner_id = ?", learnerID)
	if dataType != "" {
		q = q.Where("data_type = ?", dataType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.TelemetryRecord
	if err := q.Order("created_at DESC").Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
