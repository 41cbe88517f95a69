package progress

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ScaffoldingChangeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ScaffoldingChange) ([]*types.ScaffoldingChange, error)
	ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.ScaffoldingChange, error)
}

type scaffoldingChangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScaffoldingChangeRepo(db *gorm.DB, baseLog *logger.Logger) ScaffoldingChangeRepo {
	repoLog := baseLog.With("repo", "ScaffoldingChangeRepo")
	return &scaffoldingChangeRepo{db: db, log: repoLog}
}

func (r *scaffoldingChangeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScaffoldingChange) ([]*types.ScaffoldingChange, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ScaffoldingChange{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scaffoldingChangeRepo) ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.ScaffoldingChange, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("learner_id = ?", learnerID)
	if phaseID != "" {
		q = q.Where("phase_id = ?", phaseID)
	}
	var results []*types.ScaffoldingChange
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
