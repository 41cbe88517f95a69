package progress

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Assessment) ([]*types.Assessment, error)
	ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Assessment) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Assessment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByLearner joins through phase_progress and enrollment; phaseID is
// optional. Newest first.
func (r *assessmentRepo) ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Table("assessment AS a").
		Select("a.*, pp.phase_id AS phase_id, e.learner_id AS learner_id").
		Joins("JOIN phase_progress pp ON pp.id = a.phase_progress_id").
		Joins("JOIN enrollment e ON e.id = pp.enrollment_id").
		Where("e.learner_id = ?", learnerID)
	if phaseID != "" {
		q = q.Where("pp.phase_id = ?", phaseID)
	}
	var results []*types.Assessment
	if err := q.Order("a.assessed_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
