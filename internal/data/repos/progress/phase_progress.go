package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type PhaseProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PhaseProgress) ([]*types.PhaseProgress, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PhaseProgress, error)
	FindByEnrollmentAndPhase(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, phaseID string) ([]*types.PhaseProgress, error)
	FindForLearnerPhase(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.PhaseProgress, error)
	UpdateLevel(ctx context.Context, tx *gorm.DB, id uuid.UUID, level int) (int64, error)
}

type phaseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhaseProgressRepo(db *gorm.DB, baseLog *logger.Logger) PhaseProgressRepo {
	repoLog := baseLog.With("repo", "PhaseProgressRepo")
	return &phaseProgressRepo{db: db, log: repoLog}
}

func (r *phaseProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PhaseProgress) ([]*types.PhaseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PhaseProgress{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *phaseProgressRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PhaseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PhaseProgress
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// FindByEnrollmentAndPhase returns every matching row (at most two) so callers
// can tell "missing" from "duplicated".
func (r *phaseProgressRepo) FindByEnrollmentAndPhase(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, phaseID string) ([]*types.PhaseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PhaseProgress
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ? AND phase_id = ?", enrollmentID, phaseID).
		Limit(2).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindForLearnerPhase walks the learner's enrollments newest first.
func (r *phaseProgressRepo) FindForLearnerPhase(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, phaseID string) ([]*types.PhaseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PhaseProgress
	if err := transaction.WithContext(ctx).
		Table("phase_progress AS pp").
		Select("pp.*").
		Joins("JOIN enrollment e ON e.id = pp.enrollment_id").
		Where("e.learner_id = ? AND pp.phase_id = ?", learnerID, phaseID).
		Order("e.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *phaseProgressRepo) UpdateLevel(ctx context.Context, tx *gorm.DB, id uuid.UUID, level int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.PhaseProgress{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"scaffolding_level": level,
			"updated_at":        time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
