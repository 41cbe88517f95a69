package progress

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error)
	ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*types.Enrollment, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrollments) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// GetByID returns nil, nil when the enrollment does not exist.
func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
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

// ListByLearner returns the learner's enrollments, newest first.
func (r *enrollmentRepo) ListByLearner(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("created_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
