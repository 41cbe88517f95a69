package progress

import (
	"context"

	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RubricRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Rubric, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Rubric, error)
	Upsert(ctx context.Context, tx *gorm.DB, rubrics []*types.Rubric) error
}

type rubricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRubricRepo(db *gorm.DB, baseLog *logger.Logger) RubricRepo {
	repoLog := baseLog.With("repo", "RubricRepo")
	return &rubricRepo{db: db, log: repoLog}
}

func (r *rubricRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Rubric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Rubric
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

func (r *rubricRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Rubric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Rubric
	if err := transaction.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert is used by seeding only.
func (r *rubricRepo) Upsert(ctx context.Context, tx *gorm.DB, rubrics []*types.Rubric) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rubrics) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "max_score", "criteria", "updated_at"}),
		}).
		Create(&rubrics).Error
}
