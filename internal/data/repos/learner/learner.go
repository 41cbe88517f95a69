package learner

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearnerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, learners []*types.Learner) ([]*types.Learner, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, learnerIDs []uuid.UUID) ([]*types.Learner, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Learner, error)
	Exists(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, tx *gorm.DB, l *types.Learner) (*types.Learner, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, l *types.Learner) error
	TouchLastSeen(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, at time.Time) error
	EnsureExists(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) (bool, error)
}

type learnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	repoLog := baseLog.With("repo", "LearnerRepo")
	return &learnerRepo{db: db, log: repoLog}
}

// profileColumns lists the columns an upsert of l may overwrite: the profile
// fields l actually carries plus the two timestamps.
func profileColumns(l *types.Learner) []string {
	cols := make([]string, 0, 6)
	if l.FullName != nil {
		cols = append(cols, "full_name")
	}
	if l.EducationLevel != nil {
		cols = append(cols, "education_level")
	}
	if l.Background != nil {
		cols = append(cols, "background")
	}
	if len(l.Preferences) > 0 {
		cols = append(cols, "preferences")
	}
	return append(cols, "last_seen_at", "updated_at")
}

func (lr *learnerRepo) Create(ctx context.Context, tx *gorm.DB, learners []*types.Learner) ([]*types.Learner, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(learners) == 0 {
		return []*types.Learner{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&learners).Error; err != nil {
		return nil, err
	}
	return learners, nil
}

func (lr *learnerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, learnerIDs []uuid.UUID) ([]*types.Learner, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Learner
	if len(learnerIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", learnerIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByEmail returns nil, nil when no learner owns the address.
func (lr *learnerRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Learner, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Learner
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (lr *learnerRepo) Exists(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Learner{}).
		Where("id = ?", learnerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Upsert inserts the learner owning l.Email, or overwrites only the profile
// columns l sets, in one statement. The row is re-read so the returned ID and
// untouched fields are the stored ones.
func (lr *learnerRepo) Upsert(ctx context.Context, tx *gorm.DB, l *types.Learner) (*types.Learner, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	now := time.Now().UTC()
	if l.LastSeenAt == nil {
		l.LastSeenAt = &now
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns(profileColumns(l)),
		}).
		Create(l).Error; err != nil {
		return nil, err
	}
	stored, err := lr.GetByEmail(ctx, transaction, l.Email)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

// UpdateProfile writes the non-nil profile fields of l and refreshes the
// timestamps; fields l leaves nil keep their stored value.
func (lr *learnerRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, l *types.Learner) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"last_seen_at": now,
		"updated_at":   now,
	}
	if l.FullName != nil {
		updates["full_name"] = *l.FullName
	}
	if l.EducationLevel != nil {
		updates["education_level"] = *l.EducationLevel
	}
	if l.Background != nil {
		updates["background"] = *l.Background
	}
	if len(l.Preferences) > 0 {
		updates["preferences"] = l.Preferences
	}
	return transaction.WithContext(ctx).
		Model(&types.Learner{}).
		Where("id = ?", learnerID).
		Updates(updates).Error
}

func (lr *learnerRepo) TouchLastSeen(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Learner{}).
		Where("id = ?", learnerID).
		UpdateColumn("last_seen_at", at).Error
}

// EnsureExists materializes a placeholder learner for learnerID. It reports
// whether a row was inserted; an existing row is left untouched.
func (lr *learnerRepo) EnsureExists(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	row := &types.Learner{
		ID:    learnerID,
		Email: learner.PlaceholderEmail(learnerID),
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		lr.log.Info("auto-created learner", "learner_id", learnerID.String())
	}
	return res.RowsAffected > 0, nil
}
