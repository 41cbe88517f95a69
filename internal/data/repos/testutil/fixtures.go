package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedLearner(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Learner {
	tb.Helper()
	l := &types.Learner{ID: uuid.New(), Email: email}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed learner: %v", err)
	}
	return l
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, courseID string, createdAt time.Time) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:        uuid.New(),
		LearnerID: learnerID,
		CourseID:  courseID,
		CreatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedPhaseProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, phaseID string) *types.PhaseProgress {
	tb.Helper()
	pp := &types.PhaseProgress{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		PhaseID:      phaseID,
	}
	if err := tx.WithContext(ctx).Create(pp).Error; err != nil {
		tb.Fatalf("seed phase progress: %v", err)
	}
	return pp
}

func SeedRubric(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, maxScore float64) *types.Rubric {
	tb.Helper()
	r := &types.Rubric{ID: id, Name: id, MaxScore: maxScore}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rubric: %v", err)
	}
	return r
}
