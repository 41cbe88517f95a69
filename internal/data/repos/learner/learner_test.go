package learner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func TestLearnerRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLearnerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, []*types.Learner{{Email: "ana@example.org"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected generated id, got %+v", created)
	}

	got, err := repo.GetByIDs(ctx, nil, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Email != "ana@example.org" {
		t.Fatalf("GetByIDs: unexpected result: %+v", got)
	}

	byEmail, err := repo.GetByEmail(ctx, nil, "ana@example.org")
	if err != nil || byEmail == nil || byEmail.ID != created[0].ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", byEmail, err)
	}

	missing, err := repo.GetByEmail(ctx, nil, "nobody@example.org")
	if err != nil || missing != nil {
		t.Fatalf("GetByEmail (missing): got=%+v err=%v", missing, err)
	}

	ok, err := repo.Exists(ctx, nil, created[0].ID)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	at := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	if err := repo.TouchLastSeen(ctx, nil, created[0].ID, at); err != nil {
		t.Fatalf("TouchLastSeen: %v", err)
	}
	byEmail, _ = repo.GetByEmail(ctx, nil, "ana@example.org")
	if byEmail.LastSeenAt == nil || !byEmail.LastSeenAt.Equal(at) {
		t.Fatalf("TouchLastSeen: got %v want %v", byEmail.LastSeenAt, at)
	}
}

func TestLearnerRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLearnerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, nil, &types.Learner{
		Email:    "bo@example.org",
		FullName: strPtr("Bo"),
	})
	if err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}

	second, err := repo.Upsert(ctx, nil, &types.Learner{
		Email:          "bo@example.org",
		FullName:       strPtr("Bo Li"),
		EducationLevel: strPtr("undergrad"),
		Preferences:    datatypes.JSON(`{"pace":"slow"}`),
	})
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("Upsert should keep the stored id: %s != %s", second.ID, first.ID)
	}
	if second.FullName == nil || *second.FullName != "Bo Li" {
		t.Fatalf("Upsert did not overwrite full_name: %+v", second.FullName)
	}
	if second.EducationLevel == nil || *second.EducationLevel != "undergrad" {
		t.Fatalf("Upsert did not set education_level")
	}

	var count int64
	db.Model(&types.Learner{}).Where("email = ?", "bo@example.org").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}
}

func TestLearnerRepoEnsureExists(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLearnerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	id := uuid.New()
	created, err := repo.EnsureExists(ctx, nil, id)
	if err != nil || !created {
		t.Fatalf("EnsureExists (first): created=%v err=%v", created, err)
	}
	created, err = repo.EnsureExists(ctx, nil, id)
	if err != nil || created {
		t.Fatalf("EnsureExists (second): created=%v err=%v", created, err)
	}

	got, err := repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: %v %+v", err, got)
	}
	if got[0].Email != id.String()+"@example.com" {
		t.Fatalf("unexpected placeholder email %q", got[0].Email)
	}
}
