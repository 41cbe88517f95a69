package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestEnrollmentRepoNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	l := testutil.SeedLearner(t, ctx, db, "e@example.org")
	base := time.Now().UTC().Add(-time.Hour)
	older := testutil.SeedEnrollment(t, ctx, db, l.ID, "c1", base)
	newer := testutil.SeedEnrollment(t, ctx, db, l.ID, "c2", base.Add(time.Minute))

	repo := NewEnrollmentRepo(db, testutil.Logger(t))
	got, err := repo.ListByLearner(ctx, nil, l.ID)
	if err != nil {
		t.Fatalf("ListByLearner: %v", err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("ListByLearner: unexpected order: %+v", got)
	}

	one, err := repo.GetByID(ctx, nil, older.ID)
	if err != nil || one == nil || one.CourseID != "c1" {
		t.Fatalf("GetByID: got=%+v err=%v", one, err)
	}
	none, err := repo.GetByID(ctx, nil, uuid.New())
	if err != nil || none != nil {
		t.Fatalf("GetByID (missing): got=%+v err=%v", none, err)
	}
}

func TestPhaseProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	l := testutil.SeedLearner(t, ctx, db, "p@example.org")
	e := testutil.SeedEnrollment(t, ctx, db, l.ID, "c1", time.Now().UTC())
	pp := testutil.SeedPhaseProgress(t, ctx, db, e.ID, "p1")
	if pp.ScaffoldingLevel != types.ScaffoldingHigh {
		t.Fatalf("default level: got %d", pp.ScaffoldingLevel)
	}

	repo := NewPhaseProgressRepo(db, testutil.Logger(t))
	rows, err := repo.FindByEnrollmentAndPhase(ctx, nil, e.ID, "p1")
	if err != nil || len(rows) != 1 || rows[0].ID != pp.ID {
		t.Fatalf("FindByEnrollmentAndPhase: rows=%+v err=%v", rows, err)
	}

	if _, err := repo.Create(ctx, nil, []*types.PhaseProgress{{EnrollmentID: e.ID, PhaseID: "p1"}}); err == nil {
		t.Fatalf("expected unique violation on duplicate (enrollment, phase)")
	}

	n, err := repo.UpdateLevel(ctx, nil, pp.ID, types.ScaffoldingLow)
	if err != nil || n != 1 {
		t.Fatalf("UpdateLevel: n=%d err=%v", n, err)
	}
	byLearner, err := repo.FindForLearnerPhase(ctx, nil, l.ID, "p1")
	if err != nil || len(byLearner) != 1 {
		t.Fatalf("FindForLearnerPhase: rows=%+v err=%v", byLearner, err)
	}
	if byLearner[0].ScaffoldingLevel != types.ScaffoldingLow {
		t.Fatalf("UpdateLevel not persisted: %d", byLearner[0].ScaffoldingLevel)
	}
}

func TestRubricRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewRubricRepo(db, testutil.Logger(t))

	if err := repo.Upsert(ctx, nil, []*types.Rubric{{ID: "r1", Name: "Essay", MaxScore: 10}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, nil, []*types.Rubric{{ID: "r1", Name: "Essay v2", MaxScore: 20}}); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	r, err := repo.GetByID(ctx, nil, "r1")
	if err != nil || r == nil {
		t.Fatalf("GetByID: %+v %v", r, err)
	}
	if r.MaxScore != 20 || r.Name != "Essay v2" {
		t.Fatalf("Upsert did not update: %+v", r)
	}
	all, err := repo.List(ctx, nil)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: %+v %v", all, err)
	}
	missing, err := repo.GetByID(ctx, nil, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByID (missing): %+v %v", missing, err)
	}
}

func TestAssessmentRepoListByLearner(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	l := testutil.SeedLearner(t, ctx, db, "a@example.org")
	e := testutil.SeedEnrollment(t, ctx, db, l.ID, "c1", time.Now().UTC())
	p1 := testutil.SeedPhaseProgress(t, ctx, db, e.ID, "p1")
	p2 := testutil.SeedPhaseProgress(t, ctx, db, e.ID, "p2")

	repo := NewAssessmentRepo(db, testutil.Logger(t))
	now := time.Now().UTC()
	_, err := repo.Create(ctx, nil, []*types.Assessment{
		{PhaseProgressID: p1.ID, RubricID: "r1", Score: 7, AssessedAt: now.Add(-time.Minute)},
		{PhaseProgressID: p2.ID, RubricID: "r1", Score: 9, AssessedAt: now},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.ListByLearner(ctx, nil, l.ID, "")
	if err != nil {
		t.Fatalf("ListByLearner: %v", err)
	}
	if len(all) != 2 || all[0].PhaseID != "p2" || all[1].PhaseID != "p1" {
		t.Fatalf("ListByLearner: unexpected rows: %+v", all)
	}
	if all[0].LearnerID != l.ID || all[0].AssessedBy != "system" {
		t.Fatalf("projection/default mismatch: %+v", all[0])
	}

	onlyP1, err := repo.ListByLearner(ctx, nil, l.ID, "p1")
	if err != nil || len(onlyP1) != 1 || onlyP1[0].Score != 7 {
		t.Fatalf("ListByLearner(p1): %+v %v", onlyP1, err)
	}

	none, err := repo.ListByLearner(ctx, nil, uuid.New(), "")
	if err != nil || len(none) != 0 {
		t.Fatalf("ListByLearner(unknown): %+v %v", none, err)
	}
}

func TestScaffoldingChangeRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewScaffoldingChangeRepo(db, testutil.Logger(t))
	learnerID := uuid.New()
	prev := 1
	_, err := repo.Create(ctx, nil, []*types.ScaffoldingChange{
		{PhaseProgressID: uuid.New(), LearnerID: learnerID, PhaseID: "p1", Level: 3, PreviousLevel: &prev, Reason: "assessment"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, err := repo.ListByLearner(ctx, nil, learnerID, "p1")
	if err != nil || len(rows) != 1 || rows[0].Level != 3 || *rows[0].PreviousLevel != 1 {
		t.Fatalf("ListByLearner: %+v %v", rows, err)
	}
}
