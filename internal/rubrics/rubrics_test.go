package rubrics

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	"github.com/yungbote/solbot-backend/internal/storage"
)

const sample = `
rubrics:
  - id: reflection-v1
    name: Reflection quality
    max_score: 10
    criteria:
      depth: 4
      evidence: 6
  - id: plan-v1
    max_score: 5
`

func TestParse(t *testing.T) {
	list, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rubrics, got %d", len(list))
	}
	if list[1].Name != "plan-v1" {
		t.Fatalf("name should default to id, got %q", list[1].Name)
	}
	var crit map[string]float64
	if err := json.Unmarshal(list[0].Criteria, &crit); err != nil || crit["evidence"] != 6 {
		t.Fatalf("criteria not carried: %s err=%v", list[0].Criteria, err)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"missing id":    "rubrics:\n  - name: x\n    max_score: 1\n",
		"zero max":      "rubrics:\n  - id: a\n    max_score: 0\n",
		"duplicate":     "rubrics:\n  - id: a\n    max_score: 1\n  - id: a\n    max_score: 2\n",
		"unknown field": "rubrics:\n  - id: a\n    max_score: 1\n    weight: 3\n",
	}
	for name, doc := range cases {
		if _, err := Parse(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSeedPrimaryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := repos.NewRubricRepo(db, testutil.Logger(t))
	list, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedPrimary(ctx, repo, list); err != nil {
			t.Fatalf("SeedPrimary #%d: %v", i, err)
		}
	}
	got, err := repo.List(ctx, nil)
	if err != nil || len(got) != 2 {
		t.Fatalf("List: n=%d err=%v", len(got), err)
	}
}

func TestSeedRecordLog(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	rl := storage.NewRecordLog(db, testutil.Logger(t))
	if err := rl.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	list, _ := Parse(strings.NewReader(sample))
	if err := SeedRecordLog(ctx, rl, list); err != nil {
		t.Fatalf("SeedRecordLog: %v", err)
	}
	recs, err := rl.Get(ctx, storage.Filter{Kind: storage.KindRubric, Key: "plan-v1"})
	if err != nil || len(recs) != 1 || recs[0].Rubric == nil || recs[0].Rubric.MaxScore != 5 {
		t.Fatalf("rubric lookup: recs=%v err=%v", recs, err)
	}
}
