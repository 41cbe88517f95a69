package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestTelemetryRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewTelemetryRepo(db, testutil.Logger(t))
	learnerID := uuid.New()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, nil, []*types.TelemetryRecord{
		{LearnerID: learnerID, DataType: "goal", Value: types.Payload(`{"text":"finish"}`), StorageTier: "primary", CreatedAt: now.Add(-2 * time.Second)},
		{LearnerID: learnerID, DataType: "time_on_task", Value: types.Payload(`42`), StorageTier: "primary", CreatedAt: now.Add(-time.Second)},
		{LearnerID: learnerID, DataType: "goal", Value: types.Payload(`"second goal"`), StorageTier: "primary", CreatedAt: now},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.List(ctx, nil, learnerID, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List: %+v %v", all, err)
	}
	if string(all[0].Value) != `"second goal"` {
		t.Fatalf("expected newest first, got %s", all[0].Value)
	}
	if string(all[1].Value) != `42` {
		t.Fatalf("numeric payload did not survive: %s", all[1].Value)
	}

	goals, err := repo.List(ctx, nil, learnerID, "goal", 1)
	if err != nil || len(goals) != 1 || goals[0].DataType != "goal" {
		t.Fatalf("List(goal, 1): %+v %v", goals, err)
	}
}
