package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
)

func TestEphemeralConcurrentPuts(t *testing.T) {
	eph := NewEphemeral(testutil.Logger(t))
	learnerID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eph.Put(context.Background(), telemetryRecord(learnerID, "tick", `1`)); err != nil {
				t.Errorf("Put: %v", err)
			}
		}()
	}
	wg.Wait()

	if eph.Len() != 64 {
		t.Fatalf("expected 64 records, got %d", eph.Len())
	}
	got, _ := eph.Get(context.Background(), Filter{Kind: KindTelemetry, LearnerID: learnerID, Limit: 10})
	if len(got) != 10 {
		t.Fatalf("limit not applied: %d", len(got))
	}
}

func TestEphemeralStoresCopies(t *testing.T) {
	eph := NewEphemeral(testutil.Logger(t))
	rec := telemetryRecord(uuid.New(), "goal", `"a"`)
	out, err := eph.Put(context.Background(), rec)
	if err != nil || out.Tier != TierEphemeral {
		t.Fatalf("Put: %+v %v", out, err)
	}
	if rec.Telemetry.StorageTier != string(TierEphemeral) {
		t.Fatalf("tier not stamped on caller's record")
	}
	rec.Telemetry.DataType = "mutated"

	got, _ := eph.Get(context.Background(), Filter{Kind: KindTelemetry})
	if len(got) != 1 || got[0].Telemetry.DataType != "goal" {
		t.Fatalf("ephemeral store should hold its own copy: %+v", got)
	}
}
