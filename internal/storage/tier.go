package storage

import "context"

// Tier is one storage backend. Failures are *domain.Error values coded
// tier_unavailable or validation_rejected; absence is an empty slice.
// Get returns records newest first.
type Tier interface {
	Name() TierID
	Put(ctx context.Context, rec *Record) (Outcome, error)
	Get(ctx context.Context, f Filter) ([]*Record, error)
}

// ParentRepairer is implemented by tiers that can materialize a missing
// parent (the learner) after a missing_parent put failure.
type ParentRepairer interface {
	RepairParent(ctx context.Context, rec *Record) error
}

// Recorder receives per-attempt tier metrics. Outcome is "ok", or the error
// code of the failure.
type Recorder interface {
	TierWrite(tier, kind, outcome string)
	TierRead(tier, kind, outcome string)
	SecondaryAttempt(kind, outcome string)
	EphemeralSize(n int)
}

type nopRecorder struct{}

func (nopRecorder) TierWrite(string, string, string) {}
func (nopRecorder) TierRead(string, string, string) {}
func (nopRecorder) SecondaryAttempt(string, string) {}
func (nopRecorder) EphemeralSize(int) {}
