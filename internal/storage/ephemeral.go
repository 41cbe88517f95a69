package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// Ephemeral is the last-resort, process-local tier. It is append-only and
// lost on restart. The gateway writes to it but never reads from it.
type Ephemeral struct {
	mu      sync.Mutex
	records []*Record
	log     *logger.Logger
}

func NewEphemeral(baseLog *logger.Logger) *Ephemeral {
	return &Ephemeral{log: baseLog.With("tier", string(TierEphemeral))}
}

func (e *Ephemeral) Name() TierID { return TierEphemeral }

func (e *Ephemeral) Put(ctx context.Context, rec *Record) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return Outcome{}, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.withTier(TierEphemeral)
	cp := rec.clone()

	e.mu.Lock()
	e.records = append(e.records, cp)
	n := len(e.records)
	e.mu.Unlock()

	e.log.Warn("record held in ephemeral store", "kind", string(rec.Kind), "record_id", rec.ID.String(), "held", n)
	return Outcome{Accepted: true, Tier: TierEphemeral, RecordID: rec.ID}, nil
}

// Get serves operators and tests.
func (e *Ephemeral) Get(ctx context.Context, f Filter) ([]*Record, error) {
	e.mu.Lock()
	out := make([]*Record, 0, len(e.records))
	for _, r := range e.records {
		if f.Matches(r) {
			out = append(out, r.clone())
		}
	}
	e.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (e *Ephemeral) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}
