package storage

import (
	"context"
	"sync"
	"time"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

// fakeTier records every call and fails according to putErr/getErr.
type fakeTier struct {
	name   TierID
	putErr func(attempt int) error
	getErr error

	mu       sync.Mutex
	putCalls []time.Time
	ctxErrs  []error
	getCalls int
	stored   []*Record
}

func (f *fakeTier) Name() TierID { return f.name }

func (f *fakeTier) Put(ctx context.Context, rec *Record) (Outcome, error) {
	f.mu.Lock()
	attempt := len(f.putCalls)
	f.putCalls = append(f.putCalls, time.Now())
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if f.putErr != nil {
		if err := f.putErr(attempt); err != nil {
			return Outcome{}, err
		}
	}
	cp := rec.clone()
	cp.withTier(f.name)
	f.mu.Lock()
	f.stored = append([]*Record{cp}, f.stored...)
	f.mu.Unlock()
	rec.withTier(f.name)
	return Outcome{Accepted: true, Tier: f.name, RecordID: rec.ID}, nil
}

func (f *fakeTier) Get(ctx context.Context, flt Filter) ([]*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := []*Record{}
	for _, r := range f.stored {
		if flt.Matches(r) {
			out = append(out, r.clone())
		}
	}
	return out, nil
}

func (f *fakeTier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.putCalls)
}

func alwaysDown(op string) func(int) error {
	return func(int) error { return types.Unavailable(op, nil) }
}
