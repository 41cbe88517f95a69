package storage

import (
	"context"
	"time"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

const (
	DefaultMaxRetries     = 2
	DefaultRetryDelay     = 1 * time.Second
	DefaultAttemptTimeout = 20 * time.Second
)

// RetryPolicy is a fixed-delay policy: MaxRetries extra attempts after the
// first, Delay between attempts, AttemptTimeout capping each attempt.
type RetryPolicy struct {
	MaxRetries     int
	Delay          time.Duration
	AttemptTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     DefaultMaxRetries,
		Delay:          DefaultRetryDelay,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// Sleeper waits d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs fn up to MaxRetries+1 times. Each attempt gets its own timeout.
// Errors that no retry can fix stop the loop early.
func (p RetryPolicy) Do(ctx context.Context, sleep Sleeper, fn func(ctx context.Context, attempt int) error) error {
	p = p.normalized()
	if sleep == nil {
		sleep = sleepCtx
	}
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Delay); err != nil {
				return lastErr
			}
		}
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		err := fn(attemptCtx, attempt)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !types.IsRetryable(err) {
			return err
		}
	}
	return lastErr
}
