package storage

import (
	"context"
	"errors"
	"time"

	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/ctxutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errNoReadTier = errors.New("no readable tier configured")

// Gateway writes Primary, then Secondary with retry, then Ephemeral, and reads
// Primary then Secondary.
type Gateway struct {
	primary   Tier
	secondary Tier
	ephemeral *Ephemeral
	policy    RetryPolicy
	sleep     Sleeper
	metrics   Recorder
	tracer    trace.Tracer
	log       *logger.Logger
}

type Option func(*Gateway)

func WithRetryPolicy(p RetryPolicy) Option { return func(g *Gateway) { g.policy = p } }

func WithSleeper(s Sleeper) Option { return func(g *Gateway) { g.sleep = s } }

func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.metrics = r
		}
	}
}

// NewGateway wires the tiers. primary and secondary may be nil when the tier
// is disabled; ephemeral is required.
func NewGateway(primary, secondary Tier, ephemeral *Ephemeral, baseLog *logger.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		primary:   primary,
		secondary: secondary,
		ephemeral: ephemeral,
		policy:    DefaultRetryPolicy(),
		sleep:     sleepCtx,
		metrics:   nopRecorder{},
		tracer:    otel.Tracer("github.com/yungbote/solbot-backend/internal/storage"),
		log:       baseLog.With("service", "StorageGateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Put never fails for backend reasons: when Primary and Secondary are both
// exhausted the record lands in Ephemeral. Only validation_rejected surfaces.
func (g *Gateway) Put(ctx context.Context, rec *Record) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		return Outcome{}, err
	}

	if g.primary != nil {
		out, err := g.putPrimary(ctx, rec)
		if err == nil {
			return out, nil
		}
		if types.IsCode(err, types.CodeValidationRejected) {
			return Outcome{}, err
		}
		g.log.Warn("primary write failed, falling back", ctxutil.LogFields(ctx,
			"kind", string(rec.Kind),
			"learner_id", rec.LearnerID.String(),
			"code", string(types.CodeOf(err)),
			"error", err,
		)...)
	}

	if g.secondary != nil {
		out, err := g.putSecondary(ctx, rec)
		if err == nil {
			return out, nil
		}
		if types.IsCode(err, types.CodeValidationRejected) {
			return Outcome{}, err
		}
		g.log.Warn("secondary write exhausted, falling back to ephemeral", ctxutil.LogFields(ctx,
			"kind", string(rec.Kind),
			"attempts", g.policy.normalized().MaxRetries+1,
			"error", err,
		)...)
	}

	out, err := g.attemptPut(ctx, g.ephemeral, rec, 0)
	if err != nil {
		return Outcome{}, err
	}
	g.metrics.EphemeralSize(g.ephemeral.Len())
	return out, nil
}

// putPrimary tries once, repairs a missing parent at most once, then retries
// once.
func (g *Gateway) putPrimary(ctx context.Context, rec *Record) (Outcome, error) {
	out, err := g.attemptPut(ctx, g.primary, rec, 0)
	if err == nil || !types.IsCode(err, types.CodeMissingParent) {
		return out, err
	}
	repairer, ok := g.primary.(ParentRepairer)
	if !ok {
		return out, err
	}
	if rerr := repairer.RepairParent(ctx, rec); rerr != nil {
		g.log.Warn("parent repair failed", "kind", string(rec.Kind), "error", rerr)
		return Outcome{}, err
	}
	g.log.Info("repaired missing parent, retrying primary", "kind", string(rec.Kind), "learner_id", rec.LearnerID.String())
	return g.attemptPut(ctx, g.primary, rec, 1)
}

// putSecondary runs detached from the caller: once started, the retry loop
// finishes or exhausts regardless of request cancellation. A conflict on a
// retry means an earlier attempt committed rec.ID before its response was
// lost, so the record counts as stored on Secondary.
func (g *Gateway) putSecondary(ctx context.Context, rec *Record) (Outcome, error) {
	detached := context.WithoutCancel(ctx)
	var out Outcome
	err := g.policy.Do(detached, g.sleep, func(attemptCtx context.Context, attempt int) error {
		o, err := g.attemptPut(attemptCtx, g.secondary, rec, attempt)
		if attempt > 0 && types.IsCode(err, types.CodeConflictOnCreate) {
			g.log.Info("secondary already holds record from an earlier attempt",
				"kind", string(rec.Kind),
				"record_id", rec.ID.String(),
				"attempt", attempt,
			)
			rec.withTier(TierSecondary)
			o, err = Outcome{Accepted: true, Tier: TierSecondary, RecordID: rec.ID}, nil
		}
		g.metrics.SecondaryAttempt(string(rec.Kind), outcomeLabel(err))
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

func (g *Gateway) attemptPut(ctx context.Context, tier Tier, rec *Record, attempt int) (Outcome, error) {
	ctx, span := g.tracer.Start(ctx, "storage.put",
		trace.WithAttributes(
			attribute.String("storage.tier", string(tier.Name())),
			attribute.String("storage.kind", string(rec.Kind)),
			attribute.Int("storage.attempt", attempt),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := tier.Put(ctx, rec)
	g.metrics.TierWrite(string(tier.Name()), string(rec.Kind), outcomeLabel(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(types.CodeOf(err)))
		g.log.Debug("tier put failed",
			"tier", string(tier.Name()),
			"kind", string(rec.Kind),
			"attempt", attempt,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return Outcome{}, err
	}
	g.log.Debug("tier put ok",
		"tier", string(tier.Name()),
		"kind", string(rec.Kind),
		"record_id", out.RecordID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Get is fail-open: it returns an empty slice when every readable tier fails.
func (g *Gateway) Get(ctx context.Context, f Filter) []*Record {
	out, err := g.Lookup(ctx, f)
	if err != nil {
		g.log.Warn("all read tiers failed, returning empty result", ctxutil.LogFields(ctx, "kind", string(f.Kind), "error", err)...)
		return []*Record{}
	}
	return out
}

// Lookup is Get without the fail-open: it surfaces tier_unavailable so callers
// resolving reference data can tell "missing" from "no backend".
func (g *Gateway) Lookup(ctx context.Context, f Filter) ([]*Record, error) {
	const op = "storage.gateway.lookup"
	if !f.Kind.Valid() {
		return nil, types.Rejected(op, "unknown kind %q", f.Kind)
	}
	var lastErr error = errNoReadTier
	for _, tier := range []Tier{g.primary, g.secondary} {
		if tier == nil {
			continue
		}
		out, err := g.attemptGet(ctx, tier, f)
		if err == nil {
			return out, nil
		}
		if types.IsCode(err, types.CodeValidationRejected) {
			return nil, err
		}
		lastErr = err
	}
	return nil, types.Unavailable(op, lastErr)
}

func (g *Gateway) attemptGet(ctx context.Context, tier Tier, f Filter) ([]*Record, error) {
	if timeout := g.policy.AttemptTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, span := g.tracer.Start(ctx, "storage.get",
		trace.WithAttributes(
			attribute.String("storage.tier", string(tier.Name())),
			attribute.String("storage.kind", string(f.Kind)),
		),
	)
	defer span.End()

	out, err := tier.Get(ctx, f)
	g.metrics.TierRead(string(tier.Name()), string(f.Kind), outcomeLabel(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(types.CodeOf(err)))
		g.log.Debug("tier get failed", "tier", string(tier.Name()), "kind", string(f.Kind), "error", err)
		return nil, err
	}
	if out == nil {
		out = []*Record{}
	}
	span.SetAttributes(attribute.Int("storage.results", len(out)))
	return out, nil
}

// Ephemeral exposes the fallback store for operators.
func (g *Gateway) Ephemeral() *Ephemeral { return g.ephemeral }

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := types.CodeOf(err); code != "" {
		return string(code)
	}
	return string(types.CodeInternal)
}
