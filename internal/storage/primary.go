package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

var errPrimaryDisabled = errors.New("primary store disabled")

// Primary is the relational tier. A nil db yields a disabled tier whose every
// call fails tier_unavailable.
type Primary struct {
	db    *gorm.DB
	repos *repos.Set
	log   *logger.Logger
}

func NewPrimary(db *gorm.DB, set *repos.Set, baseLog *logger.Logger) *Primary {
	if set == nil && db != nil {
		set = repos.NewSet(db, baseLog)
	}
	return &Primary{db: db, repos: set, log: baseLog.With("tier", string(TierPrimary))}
}

func (p *Primary) Name() TierID { return TierPrimary }

func (p *Primary) Enabled() bool { return p != nil && p.db != nil }

func (p *Primary) Put(ctx context.Context, rec *Record) (Outcome, error) {
	const op = "storage.primary.put"
	if !p.Enabled() {
		return Outcome{}, types.Unavailable(op, errPrimaryDisabled)
	}
	if err := rec.Validate(); err != nil {
		return Outcome{}, err
	}

	var err error
	switch rec.Kind {
	case KindTelemetry:
		err = p.putTelemetry(ctx, rec)
	case KindAssessment:
		err = p.putAssessment(ctx, rec)
	case KindScaffolding:
		err = p.putScaffolding(ctx, rec)
	}
	if err != nil {
		return Outcome{}, MapError(op, err)
	}
	rec.withTier(TierPrimary)
	return Outcome{Accepted: true, Tier: TierPrimary, RecordID: rec.ID}, nil
}

func (p *Primary) putTelemetry(ctx context.Context, rec *Record) error {
	ok, err := p.repos.Learner.Exists(ctx, nil, rec.Telemetry.LearnerID)
	if err != nil {
		return err
	}
	if !ok {
		return types.NewError(types.CodeMissingParent, "storage.primary.put", "learner "+rec.Telemetry.LearnerID.String()+" not found", nil)
	}
	row := *rec.Telemetry
	row.StorageTier = string(TierPrimary)
	if _, err := p.repos.Telemetry.Create(ctx, nil, []*types.TelemetryRecord{&row}); err != nil {
		return err
	}
	rec.Telemetry.ID = row.ID
	rec.ID = row.ID
	return nil
}

func (p *Primary) putAssessment(ctx context.Context, rec *Record) error {
	pp, err := p.repos.PhaseProgress.GetByID(ctx, nil, rec.Assessment.PhaseProgressID)
	if err != nil {
		return err
	}
	if pp == nil {
		return types.NewError(types.CodeDataIntegrity, "storage.primary.put", "phase progress "+rec.Assessment.PhaseProgressID.String()+" not found", nil)
	}
	row := *rec.Assessment
	if _, err := p.repos.Assessment.Create(ctx, nil, []*types.Assessment{&row}); err != nil {
		return err
	}
	rec.Assessment.ID = row.ID
	rec.ID = row.ID
	return nil
}

// putScaffolding updates the tier on the progress row and appends history in
// one transaction.
func (p *Primary) putScaffolding(ctx context.Context, rec *Record) error {
	change := *rec.Scaffolding
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := p.repos.PhaseProgress.UpdateLevel(ctx, tx, change.PhaseProgressID, change.Level)
		if err != nil {
			return err
		}
		if n == 0 {
			return types.NewError(types.CodeDataIntegrity, "storage.primary.put", "phase progress "+change.PhaseProgressID.String()+" not found", nil)
		}
		_, err = p.repos.ScaffoldingChange.Create(ctx, tx, []*types.ScaffoldingChange{&change})
		return err
	})
	if err != nil {
		return err
	}
	rec.Scaffolding.ID = change.ID
	rec.ID = change.ID
	return nil
}

// RepairParent materializes the learner a telemetry or assessment record
// points at, using a placeholder email.
func (p *Primary) RepairParent(ctx context.Context, rec *Record) error {
	const op = "storage.primary.repair"
	if !p.Enabled() {
		return types.Unavailable(op, errPrimaryDisabled)
	}
	if rec == nil || rec.LearnerID == uuid.Nil {
		return types.Rejected(op, "record has no learner to repair")
	}
	if _, err := p.repos.Learner.EnsureExists(ctx, nil, rec.LearnerID); err != nil {
		return MapError(op, err)
	}
	return nil
}

func (p *Primary) Get(ctx context.Context, f Filter) ([]*Record, error) {
	const op = "storage.primary.get"
	if !p.Enabled() {
		return nil, types.Unavailable(op, errPrimaryDisabled)
	}
	out, err := p.get(ctx, f)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (p *Primary) get(ctx context.Context, f Filter) ([]*Record, error) {
	out := []*Record{}
	switch f.Kind {
	case KindTelemetry:
		rows, err := p.repos.Telemetry.List(ctx, nil, f.LearnerID, f.DataType, f.Limit)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			rec := NewTelemetryRecord(r)
			rec.Tier = TierPrimary
			out = append(out, rec)
		}
	case KindAssessment:
		rows, err := p.repos.Assessment.ListByLearner(ctx, nil, f.LearnerID, f.PhaseID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			rec := NewAssessmentRecord(r)
			rec.Tier = TierPrimary
			out = append(out, rec)
		}
	case KindScaffolding:
		rows, err := p.repos.ScaffoldingChange.ListByLearner(ctx, nil, f.LearnerID, f.PhaseID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			rec := NewScaffoldingRecord(r)
			rec.Tier = TierPrimary
			out = append(out, rec)
		}
	case KindEnrollment:
		rows, err := p.enrollments(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, e := range rows {
			out = append(out, &Record{ID: e.ID, Kind: KindEnrollment, LearnerID: e.LearnerID, CreatedAt: e.CreatedAt, Tier: TierPrimary, Enrollment: e})
		}
	case KindPhaseProgress:
		var rows []*types.PhaseProgress
		var err error
		switch {
		case f.EnrollmentID != uuid.Nil:
			rows, err = p.repos.PhaseProgress.FindByEnrollmentAndPhase(ctx, nil, f.EnrollmentID, f.PhaseID)
		case f.LearnerID != uuid.Nil:
			rows, err = p.repos.PhaseProgress.FindForLearnerPhase(ctx, nil, f.LearnerID, f.PhaseID)
		default:
			return nil, types.Rejected("storage.primary.get", "phase progress lookup needs enrollmentId or learnerId")
		}
		if err != nil {
			return nil, err
		}
		for _, pp := range rows {
			out = append(out, &Record{ID: pp.ID, Kind: KindPhaseProgress, LearnerID: f.LearnerID, PhaseID: pp.PhaseID, CreatedAt: pp.CreatedAt, Tier: TierPrimary, PhaseProgress: pp})
		}
	case KindRubric:
		r, err := p.repos.Rubric.GetByID(ctx, nil, f.Key)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, &Record{Kind: KindRubric, CreatedAt: r.CreatedAt, Tier: TierPrimary, Rubric: r})
		}
	default:
		return nil, types.Rejected("storage.primary.get", "unknown kind %q", f.Kind)
	}
	return out, nil
}

func (p *Primary) enrollments(ctx context.Context, f Filter) ([]*types.Enrollment, error) {
	if f.Key != "" {
		id, err := uuid.Parse(f.Key)
		if err != nil {
			return nil, types.Rejected("storage.primary.get", "enrollmentId %q is not a uuid", f.Key)
		}
		e, err := p.repos.Enrollment.GetByID(ctx, nil, id)
		if err != nil || e == nil {
			return nil, err
		}
		if f.LearnerID != uuid.Nil && e.LearnerID != f.LearnerID {
			return nil, nil
		}
		return []*types.Enrollment{e}, nil
	}
	return p.repos.Enrollment.ListByLearner(ctx, nil, f.LearnerID)
}
