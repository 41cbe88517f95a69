package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/scaffolding"
	"github.com/yungbote/solbot-backend/internal/storage"
)

// Stage is a step of the submission pipeline.
type Stage string

const (
	StageReceived              Stage = "received"
	StageEnrollmentResolved    Stage = "enrollment_resolved"
	StagePhaseProgressResolved Stage = "phase_progress_resolved"
	StageAssessmentPersisted   Stage = "assessment_persisted"
	StageScaffoldingRecomputed Stage = "scaffolding_recomputed"
	StageDone                  Stage = "done"
	StageFailed                Stage = "failed"
)

type SubmitAssessmentInput struct {
	LearnerID    string
	PhaseID      string
	RubricID     string
	Score        *float64
	Feedback     *string
	AssessedBy   string
	EnrollmentID string
}

type SubmitAssessmentResult struct {
	AssessmentID        uuid.UUID
	LearnerID           uuid.UUID
	EnrollmentID        uuid.UUID
	PhaseProgressID     uuid.UUID
	ScaffoldingLevel    int
	PreviousLevel       int
	Percent             *float64
	ScaffoldingDegraded bool
	InvalidRubric       bool
	Tier                storage.TierID
	ScaffoldingTier     storage.TierID
	Stage               Stage
}

type AssessmentService interface {
	Submit(ctx context.Context, in SubmitAssessmentInput) (*SubmitAssessmentResult, error)
	List(ctx context.Context, learnerID, phaseID string) ([]*types.Assessment, error)
	ScaffoldingLevel(ctx context.Context, learnerID, phaseID string) (*ScaffoldingLevelResult, error)
}

type ScaffoldingLevelResult struct {
	LearnerID uuid.UUID
	PhaseID   string
	Level     int
	Source    string
}

type assessmentService struct {
	gateway RecordGateway
	cache   ScaffoldingCache
	rubrics singleflight.Group
	log     *logger.Logger
}

func NewAssessmentService(gateway RecordGateway, cache ScaffoldingCache, log *logger.Logger) AssessmentService {
	if cache == nil {
		cache = NewMemoryScaffoldingCache(0)
	}
	return &assessmentService{
		gateway: gateway,
		cache:   cache,
		log:     log.With("service", "AssessmentService"),
	}
}

// submission carries state between pipeline stages.
type submission struct {
	in           SubmitAssessmentInput
	stage        Stage
	learnerID    uuid.UUID
	enrollmentID uuid.UUID
	candidates   []*types.Enrollment
	progress     *types.PhaseProgress
	assessment   *types.Assessment
	result       SubmitAssessmentResult
}

type stageStep struct {
	next Stage
	run  func(ctx context.Context, sub *submission) error
}

func (s *assessmentService) Submit(ctx context.Context, in SubmitAssessmentInput) (*SubmitAssessmentResult, error) {
	sub := &submission{in: in, stage: StageReceived}
	if err := s.validate(sub); err != nil {
		return nil, err
	}

	steps := []stageStep{
		{StageEnrollmentResolved, s.resolveEnrollment},
		{StagePhaseProgressResolved, s.resolvePhaseProgress},
		{StageAssessmentPersisted, s.persistAssessment},
		{StageScaffoldingRecomputed, s.recomputeScaffolding},
	}
	for _, step := range steps {
		if err := step.run(ctx, sub); err != nil {
			sub.stage = StageFailed
			s.log.Warn("assessment submission failed",
				"stage", string(step.next),
				"learner_id", sub.learnerID.String(),
				"phase_id", in.PhaseID,
				"code", string(types.CodeOf(err)),
				"error", err,
			)
			return nil, err
		}
		sub.stage = step.next
	}
	sub.stage = StageDone
	sub.result.Stage = StageDone

	s.log.Info("assessment recorded",
		"learner_id", sub.learnerID.String(),
		"phase_id", in.PhaseID,
		"assessment_id", sub.result.AssessmentID.String(),
		"level", sub.result.ScaffoldingLevel,
		"tier", string(sub.result.Tier),
		"degraded", sub.result.ScaffoldingDegraded,
	)
	return &sub.result, nil
}

func (s *assessmentService) validate(sub *submission) error {
	const op = "services.assessment.validate"
	in := &sub.in
	in.PhaseID = strings.TrimSpace(in.PhaseID)
	in.RubricID = strings.TrimSpace(in.RubricID)
	in.AssessedBy = strings.TrimSpace(in.AssessedBy)

	id, err := learner.KeyFor(in.LearnerID)
	if err != nil {
		return types.Rejected(op, "learnerId is required")
	}
	sub.learnerID = id
	if in.PhaseID == "" {
		return types.Rejected(op, "phaseId is required")
	}
	if in.RubricID == "" {
		return types.Rejected(op, "rubricId is required")
	}
	if in.Score == nil {
		return types.Rejected(op, "score is required")
	}
	if math.IsNaN(*in.Score) || math.IsInf(*in.Score, 0) || *in.Score < 0 {
		return types.Rejected(op, "score must be a finite number >= 0")
	}
	if raw := strings.TrimSpace(in.EnrollmentID); raw != "" {
		eid, err := uuid.Parse(raw)
		if err != nil {
			return types.Rejected(op, "enrollmentId %q is not a uuid", raw)
		}
		sub.enrollmentID = eid
	}
	if in.AssessedBy == "" {
		in.AssessedBy = "system"
	}
	sub.result.LearnerID = id
	return nil
}

func (s *assessmentService) resolveEnrollment(ctx context.Context, sub *submission) error {
	const op = "services.assessment.resolve_enrollment"
	f := storage.Filter{Kind: storage.KindEnrollment, LearnerID: sub.learnerID}
	if sub.enrollmentID != uuid.Nil {
		f.Key = sub.enrollmentID.String()
	}
	recs, err := s.gateway.Lookup(ctx, f)
	if err != nil {
		return types.Wrap("", op, err)
	}
	for _, r := range recs {
		if r.Enrollment != nil {
			sub.candidates = append(sub.candidates, r.Enrollment)
		}
	}
	if len(sub.candidates) == 0 {
		return types.NewError(types.CodeEnrollmentNotFound, op, fmt.Sprintf("no enrollment for learner %s", sub.learnerID), nil)
	}
	return nil
}

// resolvePhaseProgress picks the newest enrollment that owns a progress row
// for the phase. More than one row for one (enrollment, phase) pair is an
// integrity failure, as is finding none at all.
func (s *assessmentService) resolvePhaseProgress(ctx context.Context, sub *submission) error {
	const op = "services.assessment.resolve_phase_progress"
	for _, e := range sub.candidates {
		recs, err := s.gateway.Lookup(ctx, storage.Filter{
			Kind:         storage.KindPhaseProgress,
			EnrollmentID: e.ID,
			PhaseID:      sub.in.PhaseID,
		})
		if err != nil {
			return types.Wrap("", op, err)
		}
		var found []*types.PhaseProgress
		for _, r := range recs {
			if r.PhaseProgress != nil {
				found = append(found, r.PhaseProgress)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			sub.progress = found[0]
			sub.result.EnrollmentID = e.ID
			sub.result.PhaseProgressID = found[0].ID
			sub.result.PreviousLevel = found[0].ScaffoldingLevel
			return nil
		default:
			return types.NewError(types.CodeDataIntegrity, op,
				fmt.Sprintf("%d phase progress rows for enrollment %s phase %s", len(found), e.ID, sub.in.PhaseID), nil)
		}
	}
	return types.NewError(types.CodeDataIntegrity, op,
		fmt.Sprintf("no phase progress for learner %s phase %s", sub.learnerID, sub.in.PhaseID), nil)
}

func (s *assessmentService) persistAssessment(ctx context.Context, sub *submission) error {
	const op = "services.assessment.persist"
	a := &types.Assessment{
		PhaseProgressID: sub.progress.ID,
		RubricID:        sub.in.RubricID,
		Score:           *sub.in.Score,
		Feedback:        sub.in.Feedback,
		AssessedBy:      sub.in.AssessedBy,
		PhaseID:         sub.in.PhaseID,
		LearnerID:       sub.learnerID,
	}
	out, err := s.gateway.Put(ctx, storage.NewAssessmentRecord(a))
	if err != nil {
		return types.Wrap("", op, err)
	}
	sub.assessment = a
	sub.result.AssessmentID = out.RecordID
	sub.result.Tier = out.Tier
	return nil
}

// recomputeScaffolding never fails the submission. A level that could not be
// stored durably marks the result degraded.
func (s *assessmentService) recomputeScaffolding(ctx context.Context, sub *submission) error {
	rubric := s.rubric(ctx, sub.in.RubricID)
	res, err := scaffolding.FromRubric(sub.assessment.Score, rubric)
	if err != nil {
		sub.result.InvalidRubric = types.IsCode(err, types.CodeInvalidRubric)
		s.log.Warn("scaffolding falls back to high support", "rubric_id", sub.in.RubricID, "error", err)
	}
	sub.result.ScaffoldingLevel = res.Level
	if rubric != nil && err == nil {
		p := res.Percent
		sub.result.Percent = &p
	}

	previous := sub.progress.ScaffoldingLevel
	assessmentID := sub.result.AssessmentID
	change := &types.ScaffoldingChange{
		PhaseProgressID: sub.progress.ID,
		LearnerID:       sub.learnerID,
		PhaseID:         sub.in.PhaseID,
		AssessmentID:    &assessmentID,
		Level:           res.Level,
		PreviousLevel:   &previous,
		Percent:         sub.result.Percent,
		Reason:          "assessment",
	}
	out, perr := s.gateway.Put(ctx, storage.NewScaffoldingRecord(change))
	switch {
	case perr != nil:
		sub.result.ScaffoldingDegraded = true
		s.log.Warn("scaffolding level not persisted", "phase_progress_id", sub.progress.ID.String(), "error", perr)
	case out.Tier == storage.TierEphemeral:
		sub.result.ScaffoldingDegraded = true
		sub.result.ScaffoldingTier = out.Tier
		s.log.Warn("scaffolding level only held in ephemeral store", "phase_progress_id", sub.progress.ID.String())
	default:
		sub.result.ScaffoldingTier = out.Tier
	}

	if cerr := s.cache.SetLevel(ctx, sub.learnerID, sub.in.PhaseID, res.Level); cerr != nil {
		s.log.Warn("scaffolding cache write failed", "error", cerr)
	}
	return nil
}

// rubric is best-effort: concurrent submissions share one lookup and any
// failure yields nil. The shared lookup ignores the first caller's
// cancellation since its result is handed to every waiter.
func (s *assessmentService) rubric(ctx context.Context, rubricID string) *types.Rubric {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.rubrics.Do(rubricID, func() (any, error) {
		recs, err := s.gateway.Lookup(shared, storage.Filter{Kind: storage.KindRubric, Key: rubricID})
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if r.Rubric != nil {
				return r.Rubric, nil
			}
		}
		return nil, nil
	})
	if err != nil {
		s.log.Warn("rubric lookup failed", "rubric_id", rubricID, "error", err)
		return nil
	}
	rubric, _ := v.(*types.Rubric)
	if rubric == nil {
		s.log.Warn("rubric not found", "rubric_id", rubricID)
	}
	return rubric
}

func (s *assessmentService) List(ctx context.Context, learnerID, phaseID string) ([]*types.Assessment, error) {
	id, err := learner.KeyFor(learnerID)
	if err != nil {
		return nil, types.Rejected("services.assessment.list", "learnerId is required")
	}
	recs := s.gateway.Get(ctx, storage.Filter{
		Kind:      storage.KindAssessment,
		LearnerID: id,
		PhaseID:   strings.TrimSpace(phaseID),
	})
	out := make([]*types.Assessment, 0, len(recs))
	for _, r := range recs {
		if r.Assessment == nil {
			continue
		}
		a := r.Assessment
		if a.PhaseID == "" {
			a.PhaseID = r.PhaseID
		}
		if a.LearnerID == uuid.Nil {
			a.LearnerID = r.LearnerID
		}
		out = append(out, a)
	}
	return out, nil
}

// ScaffoldingLevel reads the cache, then the progress row, then the change
// history. Unknown pairs get the default level.
func (s *assessmentService) ScaffoldingLevel(ctx context.Context, learnerID, phaseID string) (*ScaffoldingLevelResult, error) {
	const op = "services.assessment.scaffolding_level"
	id, err := learner.KeyFor(learnerID)
	if err != nil {
		return nil, types.Rejected(op, "learnerId is required")
	}
	phaseID = strings.TrimSpace(phaseID)
	if phaseID == "" {
		return nil, types.Rejected(op, "phaseId is required")
	}
	out := &ScaffoldingLevelResult{LearnerID: id, PhaseID: phaseID, Level: types.ScaffoldingHigh, Source: "default"}

	if level, ok, err := s.cache.GetLevel(ctx, id, phaseID); err != nil {
		s.log.Warn("scaffolding cache read failed", "error", err)
	} else if ok {
		out.Level, out.Source = level, "cache"
		return out, nil
	}

	for _, r := range s.gateway.Get(ctx, storage.Filter{Kind: storage.KindPhaseProgress, LearnerID: id, PhaseID: phaseID}) {
		if r.PhaseProgress != nil {
			out.Level, out.Source = r.PhaseProgress.ScaffoldingLevel, "progress"
			return out, nil
		}
	}
	for _, r := range s.gateway.Get(ctx, storage.Filter{Kind: storage.KindScaffolding, LearnerID: id, PhaseID: phaseID, Limit: 1}) {
		if r.Scaffolding != nil {
			out.Level, out.Source = r.Scaffolding.Level, "history"
			return out, nil
		}
	}
	return out, nil
}
