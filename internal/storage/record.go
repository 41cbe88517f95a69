package storage

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
)

// Kind names what a Record carries.
type Kind string

const (
	KindTelemetry     Kind = "telemetry"
	KindAssessment    Kind = "assessment"
	KindScaffolding   Kind = "scaffolding"
	KindEnrollment    Kind = "enrollment"
	KindPhaseProgress Kind = "phase_progress"
	KindRubric        Kind = "rubric"
)

// Writable reports whether the gateway accepts puts of this kind. The
// remaining kinds are reference data provisioned elsewhere and only looked up.
func (k Kind) Writable() bool {
	switch k {
	case KindTelemetry, KindAssessment, KindScaffolding:
		return true
	}
	return false
}

func (k Kind) Valid() bool {
	switch k {
	case KindTelemetry, KindAssessment, KindScaffolding, KindEnrollment, KindPhaseProgress, KindRubric:
		return true
	}
	return false
}

type TierID string

const (
	TierPrimary   TierID = "primary"
	TierSecondary TierID = "secondary"
	TierEphemeral TierID = "ephemeral"
)

// Record is the envelope moved between tiers. Exactly one body matching
// Kind is set.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	LearnerID uuid.UUID `json:"learner_id,omitempty"`
	PhaseID   string    `json:"phase_id,omitempty"`
	DataType  string    `json:"data_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Tier      TierID    `json:"tier,omitempty"`

	Telemetry     *types.TelemetryRecord   `json:"telemetry,omitempty"`
	Assessment    *types.Assessment        `json:"assessment,omitempty"`
	Scaffolding   *types.ScaffoldingChange `json:"scaffolding,omitempty"`
	Enrollment    *types.Enrollment        `json:"enrollment,omitempty"`
	PhaseProgress *types.PhaseProgress     `json:"phase_progress,omitempty"`
	Rubric        *types.Rubric            `json:"rubric,omitempty"`
}

// Outcome reports which tier accepted a write.
type Outcome struct {
	Accepted bool      `json:"accepted"`
	Tier     TierID    `json:"tier"`
	RecordID uuid.UUID `json:"record_id"`
}

// Filter selects records for Get. Which fields apply depends on Kind:
// Key is the id of an enrollment or rubric; EnrollmentID plus PhaseID, or
// LearnerID plus PhaseID, select phase progress.
type Filter struct {
	Kind         Kind      `json:"kind"`
	LearnerID    uuid.UUID `json:"learner_id,omitempty"`
	DataType     string    `json:"data_type,omitempty"`
	PhaseID      string    `json:"phase_id,omitempty"`
	EnrollmentID uuid.UUID `json:"enrollment_id,omitempty"`
	Key          string    `json:"key,omitempty"`
	Limit        int       `json:"limit,omitempty"`
}

func NewTelemetryRecord(t *types.TelemetryRecord) *Record {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return &Record{
		ID:        t.ID,
		Kind:      KindTelemetry,
		LearnerID: t.LearnerID,
		DataType:  t.DataType,
		CreatedAt: t.CreatedAt,
		Telemetry: t,
	}
}

// NewAssessmentRecord expects LearnerID and PhaseID already projected onto a.
func NewAssessmentRecord(a *types.Assessment) *Record {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssessedAt.IsZero() {
		a.AssessedAt = time.Now().UTC()
	}
	if strings.TrimSpace(a.AssessedBy) == "" {
		a.AssessedBy = "system"
	}
	return &Record{
		ID:         a.ID,
		Kind:       KindAssessment,
		LearnerID:  a.LearnerID,
		PhaseID:    a.PhaseID,
		CreatedAt:  a.AssessedAt,
		Assessment: a,
	}
}

func NewScaffoldingRecord(s *types.ScaffoldingChange) *Record {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return &Record{
		ID:          s.ID,
		Kind:        KindScaffolding,
		LearnerID:   s.LearnerID,
		PhaseID:     s.PhaseID,
		CreatedAt:   s.CreatedAt,
		Scaffolding: s,
	}
}

// Validate rejects malformed input before any tier is touched.
func (r *Record) Validate() error {
	const op = "storage.Record.Validate"
	if r == nil {
		return types.Rejected(op, "record is required")
	}
	if !r.Kind.Writable() {
		return types.Rejected(op, "kind %q is not writable", r.Kind)
	}
	switch r.Kind {
	case KindTelemetry:
		t := r.Telemetry
		if t == nil {
			return types.Rejected(op, "telemetry body is required")
		}
		if t.LearnerID == uuid.Nil {
			return types.Rejected(op, "learnerId is required")
		}
		if strings.TrimSpace(t.DataType) == "" {
			return types.Rejected(op, "dataType is required")
		}
		if len(t.Value) == 0 {
			return types.Rejected(op, "value is required")
		}
	case KindAssessment:
		a := r.Assessment
		if a == nil {
			return types.Rejected(op, "assessment body is required")
		}
		if a.PhaseProgressID == uuid.Nil {
			return types.Rejected(op, "phaseProgressId is required")
		}
		if strings.TrimSpace(a.RubricID) == "" {
			return types.Rejected(op, "rubricId is required")
		}
		if math.IsNaN(a.Score) || math.IsInf(a.Score, 0) || a.Score < 0 {
			return types.Rejected(op, "score must be a finite number >= 0")
		}
	case KindScaffolding:
		s := r.Scaffolding
		if s == nil {
			return types.Rejected(op, "scaffolding body is required")
		}
		if s.PhaseProgressID == uuid.Nil {
			return types.Rejected(op, "phaseProgressId is required")
		}
		if s.Level < types.ScaffoldingHigh || s.Level > types.ScaffoldingLow {
			return types.Rejected(op, "scaffolding level %d out of range", s.Level)
		}
	}
	return nil
}

// withTier stamps the accepting tier on the envelope and its body.
func (r *Record) withTier(tier TierID) {
	r.Tier = tier
	if r.Telemetry != nil {
		r.Telemetry.StorageTier = string(tier)
	}
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Telemetry != nil {
		t := *r.Telemetry
		t.Value = append(types.Payload(nil), r.Telemetry.Value...)
		cp.Telemetry = &t
	}
	if r.Assessment != nil {
		a := *r.Assessment
		cp.Assessment = &a
	}
	if r.Scaffolding != nil {
		s := *r.Scaffolding
		cp.Scaffolding = &s
	}
	if r.Enrollment != nil {
		e := *r.Enrollment
		cp.Enrollment = &e
	}
	if r.PhaseProgress != nil {
		p := *r.PhaseProgress
		cp.PhaseProgress = &p
	}
	if r.Rubric != nil {
		rb := *r.Rubric
		cp.Rubric = &rb
	}
	return &cp
}

// Matches applies f to an envelope. Used by tiers without a query engine.
func (f Filter) Matches(r *Record) bool {
	if r == nil || r.Kind != f.Kind {
		return false
	}
	if f.LearnerID != uuid.Nil && r.LearnerID != f.LearnerID {
		return false
	}
	if f.DataType != "" && r.DataType != f.DataType {
		return false
	}
	if f.PhaseID != "" && r.PhaseID != f.PhaseID {
		return false
	}
	if f.EnrollmentID != uuid.Nil {
		if r.PhaseProgress == nil || r.PhaseProgress.EnrollmentID != f.EnrollmentID {
			return false
		}
	}
	if f.Key != "" && r.ID.String() != f.Key {
		if r.Rubric == nil || r.Rubric.ID != f.Key {
			return false
		}
	}
	return true
}
