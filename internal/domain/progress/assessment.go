package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment is an immutable scoring fact.
//
// PhaseID and LearnerID are read-only projections filled by joins on reads.
type Assessment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PhaseProgressID uuid.UUID `gorm:"type:uuid;not null;index" json:"phase_progress_id"`
	RubricID        string    `gorm:"column:rubric_id;not null;index" json:"rubric_id"`
	Score           float64   `gorm:"column:score;not null" json:"score"`
	Feedback        *string   `gorm:"column:feedback" json:"feedback,omitempty"`
	AssessedBy      string    `gorm:"column:assessed_by;not null;default:'system'" json:"assessed_by"`
	AssessedAt      time.Time `gorm:"column:assessed_at;not null;index" json:"assessed_at"`

	PhaseID   string    `gorm:"->;-:migration;column:phase_id" json:"phase_id,omitempty"`
	LearnerID uuid.UUID `gorm:"->;-:migration;column:learner_id" json:"learner_id,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssessedBy == "" {
		a.AssessedBy = "system"
	}
	return nil
}
