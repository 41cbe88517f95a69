package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScaffoldingChange is the append-only history of derived scaffolding levels.
type ScaffoldingChange struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PhaseProgressID uuid.UUID  `gorm:"type:uuid;not null;index" json:"phase_progress_id"`
	LearnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"learner_id"`
	PhaseID         string     `gorm:"column:phase_id;not null" json:"phase_id"`
	AssessmentID    *uuid.UUID `gorm:"type:uuid" json:"assessment_id,omitempty"`
	Level           int        `gorm:"column:level;not null" json:"level"`
	PreviousLevel   *int       `gorm:"column:previous_level" json:"previous_level,omitempty"`
	Percent         *float64   `gorm:"column:percent" json:"percent,omitempty"`
	Reason          string     `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
}

func (ScaffoldingChange) TableName() string { return "scaffolding_change" }

func (s *ScaffoldingChange) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
