package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// LevelHigh is maximum support and the default for new progress rows.
	LevelHigh   = 1
	LevelMedium = 2
	LevelLow    = 3
)

// PhaseProgress is unique per (enrollment_id, phase_id).
type PhaseProgress struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_phase" json:"enrollment_id"`
	PhaseID          string    `gorm:"column:phase_id;not null;uniqueIndex:idx_enrollment_phase" json:"phase_id"`
	ScaffoldingLevel int       `gorm:"column:scaffolding_level;not null;default:1" json:"scaffolding_level"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (PhaseProgress) TableName() string { return "phase_progress" }

func (p *PhaseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ScaffoldingLevel == 0 {
		p.ScaffoldingLevel = LevelHigh
	}
	return nil
}
