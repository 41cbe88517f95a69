package learner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Learner is the profile row keyed by id and, naturally, by email.
type Learner struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FullName       *string        `gorm:"column:full_name" json:"full_name,omitempty"`
	EducationLevel *string        `gorm:"column:education_level" json:"education_level,omitempty"`
	Background     *string        `gorm:"column:background" json:"background,omitempty"`
	Preferences    datatypes.JSON `gorm:"column:preferences" json:"preferences,omitempty"`
	LastSeenAt     *time.Time     `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Learner) TableName() string { return "learner" }

func (l *Learner) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PlaceholderEmail is the address given to learners that were materialized
// from a telemetry event before any profile was submitted.
func PlaceholderEmail(id uuid.UUID) string {
	return id.String() + "@example.com"
}
