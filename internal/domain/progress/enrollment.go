package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment links a learner to a course. Provisioned outside this service.
type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"learner_id"`
	CourseID  string    `gorm:"column:course_id;not null;index" json:"course_id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
