package progress

import (
	"time"

	"gorm.io/datatypes"
)

// Rubric is static reference data; this service only reads it.
type Rubric struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	MaxScore    float64        `gorm:"column:max_score;not null" json:"max_score"`
	Criteria    datatypes.JSON `gorm:"column:criteria" json:"criteria,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Rubric) TableName() string { return "rubric" }
