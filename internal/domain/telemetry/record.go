package telemetry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is one learner telemetry fact. StorageTier names the backend that
// accepted the write.
type Record struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_telemetry_learner_type" json:"learner_id"`
	DataType    string         `gorm:"column:data_type;not null;index:idx_telemetry_learner_type" json:"data_type"`
	Value       Payload        `gorm:"column:value;not null" json:"value"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	StorageTier string         `gorm:"column:storage_tier;not null" json:"storage_tier"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Record) TableName() string { return "telemetry_record" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
