package db

import (
	types "github.com/yungbote/solbot-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// learners
		&types.Learner{},

		// progress
		&types.Enrollment{},
		&types.PhaseProgress{},
		&types.Rubric{},
		&types.Assessment{},
		&types.ScaffoldingChange{},

		// telemetry
		&types.TelemetryRecord{},
	)
}
