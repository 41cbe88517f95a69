package domain

import (
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/domain/progress"
	"github.com/yungbote/solbot-backend/internal/domain/telemetry"
)

type (
	Learner           = learner.Learner
	Enrollment        = progress.Enrollment
	PhaseProgress     = progress.PhaseProgress
	Rubric            = progress.Rubric
	Assessment        = progress.Assessment
	ScaffoldingChange = progress.ScaffoldingChange
	TelemetryRecord   = telemetry.Record
	Payload           = telemetry.Payload
)

const (
	ScaffoldingHigh   = progress.LevelHigh
	ScaffoldingMedium = progress.LevelMedium
	ScaffoldingLow    = progress.LevelLow
)
