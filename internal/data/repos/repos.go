package repos

import (
	"github.com/yungbote/solbot-backend/internal/data/repos/learner"
	"github.com/yungbote/solbot-backend/internal/data/repos/progress"
	"github.com/yungbote/solbot-backend/internal/data/repos/telemetry"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type LearnerRepo = learner.LearnerRepo

type EnrollmentRepo = progress.EnrollmentRepo
type PhaseProgressRepo = progress.PhaseProgressRepo
type RubricRepo = progress.RubricRepo
type AssessmentRepo = progress.AssessmentRepo
type ScaffoldingChangeRepo = progress.ScaffoldingChangeRepo

type TelemetryRepo = telemetry.TelemetryRepo

func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	return learner.NewLearnerRepo(db, baseLog)
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return progress.NewEnrollmentRepo(db, baseLog)
}
func NewPhaseProgressRepo(db *gorm.DB, baseLog *logger.Logger) PhaseProgressRepo {
	return progress.NewPhaseProgressRepo(db, baseLog)
}
func NewRubricRepo(db *gorm.DB, baseLog *logger.Logger) RubricRepo {
	return progress.NewRubricRepo(db, baseLog)
}
func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return progress.NewAssessmentRepo(db, baseLog)
}
func NewScaffoldingChangeRepo(db *gorm.DB, baseLog *logger.Logger) ScaffoldingChangeRepo {
	return progress.NewScaffoldingChangeRepo(db, baseLog)
}

func NewTelemetryRepo(db *gorm.DB, baseLog *logger.Logger) TelemetryRepo {
	return telemetry.NewTelemetryRepo(db, baseLog)
}

// Set bundles every repo over one database handle.
type Set struct {
	Learner           LearnerRepo
	Enrollment        EnrollmentRepo
	PhaseProgress     PhaseProgressRepo
	Rubric            RubricRepo
	Assessment        AssessmentRepo
	ScaffoldingChange ScaffoldingChangeRepo
	Telemetry         TelemetryRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) *Set {
	return &Set{
		Learner:           NewLearnerRepo(db, baseLog),
		Enrollment:        NewEnrollmentRepo(db, baseLog),
		PhaseProgress:     NewPhaseProgressRepo(db, baseLog),
		Rubric:            NewRubricRepo(db, baseLog),
		Assessment:        NewAssessmentRepo(db, baseLog),
		ScaffoldingChange: NewScaffoldingChangeRepo(db, baseLog),
		Telemetry:         NewTelemetryRepo(db, baseLog),
	}
}
