package app

import (
	httpH "github.com/yungbote/solbot-backend/internal/http/handlers"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Scores      *httpH.ScoresHandler
	UserData    *httpH.UserDataHandler
	Profile     *httpH.ProfileHandler
	Scaffolding *httpH.ScaffoldingHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(services.Gateway.Ephemeral()),
		Scores:      httpH.NewScoresHandler(services.Assessments),
		UserData:    httpH.NewUserDataHandler(services.Telemetry),
		Profile:     httpH.NewProfileHandler(services.Profiles),
		Scaffolding: httpH.NewScaffoldingHandler(services.Assessments),
	}
}
