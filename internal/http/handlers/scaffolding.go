package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/services"
)

type ScaffoldingHandler struct {
	assessments services.AssessmentService
}

func NewScaffoldingHandler(assessments services.AssessmentService) *ScaffoldingHandler {
	return &ScaffoldingHandler{assessments: assessments}
}

// GET /api/scaffolding?learnerId=&phaseId=
func (h *ScaffoldingHandler) Get(c *gin.Context) {
	res, err := h.assessments.ScaffoldingLevel(c.Request.Context(), c.Query("learnerId"), c.Query("phaseId"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"learnerId":        res.LearnerID.String(),
		"phaseId":          res.PhaseID,
		"scaffoldingLevel": res.Level,
		"source":           res.Source,
	})
}
