package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/services"
	"github.com/yungbote/solbot-backend/internal/storage"
)

type ScoresHandler struct {
	assessments services.AssessmentService
}

func NewScoresHandler(assessments services.AssessmentService) *ScoresHandler {
	return &ScoresHandler{assessments: assessments}
}

type submitScoreRequest struct {
	LearnerID    string   `json:"learnerId"`
	PhaseID      string   `json:"phaseId"`
	RubricID     string   `json:"rubricId"`
	Score        *float64 `json:"score"`
	Feedback     *string  `json:"feedback,omitempty"`
	AssessedBy   string   `json:"assessedBy,omitempty"`
	EnrollmentID string   `json:"enrollmentId,omitempty"`
}

type submitScoreResponse struct {
	Success             bool           `json:"success"`
	AssessmentID        string         `json:"assessmentId"`
	EnrollmentID        string         `json:"enrollmentId"`
	PhaseProgressID     string         `json:"phaseProgressId"`
	ScaffoldingLevel    int            `json:"scaffoldingLevel"`
	PreviousLevel       int            `json:"previousLevel"`
	Percent             *float64       `json:"percent,omitempty"`
	ScaffoldingDegraded bool           `json:"scaffoldingDegraded"`
	InvalidRubric       bool           `json:"invalidRubric,omitempty"`
	Tier                storage.TierID `json:"tier"`
}

// POST /api/scores
func (h *ScoresHandler) Submit(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	res, err := h.assessments.Submit(c.Request.Context(), services.SubmitAssessmentInput{
		LearnerID:    req.LearnerID,
		PhaseID:      req.PhaseID,
		RubricID:     req.RubricID,
		Score:        req.Score,
		Feedback:     req.Feedback,
		AssessedBy:   req.AssessedBy,
		EnrollmentID: req.EnrollmentID,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.NoteTier(c, string(res.Tier))
	response.RespondOK(c, submitScoreResponse{
		Success:             true,
		AssessmentID:        res.AssessmentID.String(),
		EnrollmentID:        res.EnrollmentID.String(),
		PhaseProgressID:     res.PhaseProgressID.String(),
		ScaffoldingLevel:    res.ScaffoldingLevel,
		PreviousLevel:       res.PreviousLevel,
		Percent:             res.Percent,
		ScaffoldingDegraded: res.ScaffoldingDegraded,
		InvalidRubric:       res.InvalidRubric,
		Tier:                res.Tier,
	})
}

// GET /api/scores?learnerId=&phaseId=
func (h *ScoresHandler) List(c *gin.Context) {
	list, err := h.assessments.List(c.Request.Context(), c.Query("learnerId"), c.Query("phaseId"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, list)
}
