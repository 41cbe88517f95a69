package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solbot-backend/internal/http/response"
	"github.com/yungbote/solbot-backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Email          string          `json:"email"`
	FullName       *string         `json:"full_name,omitempty"`
	EducationLevel *string         `json:"education_level,omitempty"`
	Background     *string         `json:"background,omitempty"`
	Preferences    json.RawMessage `json:"preferences,omitempty"`
}

// POST /api/user/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "validation_rejected", err)
		return
	}
	l, err := h.profiles.Upsert(c.Request.Context(), services.ProfileInput{
		Email:          req.Email,
		FullName:       req.FullName,
		EducationLevel: req.EducationLevel,
		Background:     req.Background,
		Preferences:    req.Preferences,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "learnerId": l.ID.String(), "profile": l})
}

// GET /api/user/profile?email=
func (h *ProfileHandler) Get(c *gin.Context) {
	l, err := h.profiles.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, l)
}
