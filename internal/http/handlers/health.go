package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Backlog reports how many records are held only in process memory.
type Backlog interface {
	Len() int
}

type HealthHandler struct {
	backlog Backlog
}

func NewHealthHandler(backlog Backlog) *HealthHandler { return &HealthHandler{backlog: backlog} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Status is the operator view of the storage fallback.
func (h *HealthHandler) Status(c *gin.Context) {
	n := 0
	if h.backlog != nil {
		n = h.backlog.Len()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ephemeralRecords": n})
}
