package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

type HealthHandler struct {
	clock timezone.Clock
}

func NewHealthHandler(clock timezone.Clock) *HealthHandler {
	return &HealthHandler{clock: clock}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.clock(),
	})
}
