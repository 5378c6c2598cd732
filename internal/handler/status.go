package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"seedtracker-api/internal/models"
)

// StatusHandler reports liveness and dataset status
type StatusHandler struct {
	service StatusService
	pinger  Pinger
}

// StatusService interface for dependency injection
type StatusService interface {
	Status(context.Context) (*models.DatasetStatus, error)
}

// Pinger checks the storage backend.
type Pinger interface {
	Ping(context.Context) error
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(svc StatusService, pinger Pinger) *StatusHandler {
	return &StatusHandler{service: svc, pinger: pinger}
}

// Health godoc
//
//	@Summary	Liveness and storage check
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status godoc
//
//	@Summary	Dataset counts and last reload time
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	models.DatasetStatus
//	@Failure	500	{object}	ErrorResponse
//	@Router		/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
