package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epi-monitor-go/internal/logging"
	"epi-monitor-go/internal/models"
)

// StatusProvider exposes what the capture loop last produced.
type StatusProvider interface {
	Snapshot() (models.FrameSnapshot, bool)
	Running() bool
	Targets() []string
}

type StatusHandler struct {
	status StatusProvider
}

func NewStatusHandler(status StatusProvider) *StatusHandler {
	return &StatusHandler{status: status}
}

// @Summary Last compliance status
// @Description Get the detections and compliance status of the last processed frame
// @Tags status
// @Produce json
// @Success 200 {object} models.FrameSnapshot
// @Failure 503 {object} map[string]string
// @Router /status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	snap, ok := h.status.Snapshot()
	if !ok {
		logging.Debug(c).Msg("status requested before the first frame")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame processed yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
