package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epi-monitor-go/internal/config"
)

type HealthHandler struct {
	CameraID     string
	Version      string
	capabilities []string
	status       StatusProvider
}

func NewHealthHandler(cfg *config.Config, status StatusProvider) *HealthHandler {
	return &HealthHandler{
		CameraID:     cfg.CameraID,
		Version:      cfg.Version,
		capabilities: Capabilities(cfg),
		status:       status,
	}
}

// Capabilities lists the features enabled by cfg.
func Capabilities(cfg *config.Config) []string {
	caps := []string{"ppe_detection"}
	if cfg.HTTPEnabled {
		caps = append(caps, "mjpeg_preview")
	}
	if cfg.NatsEnabled {
		caps = append(caps, "nats_alerts")
		if cfg.AlertsContextImage {
			caps = append(caps, "alert_context_image")
		}
	}
	if cfg.GRPCHealthEnabled {
		caps = append(caps, "grpc_health")
	}
	return caps
}

type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	CameraID string `json:"camera_id" example:"webcam-0"`
	Running  bool   `json:"running" example:"true"`
}

type MonitorInfoResponse struct {
	CameraID     string   `json:"camera_id" example:"webcam-0"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Targets      []string `json:"targets"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the monitor is healthy and responsive
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		CameraID: h.CameraID,
		Running:  h.status.Running(),
	})
}

// @Summary Monitor information
// @Description Get basic monitor information and the resolved target classes
// @Tags health
// @Produce json
// @Success 200 {object} MonitorInfoResponse
// @Router / [get]
func (h *HealthHandler) MonitorInfo(c *gin.Context) {
	status := "stopped"
	if h.status.Running() {
		status = "running"
	}
	c.JSON(http.StatusOK, MonitorInfoResponse{
		CameraID:     h.CameraID,
		Status:       status,
		Version:      h.Version,
		Targets:      h.status.Targets(),
		Capabilities: h.capabilities,
	})
}
