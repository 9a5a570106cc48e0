package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epi-monitor-go/internal/logging"
)

// FrameStreamer serves annotated frames.
type FrameStreamer interface {
	StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request)
	Latest() []byte
}

type VideoHandler struct {
	streamer FrameStreamer
}

func NewVideoHandler(streamer FrameStreamer) *VideoHandler {
	return &VideoHandler{streamer: streamer}
}

// @Summary MJPEG preview
// @Description Stream annotated frames as multipart/x-mixed-replace JPEG
// @Tags video
// @Produce multipart/x-mixed-replace
// @Success 200
// @Router /stream [get]
func (h *VideoHandler) Stream(c *gin.Context) {
	logging.Info(c).Msg("MJPEG client connected")
	h.streamer.StreamMJPEGHTTP(c.Writer, c.Request)
	logging.Info(c).Msg("MJPEG client disconnected")
}

// @Summary Latest frame
// @Description Get the last annotated frame as a JPEG image
// @Tags video
// @Produce image/jpeg
// @Success 200
// @Failure 503 {object} map[string]string
// @Router /frame.jpg [get]
func (h *VideoHandler) LatestFrame(c *gin.Context) {
	jpeg := h.streamer.Latest()
	if len(jpeg) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame available yet"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", jpeg)
}
