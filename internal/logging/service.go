package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"epi-monitor-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("service", service).Str("camera_id", cfg.CameraID).Logger()
}

func WithFrame(base zerolog.Logger, frameID int64) zerolog.Logger {
	return base.With().Int64("frame_id", frameID).Logger()
}
