package postprocessing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"epi-monitor-go/internal/config"
	"epi-monitor-go/internal/helpers"
	"epi-monitor-go/internal/models"
	"epi-monitor-go/internal/services/postprocessing/alerts"
)

// Service turns per-frame compliance results into rate-limited alerts.
type Service struct {
	cfg        *config.Config
	publisher  models.MessagePublisher
	cooldownMu sync.RWMutex
	lastSent   map[string]time.Time
	cooldown   time.Duration
	now        func() time.Time
}

// NewService creates a new postprocessing service
func NewService(cfg *config.Config, publisher models.MessagePublisher) (*Service, error) {
	if publisher == nil {
		return nil, fmt.Errorf("message publisher is required")
	}

	s := &Service{
		cfg:       cfg,
		publisher: publisher,
		lastSent:  make(map[string]time.Time),
		cooldown:  cfg.AlertsCooldown,
		now:       time.Now,
	}

	log.Info().
		Dur("cooldown", s.cooldown).
		Str("subject", cfg.AlertsSubject).
		Msg("Post-processing service initialized")

	return s, nil
}

// Shutdown stops the service gracefully
func (s *Service) Shutdown(ctx context.Context) error {
	log.Info().Msg("Post-processing service shutdown")
	return nil
}

// ProcessFrame publishes a PPE_VIOLATION alert for a non-compliant frame
// unless the same violation was published within the cooldown. It reports
// whether an alert went out. frameJPEG, when present, is attached as a
// compressed context image.
func (s *Service) ProcessFrame(meta models.FrameMetadata, kept []models.Detection, st models.ComplianceStatus, frameJPEG []byte) (bool, error) {
	if st.OK {
		return false, nil
	}

	key := models.AlertCooldownKey{
		CameraID:  meta.CameraID,
		AlertType: models.AlertTypePPEViolation,
		Missing:   strings.Join(st.Missing, ","),
	}
	if !s.CheckCooldown(key) {
		log.Debug().
			Str("camera_id", meta.CameraID).
			Str("key", key.String()).
			Msg("Alert blocked by cooldown")
		return false, nil
	}

	start := s.now()
	payload := alerts.BuildPPEAlert(meta, kept, st, start)
	s.attachContextImage(&payload, frameJPEG)

	subject := s.cfg.AlertsSubject
	if subject == "" {
		subject = "epi.alerts"
	}

	if err := s.publisher.Publish(subject, payload); err != nil {
		log.Error().
			Err(err).
			Str("camera_id", meta.CameraID).
			Str("alert_type", string(payload.Alert.AlertType)).
			Msg("Failed to publish alert")
		return false, err
	}
	s.UpdateCooldown(key)

	log.Info().
		Str("camera_id", meta.CameraID).
		Int64("frame_id", meta.FrameID).
		Strs("missing", st.Missing).
		Str("severity", string(payload.Alert.Severity)).
		Msg("Alerta publicado")

	return true, nil
}

func (s *Service) attachContextImage(payload *models.AlertPayload, frameJPEG []byte) {
	if !s.cfg.AlertsContextImage || len(frameJPEG) == 0 {
		return
	}

	img, err := helpers.ContextImageB64(frameJPEG,
		s.cfg.AlertsImageMaxWidth, s.cfg.AlertsImageMaxHeight,
		s.cfg.AlertsImageMaxBytes, s.cfg.AlertsImageQuality)
	if err != nil {
		log.Warn().Err(err).Str("camera_id", payload.CameraID).Msg("Failed to build alert context image")
		return
	}
	payload.ContextImage = &img
}

// CheckCooldown checks if enough time has passed since the last alert
func (s *Service) CheckCooldown(key models.AlertCooldownKey) bool {
	s.cooldownMu.RLock()
	defer s.cooldownMu.RUnlock()

	lastSent, exists := s.lastSent[key.String()]
	if !exists {
		return true
	}
	return s.now().Sub(lastSent) >= s.cooldown
}

// UpdateCooldown updates the last sent time for a cooldown key
func (s *Service) UpdateCooldown(key models.AlertCooldownKey) {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	s.lastSent[key.String()] = s.now()
}
