// Package monitor owns the capture loop: model, camera, window and frame
// buffers all live on the goroutine that calls Run.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"epi-monitor-go/internal/config"
	"epi-monitor-go/internal/logging"
	"epi-monitor-go/internal/models"
	"epi-monitor-go/internal/services/classes"
	"epi-monitor-go/internal/services/compliance"
	"epi-monitor-go/internal/services/detection"
	"epi-monitor-go/internal/services/display"
	"epi-monitor-go/internal/services/overlay"
	"epi-monitor-go/internal/services/status"
	"epi-monitor-go/internal/services/streamcapture"
	"epi-monitor-go/internal/services/targets"
)

// Handled stop conditions. Both end the run before the capture loop starts.
var (
	ErrNoTargetClasses   = models.ErrNoTargetClasses
	ErrCameraUnavailable = models.ErrCameraUnavailable
)

// Detector is a loaded model.
type Detector interface {
	Classes() classes.Table
	Detect(frame gocv.Mat) ([]models.Detection, time.Duration, error)
	Close() error
}

// Camera is an opened frame source.
type Camera interface {
	Read(mat *gocv.Mat) bool
	Close() error
}

type (
	DetectorLoader func(cfg *config.Config) (Detector, error)
	CameraOpener   func(index int, logger zerolog.Logger) (Camera, error)
)

func loadDetector(cfg *config.Config) (Detector, error) {
	opts, err := detection.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := detection.NewService(opts, logging.NewServiceLogger(cfg, "detection"))
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func openCamera(index int, logger zerolog.Logger) (Camera, error) {
	cam, err := streamcapture.Open(index, logger)
	if err != nil {
		return nil, err
	}
	return cam, nil
}

// FramePublisher receives every annotated frame and returns its JPEG encoding.
type FramePublisher interface {
	PublishFrame(frame gocv.Mat) ([]byte, error)
}

// AlertProcessor receives every frame's compliance result.
type AlertProcessor interface {
	ProcessFrame(meta models.FrameMetadata, kept []models.Detection, st models.ComplianceStatus, frameJPEG []byte) (bool, error)
}

// ServingReporter is told when the capture loop starts and stops.
type ServingReporter interface {
	SetServing(serving bool)
}

type Monitor struct {
	cfg        *config.Config
	store      *status.Store
	loadModel  DetectorLoader
	openCamera CameraOpener
	frames     FramePublisher
	alerts     AlertProcessor
	health     ServingReporter
	style      overlay.Style
	logger     zerolog.Logger
}

type Option func(*Monitor)

func WithFramePublisher(p FramePublisher) Option { return func(m *Monitor) { m.frames = p } }
func WithAlerts(a AlertProcessor) Option         { return func(m *Monitor) { m.alerts = a } }
func WithHealth(h ServingReporter) Option        { return func(m *Monitor) { m.health = h } }
func WithDetectorLoader(l DetectorLoader) Option { return func(m *Monitor) { m.loadModel = l } }
func WithCameraOpener(o CameraOpener) Option     { return func(m *Monitor) { m.openCamera = o } }

func New(cfg *config.Config, store *status.Store, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:        cfg,
		store:      store,
		loadModel:  loadDetector,
		openCamera: openCamera,
		style:      overlay.DefaultStyle(),
		logger:     logging.NewServiceLogger(cfg, "monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loads the model, resolves the target classes, opens the camera and
// processes frames until ESC, end of stream, ctx cancellation or an error.
// Every acquired resource is released before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	detector, err := m.loadModel(m.cfg)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	defer func() {
		if err := detector.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to release network")
		}
	}()

	set := targets.Resolve(detector.Classes(), targets.Wishlist)
	for _, name := range set.Unmatched {
		m.logger.Warn().Str("class", name).Msgf("Classe '%s' não encontrada no modelo!", name)
	}
	if set.Empty() {
		m.logger.Error().Msg("Nenhuma das classes alvo foi encontrada. Encerrando.")
		return ErrNoTargetClasses
	}
	m.logger.Info().
		Strs("labels", set.Labels).
		Ints("ids", set.IDs).
		Msgf("Filtrando apenas estas classes: %v (ids=%v)", set.Labels, set.IDs)
	m.store.SetTargets(set.Labels)
	rules := compliance.NewRules(set)

	cam, err := m.openCamera(m.cfg.CameraIndex, logging.NewServiceLogger(m.cfg, "streamcapture"))
	if err != nil {
		m.logger.Error().Err(err).Msg("Não foi possível abrir a webcam.")
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer cam.Close()

	var sink display.Sink = display.Headless{}
	if !m.cfg.Headless {
		sink = display.NewWindow(m.cfg.WindowTitle)
	}
	defer sink.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	m.setRunning(true)
	defer m.setRunning(false)

	for frameID := int64(1); ; frameID++ {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Sinal recebido, encerrando")
			return nil
		default:
		}

		if !cam.Read(&frame) {
			m.logger.Info().Int64("frames", frameID-1).Msg("Fim do stream da webcam")
			return nil
		}

		if err := m.processFrame(detector, set, rules, &frame, frameID); err != nil {
			return fmt.Errorf("frame %d: %w", frameID, err)
		}

		if sink.Show(frame) {
			m.logger.Info().Msg("ESC pressionado, encerrando")
			return nil
		}
	}
}

func (m *Monitor) processFrame(detector Detector, set targets.Set, rules compliance.Rules, frame *gocv.Mat, frameID int64) error {
	dets, took, err := detector.Detect(*frame)
	if err != nil {
		return err
	}

	kept := compliance.Filter(dets, set)
	st := rules.Evaluate(kept)
	overlay.Annotate(frame, kept, st, m.style)

	meta := models.FrameMetadata{
		FrameID:   frameID,
		Timestamp: time.Now(),
		Width:     frame.Cols(),
		Height:    frame.Rows(),
		CameraID:  m.cfg.CameraID,
	}
	m.store.Update(models.FrameSnapshot{
		FrameMetadata: meta,
		Detections:    kept,
		Status:        st,
		InferenceTime: took,
	})

	logger := logging.WithFrame(m.logger, frameID)
	logger.Debug().
		Int("detections", len(dets)).
		Int("kept", len(kept)).
		Dur("inference", took).
		Str("status", st.Text).
		Msg("Frame processed")

	var encoded []byte
	if m.frames != nil {
		if encoded, err = m.frames.PublishFrame(*frame); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish frame")
		}
	}
	if m.alerts != nil {
		// publish errors are logged by the processor and never stop the loop
		_, _ = m.alerts.ProcessFrame(meta, kept, st, encoded)
	}
	return nil
}

func (m *Monitor) setRunning(running bool) {
	m.store.SetRunning(running)
	if m.health != nil {
		m.health.SetServing(running)
	}
}
