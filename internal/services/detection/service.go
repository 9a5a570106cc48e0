// Package detection runs a YOLO detection network through OpenCV's DNN module.
package detection

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"epi-monitor-go/internal/config"
	"epi-monitor-go/internal/models"
	"epi-monitor-go/internal/services/classes"
	"epi-monitor-go/internal/services/detection/yolo"
)

const (
	stride        = 32
	maxDetections = 300
)

var ErrEmptyFrame = errors.New("empty frame")

type Options struct {
	Weights      string
	NamesPath    string
	Device       config.Device
	Confidence   float32
	NMSThreshold float32
	ImageSize    int
}

func OptionsFromConfig(cfg *config.Config) (Options, error) {
	dev, err := cfg.ParseDevice()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Weights:      cfg.Weights,
		NamesPath:    cfg.NamesPath,
		Device:       dev,
		Confidence:   float32(cfg.Confidence),
		NMSThreshold: float32(cfg.NMSThreshold),
		ImageSize:    cfg.ImageSize,
	}, nil
}

type Service struct {
	net    gocv.Net
	table  classes.Table
	opts   Options
	size   int
	logger zerolog.Logger
}

// NewService loads the network and its class table. The caller owns the
// returned service and must Close it.
func NewService(opts Options, logger zerolog.Logger) (*Service, error) {
	logger.Info().Str("weights", opts.Weights).Msgf("Carregando modelo: %s", opts.Weights)

	if _, err := os.Stat(opts.Weights); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	table, namesFile, err := classes.Resolve(opts.Weights, opts.NamesPath)
	if err != nil {
		return nil, fmt.Errorf("class names: %w", err)
	}

	if opts.Device.CUDA && opts.Device.Index > 0 && os.Getenv("CUDA_VISIBLE_DEVICES") == "" {
		os.Setenv("CUDA_VISIBLE_DEVICES", strconv.Itoa(opts.Device.Index))
	}

	var net gocv.Net
	if strings.EqualFold(filepath.Ext(opts.Weights), ".onnx") {
		net = gocv.ReadNetFromONNX(opts.Weights)
	} else {
		net = gocv.ReadNet(opts.Weights, "")
	}
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to load network from %s", opts.Weights)
	}

	if opts.Device.CUDA {
		net.SetPreferableBackend(gocv.NetBackendCUDA)
		net.SetPreferableTarget(gocv.NetTargetCUDA)
	} else {
		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
	}

	size := yolo.StrideAligned(opts.ImageSize, stride)
	if size != opts.ImageSize {
		logger.Warn().Int("imgsz", opts.ImageSize).Int("used", size).Msg("imgsz is not a multiple of 32, rounding up")
	}

	logger.Info().Str("names_file", namesFile).Bool("cuda", opts.Device.CUDA).Int("imgsz", size).Msg("Classes do modelo:")
	for _, id := range table.IDs() {
		name, _ := table.Name(id)
		logger.Info().Msgf("  %d: %s", id, name)
	}

	return &Service{
		net:    net,
		table:  table,
		opts:   opts,
		size:   size,
		logger: logger,
	}, nil
}

func (s *Service) Classes() classes.Table { return s.table }

// Detect runs one synchronous inference on a BGR frame.
func (s *Service) Detect(frame gocv.Mat) ([]models.Detection, time.Duration, error) {
	if frame.Empty() {
		return nil, 0, ErrEmptyFrame
	}
	start := time.Now()

	lb := yolo.NewLetterbox(frame.Cols(), frame.Rows(), s.size)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(lb.NewW, lb.NewH), 0, 0, gocv.InterpolationLinear)

	input := gocv.NewMat()
	defer input.Close()
	gocv.CopyMakeBorder(resized, &input, lb.Top, lb.Bottom, lb.Left, lb.Right, gocv.BorderConstant,
		color.RGBA{R: yolo.PadValue, G: yolo.PadValue, B: yolo.PadValue, A: 0})

	blob := gocv.BlobFromImage(input, 1.0/255.0, image.Pt(s.size, s.size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")
	out := s.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return nil, 0, errors.New("network returned an empty output")
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, 0, fmt.Errorf("read output: %w", err)
	}

	cands, err := yolo.Decode(yolo.Output{Data: data, Dims: out.Size()}, s.table.MaxID()+1, s.opts.Confidence, lb)
	if err != nil {
		return nil, 0, err
	}

	if len(cands) > 0 {
		boxes, scores := yolo.NMSInputs(cands)
		indices := gocv.NMSBoxes(boxes, scores, s.opts.Confidence, s.opts.NMSThreshold)
		cands = yolo.Select(cands, indices, maxDetections)
	}

	dets := make([]models.Detection, 0, len(cands))
	for _, c := range cands {
		label, ok := s.table.Name(c.ClassID)
		if !ok {
			label = strconv.Itoa(c.ClassID)
		}
		dets = append(dets, models.Detection{
			ClassID: c.ClassID,
			Label:   label,
			Score:   c.Score,
			Box:     c.Box,
		})
	}
	return dets, time.Since(start), nil
}

func (s *Service) Close() error {
	return s.net.Close()
}
