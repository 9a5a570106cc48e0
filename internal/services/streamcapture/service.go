package streamcapture

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

var ErrNotOpened = errors.New("video capture is not opened")

// Service wraps a local camera opened through OpenCV.
type Service struct {
	cap    *gocv.VideoCapture
	index  int
	logger zerolog.Logger
}

// Open opens the camera at index. The caller must Close the returned service.
func Open(index int, logger zerolog.Logger) (*Service, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("camera %d: %w", index, ErrNotOpened)
	}

	logger.Info().
		Int("camera_index", index).
		Float64("width", cap.Get(gocv.VideoCaptureFrameWidth)).
		Float64("height", cap.Get(gocv.VideoCaptureFrameHeight)).
		Float64("fps", cap.Get(gocv.VideoCaptureFPS)).
		Msg("VideoCapture opened")

	return &Service{cap: cap, index: index, logger: logger}, nil
}

// Read grabs the next frame into mat. It returns false at end of stream,
// on disconnect or when the frame is empty.
func (s *Service) Read(mat *gocv.Mat) bool {
	if ok := s.cap.Read(mat); !ok {
		s.logger.Debug().Int("camera_index", s.index).Msg("Failed to read frame from VideoCapture")
		return false
	}
	return !mat.Empty()
}

func (s *Service) Close() error {
	s.logger.Debug().Int("camera_index", s.index).Msg("Releasing VideoCapture")
	return s.cap.Close()
}
