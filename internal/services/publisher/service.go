package publisher

import (
	"context"
	"fmt"
	"net/http"

	"gocv.io/x/gocv"

	"epi-monitor-go/internal/config"
	"epi-monitor-go/internal/services/publisher/mjpeg"
)

// Service encodes annotated frames and hands them to the MJPEG publisher.
type Service struct {
	cfg            *config.Config
	mjpegPublisher *mjpeg.Publisher
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:            cfg,
		mjpegPublisher: mjpeg.NewPublisher(),
	}
}

// PublishFrame encodes frame as JPEG and returns a copy of the encoded bytes.
// It runs on the capture goroutine, so only the encoded bytes leave it.
func (s *Service) PublishFrame(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, s.cfg.MJPEGQuality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	data := append([]byte(nil), buf.GetBytes()...)
	s.mjpegPublisher.PublishJPEG(data)
	return data, nil
}

func (s *Service) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) {
	s.mjpegPublisher.StreamMJPEGHTTP(w, r)
}

// Latest returns the last encoded frame, or nil before the first one.
func (s *Service) Latest() []byte { return s.mjpegPublisher.Latest() }

func (s *Service) Shutdown(ctx context.Context) error {
	s.mjpegPublisher.Shutdown()
	return nil
}
