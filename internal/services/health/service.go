// Package health exposes the standard gRPC health service for the monitor.
package health

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the empty (server-wide) service name.
const ServiceName = "epi.Monitor"

type Service struct {
	server *grpc.Server
	health *grpchealth.Server
	lis    net.Listener
}

// NewService starts listening on addr. Serving starts with Start.
func NewService(addr string) (*Service, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &Service{server: srv, health: hs, lis: lis}, nil
}

func (s *Service) Addr() string { return s.lis.Addr().String() }

// Start serves in the background.
func (s *Service) Start() {
	log.Info().Str("addr", s.Addr()).Msg("gRPC health server listening")
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("gRPC health server panicked")
			}
		}()
		if err := s.server.Serve(s.lis); err != nil && err != grpc.ErrServerStopped {
			log.Error().Err(err).Msg("gRPC health server stopped")
		}
	}()
}

// SetServing flips both the server-wide and the monitor status.
func (s *Service) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Service) Shutdown(ctx context.Context) error {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
