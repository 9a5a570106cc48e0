package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"epi-monitor-go/internal/api"
	"epi-monitor-go/internal/cli"
	"epi-monitor-go/internal/config"
	"epi-monitor-go/internal/logging"
	"epi-monitor-go/internal/monitor"
	"epi-monitor-go/internal/services/health"
	"epi-monitor-go/internal/services/messaging"
	"epi-monitor-go/internal/services/postprocessing"
	"epi-monitor-go/internal/services/publisher"
	"epi-monitor-go/internal/services/status"
	"epi-monitor-go/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger.Setup(logger.Options{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")})

	envPath := cli.EnvFileFromArgs(args)
	cfg := config.Load(envPath)

	fs := flag.NewFlagSet("epi-monitor", flag.ContinueOnError)
	fs.String("env", envPath, "arquivo .env")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var tee io.Writer
	if cfg.LogdyEnabled {
		tee, _ = logging.StartLogdy(cfg)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Tee: tee})

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		fs.Usage()
		return 1
	}

	log.Info().
		Str("camera_id", cfg.CameraID).
		Str("version", cfg.Version).
		Str("device", cfg.Device).
		Float64("conf", cfg.Confidence).
		Int("imgsz", cfg.ImageSize).
		Bool("http", cfg.HTTPEnabled).
		Bool("nats", cfg.NatsEnabled).
		Msg("Starting EPI monitor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := status.NewStore()
	var opts []monitor.Option

	alertsOn := false
	if cfg.NatsEnabled {
		msg, err := messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, alerts disabled")
		} else {
			defer shutdown(cfg, "nats", msg.Shutdown)
			pp, err := postprocessing.NewService(cfg, msg)
			if err != nil {
				log.Warn().Err(err).Msg("Alerts disabled")
			} else {
				defer shutdown(cfg, "postprocessing", pp.Shutdown)
				opts = append(opts, monitor.WithAlerts(pp))
				alertsOn = true
			}
		}
	}

	var pub *publisher.Service
	if cfg.HTTPEnabled || (alertsOn && cfg.AlertsContextImage) {
		pub = publisher.NewService(cfg)
		opts = append(opts, monitor.WithFramePublisher(pub))
	}

	if cfg.HTTPEnabled {
		srv := api.NewServer(cfg, store, pub)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Msg("HTTP server panicked")
				}
			}()
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("HTTP server failed")
			}
		}()
		defer shutdown(cfg, "http", srv.Shutdown)
	}
	if pub != nil {
		// runs before the HTTP shutdown so open /stream clients are released
		defer shutdown(cfg, "publisher", pub.Shutdown)
	}

	if cfg.GRPCHealthEnabled {
		hs, err := health.NewService(fmt.Sprintf(":%d", cfg.GRPCHealthPort))
		if err != nil {
			log.Warn().Err(err).Msg("gRPC health server disabled")
		} else {
			hs.Start()
			defer shutdown(cfg, "grpc_health", hs.Shutdown)
			opts = append(opts, monitor.WithHealth(hs))
		}
	}

	err := monitor.New(cfg, store, opts...).Run(ctx)
	return cli.ExitCode(err)
}

func shutdown(cfg *config.Config, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("component", name).Msg("Shutdown incomplete")
	}
}
