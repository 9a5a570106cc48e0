package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version   string
	CameraID  string
	LogLevel  string
	LogFormat string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Model
	Weights      string
	NamesPath    string
	Device       string
	Confidence   float64
	ImageSize    int
	NMSThreshold float64

	// Capture and display
	CameraIndex int
	Headless    bool
	WindowTitle string

	// HTTP status and MJPEG preview
	HTTPEnabled  bool
	HTTPPort     int
	MJPEGQuality int

	// gRPC health service
	GRPCHealthEnabled bool
	GRPCHealthPort    int

	// NATS (for compliance alerts)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Alerting via NATS
	AlertsSubject        string
	AlertsCooldown       time.Duration
	AlertsContextImage   bool
	AlertsImageMaxWidth  int
	AlertsImageMaxHeight int
	AlertsImageMaxBytes  int
	AlertsImageQuality   int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

// Load reads the optional .env file at envPath (".env" when empty) and builds
// the configuration from the environment.
func Load(envPath string) *Config {
	if envPath == "" {
		envPath = ".env"
	}
	if err := godotenv.Load(envPath); err != nil {
		log.Debug().Err(err).Str("path", envPath).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Str("path", envPath).Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:   getEnv("VERSION", "1.0.0"),
		CameraID:  getEnv("CAMERA_ID", "webcam-0"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Model
		Weights:      getEnv("EPI_WEIGHTS", ""),
		NamesPath:    getEnv("EPI_NAMES", ""),
		Device:       getEnv("EPI_DEVICE", "0"),
		Confidence:   getEnvFloat("EPI_CONF", 0.25),
		ImageSize:    getEnvInt("EPI_IMGSZ", 960),
		NMSThreshold: getEnvFloat("EPI_IOU", 0.7),

		// Capture and display
		CameraIndex: getEnvInt("EPI_CAMERA", 0),
		Headless:    getEnvBool("EPI_HEADLESS", false),
		WindowTitle: getEnv("EPI_WINDOW_TITLE", "PPE SH17 - Helmet & Glasses only"),

		// HTTP
		HTTPEnabled:  getEnvBool("HTTP_ENABLED", false),
		HTTPPort:     getEnvInt("HTTP_PORT", 8000),
		MJPEGQuality: getEnvInt("MJPEG_QUALITY", 80),

		// gRPC health
		GRPCHealthEnabled: getEnvBool("GRPC_HEALTH_ENABLED", false),
		GRPCHealthPort:    getEnvInt("GRPC_HEALTH_PORT", 50051),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Alerting via NATS
		AlertsSubject:  getEnv("ALERTS_SUBJECT", "epi.alerts"),
		AlertsCooldown: getEnvDuration("ALERTS_COOLDOWN", 10*time.Second),

		// Context image attached to alerts
		AlertsContextImage:   getEnvBool("ALERTS_CONTEXT_IMAGE", true),
		AlertsImageMaxWidth:  getEnvInt("ALERTS_IMAGE_MAX_WIDTH", 800),
		AlertsImageMaxHeight: getEnvInt("ALERTS_IMAGE_MAX_HEIGHT", 600),
		AlertsImageMaxBytes:  getEnvInt("ALERTS_IMAGE_MAX_BYTES", 500*1024),
		AlertsImageQuality:   getEnvInt("ALERTS_IMAGE_QUALITY", 75),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// RegisterFlags binds the command line flags to c. The current values of c are
// the flag defaults, so flags override the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Weights, "weights", c.Weights, "caminho do modelo treinado (.onnx)")
	fs.StringVar(&c.Device, "device", c.Device, "0, 1, cpu, cuda:0, etc.")
	fs.Float64Var(&c.Confidence, "conf", c.Confidence, "confiança mínima")
	fs.IntVar(&c.ImageSize, "imgsz", c.ImageSize, "tamanho da imagem (lado)")

	fs.StringVar(&c.NamesPath, "names", c.NamesPath, "arquivo de classes (data.yaml, classes.txt)")
	fs.Float64Var(&c.NMSThreshold, "iou", c.NMSThreshold, "limiar de IoU do NMS")
	fs.IntVar(&c.CameraIndex, "camera", c.CameraIndex, "índice da webcam")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "não abre janela de exibição")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "nível de log (debug, info, warn, error)")
}

var cudaDevice = regexp.MustCompile(`^(cuda(:\d+)?|\d+)$`)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Weights) == "" {
		return errors.New("--weights is required")
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("--conf must be within [0, 1], got %v", c.Confidence)
	}
	if c.NMSThreshold <= 0 || c.NMSThreshold > 1 {
		return fmt.Errorf("--iou must be within (0, 1], got %v", c.NMSThreshold)
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("--imgsz must be positive, got %d", c.ImageSize)
	}
	if c.CameraIndex < 0 {
		return fmt.Errorf("--camera must not be negative, got %d", c.CameraIndex)
	}
	if _, err := c.ParseDevice(); err != nil {
		return err
	}
	if c.MJPEGQuality < 1 || c.MJPEGQuality > 100 {
		return fmt.Errorf("MJPEG_QUALITY must be within [1, 100], got %d", c.MJPEGQuality)
	}
	if c.AlertsContextImage && (c.AlertsImageQuality < 1 || c.AlertsImageQuality > 100) {
		return fmt.Errorf("ALERTS_IMAGE_QUALITY must be within [1, 100], got %d", c.AlertsImageQuality)
	}
	return nil
}

// Device is the parsed --device selector.
type Device struct {
	CUDA  bool
	Index int
}

// ParseDevice interprets the --device selector: "cpu", a GPU index or "cuda[:N]".
func (c *Config) ParseDevice() (Device, error) {
	d := strings.ToLower(strings.TrimSpace(c.Device))
	if d == "cpu" {
		return Device{}, nil
	}
	if !cudaDevice.MatchString(d) {
		return Device{}, fmt.Errorf("unsupported --device %q (use cpu, an index or cuda:N)", c.Device)
	}
	idx := 0
	switch {
	case d == "cuda":
	case strings.HasPrefix(d, "cuda:"):
		idx, _ = strconv.Atoi(strings.TrimPrefix(d, "cuda:"))
	default:
		idx, _ = strconv.Atoi(d)
	}
	return Device{CUDA: true, Index: idx}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
