package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Rotated log file, disabled when LogFile is empty
	LogFile           string
	LogFileMaxMB      int
	LogFileMaxBackups int
	LogFileMaxAgeDays int

	// Frame input
	FramesDir   string
	LabelsDir   string
	BaseImage   string // Defaults to the last frame when empty
	OutputDir   string
	TargetClass string // Empty keeps every labelled box

	// Proximity
	ProximityThreshold float64 // pixels, strict

	// Camera pose
	CameraTiltDeg    float64
	PlatformAltitude float64 // meters
	GroundElevation  float64 // meters

	// Flight-side endpoints
	TelemetryURL   string
	TriggerURL     string
	NetworkTimeout time.Duration

	// NATS (for violation events)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running worker in Docker
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration // For graceful shutdown

	// Alerting via NATS
	AlertsSubject  string
	AlertsCooldown time.Duration

	// Violation log, disabled when StorePath is empty
	StorePath string

	// Annotated frames, disabled when AnnotateDir is empty
	AnnotateDir string

	// Interactive chart export
	ChartEnabled bool
	ChartStride  int

	// Groundstation
	GroundstationPort int
	HomeLat           float64
	HomeLon           float64
	HomeHeading       float64
	ArrivalRadius     float64 // meters

	// Swagger Configuration
	SwaggerHost string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "proxwatch-1"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Log file
		LogFile:           getEnv("LOG_FILE", ""),
		LogFileMaxMB:      getEnvInt("LOG_FILE_MAX_MB", 50),
		LogFileMaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 5),
		LogFileMaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 14),

		// Frame input
		FramesDir:   getEnv("FRAMES_DIR", "./frames"),
		LabelsDir:   getEnv("LABELS_DIR", "./labels"),
		BaseImage:   getEnv("BASE_IMAGE", ""),
		OutputDir:   getEnv("OUTPUT_DIR", "."),
		TargetClass: getEnv("TARGET_CLASS", ""),

		ProximityThreshold: getEnvFloat("PROXIMITY_THRESHOLD_PX", 600),

		// Camera pose
		CameraTiltDeg:    getEnvFloat("CAMERA_TILT_DEG", 15),
		PlatformAltitude: getEnvFloat("PLATFORM_ALTITUDE_M", 30),
		GroundElevation:  getEnvFloat("GROUND_ELEVATION_M", 0),

		// Flight-side endpoints
		TelemetryURL:   getEnv("TELEMETRY_URL", "http://localhost:5000"),
		TriggerURL:     getEnv("TRIGGER_URL", "http://localhost:5000/play"),
		NetworkTimeout: getEnvDuration("NETWORK_TIMEOUT", 2*time.Second),

		// NATS (configured for Docker Compose setup)
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		// Alerting via NATS
		AlertsSubject:  getEnv("ALERTS_SUBJECT", "proximity.violations"),
		AlertsCooldown: getEnvDuration("ALERTS_COOLDOWN", 10*time.Second),

		StorePath:   getEnv("STORE_PATH", ""),
		AnnotateDir: getEnv("ANNOTATE_DIR", ""),

		ChartEnabled: getEnvBool("CHART_ENABLED", false),
		ChartStride:  getEnvInt("CHART_STRIDE", 4),

		// Groundstation
		GroundstationPort: getEnvInt("GROUNDSTATION_PORT", 5000),
		HomeLat:           getEnvFloat("HOME_LAT", 0),
		HomeLon:           getEnvFloat("HOME_LON", 0),
		HomeHeading:       getEnvFloat("HOME_HEADING", 0),
		ArrivalRadius:     getEnvFloat("ARRIVAL_RADIUS_M", 5),

		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
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

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
