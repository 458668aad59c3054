package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NATS_URL", "nats://example:4222")
	cfg := Load()

	assert.Equal(t, 600.0, cfg.ProximityThreshold)
	assert.Equal(t, 15.0, cfg.CameraTiltDeg)
	assert.Equal(t, 30.0, cfg.PlatformAltitude)
	assert.Equal(t, 0.0, cfg.GroundElevation)
	assert.Equal(t, 2*time.Second, cfg.NetworkTimeout)
	assert.Equal(t, 5000, cfg.GroundstationPort)
	assert.Equal(t, 5.0, cfg.ArrivalRadius)
	assert.Equal(t, "nats://example:4222", cfg.NatsURL)
	assert.False(t, cfg.NatsEnabled)
	assert.Empty(t, cfg.StorePath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PROXIMITY_THRESHOLD_PX", "250.5")
	t.Setenv("CAMERA_TILT_DEG", "20")
	t.Setenv("NETWORK_TIMEOUT", "750ms")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("CHART_STRIDE", "8")
	t.Setenv("TELEMETRY_URL", "http://drone:5000")

	cfg := Load()
	assert.Equal(t, 250.5, cfg.ProximityThreshold)
	assert.Equal(t, 20.0, cfg.CameraTiltDeg)
	assert.Equal(t, 750*time.Millisecond, cfg.NetworkTimeout)
	assert.True(t, cfg.NatsEnabled)
	assert.Equal(t, 8, cfg.ChartStride)
	assert.Equal(t, "http://drone:5000", cfg.TelemetryURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROXIMITY_THRESHOLD_PX", "wide")
	t.Setenv("NETWORK_TIMEOUT", "soon")
	t.Setenv("NATS_ENABLED", "maybe")
	t.Setenv("GROUNDSTATION_PORT", "http")

	cfg := Load()
	assert.Equal(t, 600.0, cfg.ProximityThreshold)
	assert.Equal(t, 2*time.Second, cfg.NetworkTimeout)
	assert.False(t, cfg.NatsEnabled)
	assert.Equal(t, 5000, cfg.GroundstationPort)
}
