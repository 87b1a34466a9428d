package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("test", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1.5, cfg.Gesture.SwipeThresholdGU)
	assert.Equal(t, 5.0, cfg.Drag.StripWidthGU)
	assert.Equal(t, 0.2, cfg.Drag.EdgeMargin)
}

func TestLoadTOMLOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[gesture]
swipe_threshold_gu = 2.0
press_and_hold = "1s"

[drag]
scroll_interval = "40ms"

[logging]
level = "debug"
`)
	cfg, err := Load("test", []string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Gesture.SwipeThresholdGU)
	assert.Equal(t, time.Second, cfg.Gesture.PressAndHold.Duration())
	assert.Equal(t, 40*time.Millisecond, cfg.Drag.ScrollInterval.Duration())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Actions, cfg.Actions)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load("test", []string{"-config", filepath.Join(t.TempDir(), "absent.toml")})
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "[gesture]\npress_and_hold = \"soon\"\n")
	_, err := Load("test", []string{"-config", path})
	assert.Error(t, err)
}

func TestPriorityFlagsOverEnvOverFile(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"error\"\n[units]\ngrid_unit = 2.0\n")
	t.Setenv("LISTKIT_LOG_LEVEL", "warn")
	t.Setenv("LISTKIT_GRID_UNIT", "3")

	cfg, err := Load("test", []string{"-config", path, "-log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3.0, cfg.Units.GridUnit)
}

func TestApplyEnvIgnoresMalformedValues(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(func(key string) string {
		switch key {
		case "LISTKIT_SWIPE_THRESHOLD_GU":
			return "wide"
		case "LISTKIT_MOVEMENT_SETTLE":
			return "250ms"
		}
		return ""
	})
	assert.Equal(t, 1.5, cfg.Gesture.SwipeThresholdGU)
	assert.Equal(t, 250*time.Millisecond, cfg.Flickable.MovementSettle.Duration())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Units.GridUnit = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Drag.EdgeMargin = 0.7
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}
