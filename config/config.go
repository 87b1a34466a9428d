// Package config handles configuration loading from CLI flags, environment
// variables, and TOML files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the configuration file read when no -config flag is given.
const DefaultPath = "listkit.toml"

// Config holds all tunables of the list item engine.
type Config struct {
	Units     UnitsConfig     `toml:"units"`
	Gesture   GestureConfig   `toml:"gesture"`
	Animation AnimationConfig `toml:"animation"`
	Actions   ActionsConfig   `toml:"actions"`
	Item      ItemConfig      `toml:"item"`
	Drag      DragConfig      `toml:"drag"`
	Flickable FlickableConfig `toml:"flickable"`
	Logging   LoggingConfig   `toml:"logging"`
}

// UnitsConfig holds the size of a grid unit in terminal cells.
type UnitsConfig struct {
	GridUnit float64 `toml:"grid_unit"`
}

// GestureConfig holds pointer gesture settings.
type GestureConfig struct {
	SwipeThresholdGU float64  `toml:"swipe_threshold_gu"` // Horizontal travel before a tug starts
	PressAndHold     Duration `toml:"press_and_hold"`
}

// AnimationConfig holds transition settings.
type AnimationConfig struct {
	SnapDuration  Duration `toml:"snap_duration"`
	FrameInterval Duration `toml:"frame_interval"`
}

// ActionsConfig holds settings of the built-in actions panel.
type ActionsConfig struct {
	SlotWidthGU float64 `toml:"slot_width_gu"`
}

// ItemConfig holds list item geometry.
type ItemConfig struct {
	ImplicitHeightGU float64 `toml:"implicit_height_gu"`
	SelectionPanelGU float64 `toml:"selection_panel_gu"`
}

// DragConfig holds drag-to-reorder settings.
type DragConfig struct {
	StripWidthGU   float64  `toml:"strip_width_gu"`
	ScrollStepGU   float64  `toml:"scroll_step_gu"`
	ScrollInterval Duration `toml:"scroll_interval"`
	EdgeMargin     float64  `toml:"edge_margin"` // Fraction of the ghost height
}

// FlickableConfig holds scroll container settings.
type FlickableConfig struct {
	MovementSettle Duration `toml:"movement_settle"` // Quiet time before a container stops moving
	WheelStep      float64  `toml:"wheel_step"`      // Rows per wheel notch
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Default returns a Config with all default values.
func Default() Config {
	return Config{
		Units: UnitsConfig{
			GridUnit: 1,
		},
		Gesture: GestureConfig{
			SwipeThresholdGU: 1.5,
			PressAndHold:     Duration(800 * time.Millisecond),
		},
		Animation: AnimationConfig{
			SnapDuration:  Duration(100 * time.Millisecond),
			FrameInterval: Duration(16 * time.Millisecond),
		},
		Actions: ActionsConfig{
			SlotWidthGU: 8,
		},
		Item: ItemConfig{
			ImplicitHeightGU: 3,
			SelectionPanelGU: 5,
		},
		Drag: DragConfig{
			StripWidthGU:   5,
			ScrollStepGU:   0.5,
			ScrollInterval: Duration(20 * time.Millisecond),
			EdgeMargin:     0.2,
		},
		Flickable: FlickableConfig{
			MovementSettle: Duration(150 * time.Millisecond),
			WheelStep:      3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from CLI flags, environment variables, and TOML file.
// Priority: CLI flags > env vars > TOML file > defaults
func Load(name string, args []string) (Config, error) {
	cfg := Default()

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	path := flags.String("config", "", "Configuration file (default "+DefaultPath+")")
	logFile := flags.String("log", "", "Write logs to this file")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn, error")
	gridUnit := flags.Float64("grid-unit", 0, "Size of a grid unit in cells")
	pressAndHold := flags.Duration("press-and-hold", 0, "Long press interval")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	configPath := *path
	if configPath == "" {
		configPath = DefaultPath
	}
	if err := cfg.LoadTOML(configPath); err != nil {
		// A missing default file is fine, a missing explicit one is not.
		if *path != "" || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.ApplyEnv()

	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *gridUnit > 0 {
		cfg.Units.GridUnit = *gridUnit
	}
	if *pressAndHold > 0 {
		cfg.Gesture.PressAndHold = Duration(*pressAndHold)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadTOML overlays the settings found in the TOML file at path.
func (c *Config) LoadTOML(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	c.applyEnv(os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) {
	setFloat := func(key string, target *float64) {
		if v := getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*target = f
			}
		}
	}
	setDuration := func(key string, target *Duration) {
		if v := getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*target = Duration(d)
			}
		}
	}

	setFloat("LISTKIT_GRID_UNIT", &c.Units.GridUnit)
	setFloat("LISTKIT_SWIPE_THRESHOLD_GU", &c.Gesture.SwipeThresholdGU)
	setDuration("LISTKIT_PRESS_AND_HOLD", &c.Gesture.PressAndHold)
	setDuration("LISTKIT_SNAP_DURATION", &c.Animation.SnapDuration)
	setDuration("LISTKIT_FRAME_INTERVAL", &c.Animation.FrameInterval)
	setFloat("LISTKIT_SLOT_WIDTH_GU", &c.Actions.SlotWidthGU)
	setFloat("LISTKIT_DRAG_STRIP_WIDTH_GU", &c.Drag.StripWidthGU)
	setDuration("LISTKIT_DRAG_SCROLL_INTERVAL", &c.Drag.ScrollInterval)
	setDuration("LISTKIT_MOVEMENT_SETTLE", &c.Flickable.MovementSettle)
	if v := getenv("LISTKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("LISTKIT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Validate reports settings the engine cannot work with.
func (c *Config) Validate() error {
	if c.Units.GridUnit <= 0 {
		return fmt.Errorf("config: units.grid_unit must be positive, got %v", c.Units.GridUnit)
	}
	if c.Drag.EdgeMargin < 0 || c.Drag.EdgeMargin >= 0.5 {
		return fmt.Errorf("config: drag.edge_margin must be in [0, 0.5), got %v", c.Drag.EdgeMargin)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", level)
}

// Level returns the configured slog level, falling back to info.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
