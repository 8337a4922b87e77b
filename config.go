// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bokeh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/bokeh/dof"
)

// DeviceAuto selects the best available registry backend.
const DeviceAuto = "auto"

// Config holds viewer settings. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	// Width and Height are the initial viewport size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Device names a render registry backend, or "auto" for the best
	// available one.
	Device string `toml:"device"`

	DOF DOFConfig `toml:"dof"`

	// Frames is the number of frames a headless run renders.
	Frames int `toml:"frames"`

	// FPS is the tick rate of a headless run.
	FPS int `toml:"fps"`

	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// DOFConfig holds the depth-of-field tunables.
type DOFConfig struct {
	Enabled       bool    `toml:"enabled"`
	FocusDistance float32 `toml:"focus_distance"`
	MaxBlurRadius float32 `toml:"max_blur_radius"`
}

// DefaultConfig returns the default settings: an 800x600 viewport, the best
// available device and the effect enabled with focus 1.0 and a 2 pixel
// maximum blur.
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,
		Device: DeviceAuto,
		DOF: DOFConfig{
			Enabled:       true,
			FocusDistance: dof.DefaultFocusDistance,
			MaxBlurRadius: dof.DefaultMaxBlurRadius,
		},
		Frames:   60,
		FPS:      60,
		LogLevel: "warn",
	}
}

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("bokeh: invalid config")

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Device == "":
		return fmt.Errorf("%w: empty device", ErrInvalidConfig)
	case c.DOF.MaxBlurRadius < 0:
		return fmt.Errorf("%w: negative max_blur_radius %v", ErrInvalidConfig, c.DOF.MaxBlurRadius)
	case c.Frames < 0:
		return fmt.Errorf("%w: negative frames %d", ErrInvalidConfig, c.Frames)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level parses LogLevel. An empty LogLevel is slog.LevelWarn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("bokeh: load config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads TOML from r over DefaultConfig and validates the
// result. Unknown keys are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("bokeh: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EncodeConfig writes c as TOML.
func EncodeConfig(w io.Writer, c Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("bokeh: encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
