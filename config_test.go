// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bokeh

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.Width != 800 || c.Height != 600 {
		t.Errorf("size = %dx%d, want 800x600", c.Width, c.Height)
	}
	if !c.DOF.Enabled || c.DOF.FocusDistance != 1.0 || c.DOF.MaxBlurRadius != 2.0 {
		t.Errorf("DOF = %+v, want enabled, focus 1, max blur 2", c.DOF)
	}
	if c.Device != DeviceAuto {
		t.Errorf("Device = %q, want %q", c.Device, DeviceAuto)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"empty device", func(c *Config) { c.Device = "" }},
		{"negative blur", func(c *Config) { c.DOF.MaxBlurRadius = -1 }},
		{"negative frames", func(c *Config) { c.Frames = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		c := Config{LogLevel: tt.in}
		got, err := c.Level()
		if err != nil || got != tt.want {
			t.Errorf("Level(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestDecodeConfig(t *testing.T) {
	src := `
width = 1024
height = 768
device = "software"

[dof]
enabled = false
focus_distance = 0.5
`
	c, err := DecodeConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if c.Width != 1024 || c.Height != 768 || c.Device != "software" {
		t.Errorf("Config = %+v", c)
	}
	if c.DOF.Enabled || c.DOF.FocusDistance != 0.5 {
		t.Errorf("DOF = %+v, want disabled with focus 0.5", c.DOF)
	}
	// Keys missing from the file keep their defaults.
	if c.DOF.MaxBlurRadius != 2.0 || c.FPS != 60 {
		t.Errorf("defaults lost: max blur %v, fps %d", c.DOF.MaxBlurRadius, c.FPS)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "colour = 1\n"},
		{"syntax", "width = \n"},
		{"invalid", "width = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeConfig(strings.NewReader(tt.src)); err == nil {
				t.Error("DecodeConfig() succeeded")
			}
		})
	}
}

func TestEncodeDecodeConfig(t *testing.T) {
	want := DefaultConfig()
	want.Width = 320
	want.DOF.MaxBlurRadius = 3

	var buf bytes.Buffer
	if err := EncodeConfig(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if got != want {
		t.Errorf("config = %+v, want %+v", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bokeh.toml")
	if err := os.WriteFile(path, []byte("frames = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if c.Frames != 3 {
		t.Errorf("Frames = %d, want 3", c.Frames)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) error = %v, want os.ErrNotExist", err)
	}
}
