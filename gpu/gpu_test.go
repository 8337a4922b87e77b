// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"slices"
	"testing"

	"github.com/gogpu/bokeh/render"
)

func TestRegistered(t *testing.T) {
	e, ok := render.DefaultRegistry().Get(BackendVulkan)
	if !ok {
		t.Fatalf("%q not registered", BackendVulkan)
	}
	if e.Priority != Priority {
		t.Errorf("Priority = %d, want %d", e.Priority, Priority)
	}
	if !slices.Contains(render.Backends(), "software") {
		t.Error("software device missing from registry")
	}
}

func TestNewDeviceRejectsProvider(t *testing.T) {
	if _, err := NewDevice(render.NullDeviceHandle{}, 8, 8); err == nil {
		t.Error("NewDevice() accepted a provider without HAL types")
	}
}

func TestOpenBestFallsBack(t *testing.T) {
	dev, err := render.OpenBestDevice(16, 16)
	if err != nil {
		t.Fatalf("OpenBestDevice() error = %v", err)
	}
	defer dev.Close()
	if s := dev.Screen(); s.Width() != 16 || s.Height() != 16 {
		t.Errorf("screen = %dx%d, want 16x16", s.Width(), s.Height())
	}
}
