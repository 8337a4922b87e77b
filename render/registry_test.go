// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"
)

func softwareFactory(width, height int) (Device, error) {
	return NewSoftwareDevice(width, height), nil
}

// TestRegistryRegister tests backend registration.
func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, softwareFactory, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}

	r.Unregister("test")
	if _, ok := r.Get("test"); ok {
		t.Error("backend should not exist after unregister")
	}
}

// TestRegistryList tests priority ordering.
func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, softwareFactory, nil)
	r.Register("high", 100, softwareFactory, nil)
	r.Register("mid", 50, softwareFactory, nil)

	list := r.List()
	want := []string{"high", "mid", "low"}
	if len(list) != len(want) {
		t.Fatalf("List() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, list[i], want[i])
		}
	}
}

func TestRegistryOpen(t *testing.T) {
	r := NewRegistry()
	r.Register("soft", 10, softwareFactory, nil)
	r.Register("off", 20, softwareFactory, func() bool { return false })

	dev, err := r.Open("soft", 8, 6)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s := dev.Screen(); s.Width() != 8 || s.Height() != 6 {
		t.Errorf("screen = %dx%d, want 8x6", s.Width(), s.Height())
	}

	var nf *BackendNotFoundError
	if _, err := r.Open("missing", 1, 1); !errors.As(err, &nf) {
		t.Errorf("Open(missing) error = %v, want *BackendNotFoundError", err)
	}
	var un *BackendUnavailableError
	if _, err := r.Open("off", 1, 1); !errors.As(err, &un) {
		t.Errorf("Open(off) error = %v, want *BackendUnavailableError", err)
	}
}

func TestRegistryOpenBestFallsBack(t *testing.T) {
	r := NewRegistry()
	broken := errors.New("no adapter")
	r.Register("gpu", 100, func(int, int) (Device, error) { return nil, broken }, nil)
	r.Register("soft", 10, softwareFactory, nil)

	dev, err := r.OpenBest(4, 4)
	if err != nil {
		t.Fatalf("OpenBest() error = %v", err)
	}
	if dev.Capabilities().IsGPU {
		t.Error("OpenBest() should have fallen back to software")
	}

	empty := NewRegistry()
	if _, err := empty.OpenBest(4, 4); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("OpenBest() on empty registry error = %v, want ErrNoBackendAvailable", err)
	}

	failing := NewRegistry()
	failing.Register("gpu", 100, func(int, int) (Device, error) { return nil, broken }, nil)
	if _, err := failing.OpenBest(4, 4); !errors.Is(err, broken) {
		t.Errorf("OpenBest() error = %v, want wrapped backend error", err)
	}
}

func TestSoftwareBackendRegistered(t *testing.T) {
	found := false
	for _, name := range Backends() {
		if name == "software" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Backends() = %v, want software registered", Backends())
	}
	if _, err := OpenDevice("software", 2, 2); err != nil {
		t.Errorf("OpenDevice(software) error = %v", err)
	}
}
