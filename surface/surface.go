// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface tracks the drawable area of the viewer and distributes
// resize notifications.
//
// Resizes are either applied synchronously with Resize, from the goroutine
// that owns rendering, or posted from any goroutine with Post and applied by
// the frame scheduler at the start of the next tick:
//
//	s, _ := surface.New(800, 600)
//	s.OnResize(func(w, h int) { camera.SetAspect(float32(w) / float32(h)) })
//
//	// window event goroutine
//	s.Post(1024, 768)
//
//	// render goroutine, before drawing
//	s.ApplyPending()
package surface

import (
	"errors"
	"sync"
)

// ErrZeroSize is returned for a resize with a zero or negative dimension.
// Such resizes are dropped.
var ErrZeroSize = errors.New("surface: zero dimension")

// Size is a pixel size.
type Size struct {
	Width, Height int
}

// Surface is the drawable area: its pixel dimensions and resize handlers.
//
// Both dimensions are always positive.
type Surface struct {
	mu       sync.Mutex
	size     Size
	pending  *Size
	handlers []func(width, height int)
}

// New creates a surface of the given size.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrZeroSize
	}
	return &Surface{size: Size{width, height}}, nil
}

// Width returns the width in pixels.
func (s *Surface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size.Width
}

// Height returns the height in pixels.
func (s *Surface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size.Height
}

// Size returns the current dimensions.
func (s *Surface) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Aspect returns width / height.
func (s *Surface) Aspect() float32 {
	sz := s.Size()
	return float32(sz.Width) / float32(sz.Height)
}

// OnResize registers fn to be called after every applied resize. Handlers
// run in registration order on the goroutine applying the resize.
func (s *Surface) OnResize(fn func(width, height int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Resize applies a new size immediately and notifies the handlers. It must be
// called from the goroutine that owns rendering, between frames.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrZeroSize
	}
	s.mu.Lock()
	s.size = Size{width, height}
	handlers := s.handlers
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(width, height)
	}
	return nil
}

// Post records a resize to be applied by ApplyPending. Safe for concurrent
// use. When several resizes are posted between two ticks, the latest wins.
func (s *Surface) Post(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrZeroSize
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &Size{width, height}
	return nil
}

// Pending reports whether a posted resize is waiting.
func (s *Surface) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// ApplyPending applies the posted resize, if any, and reports whether one
// was applied.
func (s *Surface) ApplyPending() (Size, bool) {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p == nil {
		return Size{}, false
	}
	// Post already rejected zero sizes.
	_ = s.Resize(p.Width, p.Height)
	return *p, true
}
