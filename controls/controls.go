// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package controls moves the camera in response to user input.
package controls

// Controls is a per-frame camera controller.
//
// Implementations mutate only the camera pose (position, target, up). They
// never touch the projection.
type Controls interface {
	// Update applies accumulated input to the camera. Called once per tick.
	Update()

	// SetScreen informs the controller of the viewport size in pixels.
	SetScreen(width, height int)
}

// Button identifies which pointer button started a drag.
type Button uint8

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Static is a Controls that never moves the camera.
type Static struct{}

// Update does nothing.
func (Static) Update() {}

// SetScreen does nothing.
func (Static) SetScreen(int, int) {}

var _ Controls = Static{}
