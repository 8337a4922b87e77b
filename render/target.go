// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
)

// Target is something a pass reads from or renders into: the device screen
// or a FrameBuffer.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat
}

// FrameBuffer is an off-screen color buffer.
//
// Resize is create-then-swap: new storage is allocated first and the old
// storage is released only once the allocation succeeded. On failure the
// buffer keeps its previous size and contents.
type FrameBuffer interface {
	Target

	// Label returns the debug label given at creation.
	Label() string

	// Filter returns the sampling filter used when the buffer is read.
	Filter() gputypes.FilterMode

	// Resize reallocates the storage at the new size. Contents are not
	// preserved. Returns *AllocationError on failure.
	Resize(width, height int) error

	// Destroy releases the storage. Safe to call more than once.
	Destroy()
}

// FrameBufferDescriptor describes a FrameBuffer to allocate.
type FrameBufferDescriptor struct {
	// Label is a debug label, also reported in AllocationError.
	Label string

	// Width and Height are the dimensions in pixels.
	Width, Height int

	// Format is the color format.
	Format gputypes.TextureFormat

	// Filter is the sampling filter used when the buffer is read.
	Filter gputypes.FilterMode
}

// DefaultFrameBufferDescriptor returns an RGBA8 descriptor with linear
// filtering.
func DefaultFrameBufferDescriptor(label string, width, height int) FrameBufferDescriptor {
	return FrameBufferDescriptor{
		Label:  label,
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Filter: gputypes.FilterModeLinear,
	}
}

// Check validates the dimensions against a device limit. maxSize <= 0 means
// unlimited.
func (d FrameBufferDescriptor) Check(maxSize int) error {
	var err error
	switch {
	case d.Width <= 0 || d.Height <= 0:
		err = ErrZeroSize
	case maxSize > 0 && (d.Width > maxSize || d.Height > maxSize):
		err = ErrExceedsLimit
	default:
		return nil
	}
	return &AllocationError{Label: d.Label, Width: d.Width, Height: d.Height, Err: err}
}
