// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrZeroSize is returned when a frame buffer dimension is zero or negative.
	ErrZeroSize = errors.New("render: zero frame buffer dimension")

	// ErrExceedsLimit is returned when a frame buffer dimension exceeds the
	// device's MaxTextureSize.
	ErrExceedsLimit = errors.New("render: frame buffer dimension exceeds device limit")

	// ErrDestroyed is returned when a destroyed frame buffer is used.
	ErrDestroyed = errors.New("render: frame buffer destroyed")

	// ErrForeignTarget is returned when a device is given a target it did
	// not create.
	ErrForeignTarget = errors.New("render: target not owned by device")

	// ErrMissingInput is returned when a pass runs without the inputs its
	// program samples.
	ErrMissingInput = errors.New("render: missing pass input")

	// ErrAliasedOutput is returned when a pass would write the buffer it reads.
	ErrAliasedOutput = errors.New("render: pass output aliases an input")

	// ErrNilDevice is returned when a chain is built without a device.
	ErrNilDevice = errors.New("render: nil device")
)

// AllocationError reports a failed frame buffer allocation.
//
// It wraps ErrZeroSize, ErrExceedsLimit or a backend error. Callers treat it
// as recoverable.
type AllocationError struct {
	Label         string
	Width, Height int
	Err           error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("render: allocate %q %dx%d: %v", e.Label, e.Width, e.Height, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// InvalidChainError reports a structurally invalid pass chain. It indicates
// a programming error in the chain layout.
type InvalidChainError struct {
	Reason string
}

func (e *InvalidChainError) Error() string {
	return "render: invalid chain: " + e.Reason
}
