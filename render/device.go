// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DefaultMaxTextureSize is the frame buffer dimension limit used when a
// backend does not report one.
const DefaultMaxTextureSize = 8192

// DeviceHandle provides GPU device access from the host application.
//
// The host application (e.g., gogpu.App) implements DeviceHandle and passes
// it to gpu.NewDevice so bokeh renders with the shared GPU device instead of
// opening its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// Device is a rendering backend.
//
// A Device is owned by a single goroutine. Execute is synchronous: when it
// returns the pass has been submitted and its output is visible to the next
// pass.
type Device interface {
	// NewFrameBuffer allocates an off-screen buffer. Returns *AllocationError
	// when a dimension is zero or exceeds Capabilities().MaxTextureSize.
	NewFrameBuffer(desc FrameBufferDescriptor) (FrameBuffer, error)

	// Screen returns the presentable target.
	Screen() Target

	// ResizeScreen resizes the presentable target.
	ResizeScreen(width, height int) error

	// Clear fills the screen with c.
	Clear(c gputypes.Color) error

	// Execute runs one pass invocation.
	Execute(inv Invocation) error

	// Present makes the screen contents visible.
	Present() error

	// Capabilities reports device limits.
	Capabilities() DeviceCapabilities

	// Close releases the device. Frame buffers must be destroyed first.
	Close() error
}

// Invocation is a single pass execution as routed by a Chain (or issued
// directly by the frame scheduler).
type Invocation struct {
	Pass *Pass

	// Inputs holds the chain's read buffer (nil for a direct render) followed
	// by Pass.Sources.
	Inputs []Target

	// Output is the screen or a FrameBuffer.
	Output Target

	// Delta is the time since the previous frame.
	Delta time.Duration
}

// Input returns input i or nil.
func (inv Invocation) Input(i int) Target {
	if i < 0 || i >= len(inv.Inputs) {
		return nil
	}
	return inv.Inputs[i]
}

// DeviceCapabilities describes the capabilities of a device.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum frame buffer dimension supported.
	MaxTextureSize int

	// IsGPU reports whether passes run on a GPU.
	IsGPU bool

	// VendorName is the GPU vendor name.
	VendorName string

	// DeviceName is the GPU device name.
	DeviceName string
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns an empty description for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
