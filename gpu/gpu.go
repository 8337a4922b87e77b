// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu registers the wgpu HAL render device.
//
// Importing this package adds a "vulkan" entry to the render device registry
// with a higher priority than the software device, so render.OpenBestDevice
// prefers the GPU when a Vulkan adapter can be opened and falls back to the
// CPU otherwise.
//
// Usage:
//
//	import _ "github.com/gogpu/bokeh/gpu" // enable GPU rendering
package gpu

import (
	gpuimpl "github.com/gogpu/bokeh/internal/gpu"
	"github.com/gogpu/bokeh/render"
)

// BackendVulkan is the registry name of the Vulkan device.
const BackendVulkan = "vulkan"

// Priority of the Vulkan device in the render registry.
const Priority = 100

func init() {
	render.Register(BackendVulkan, Priority, Open, gpuimpl.VulkanAvailable)
}

// Open opens a Vulkan device with a width x height screen.
func Open(width, height int) (render.Device, error) {
	return gpuimpl.OpenVulkan(width, height)
}

// NewDevice creates a device on a GPU shared by an external provider, such
// as a gogpu application window. The provider must expose HalDevice() and
// HalQueue() returning wgpu HAL types.
func NewDevice(provider any, width, height int) (render.Device, error) {
	d, err := gpuimpl.NewDeviceFromProvider(provider, width, height)
	if err != nil {
		return nil, err
	}
	return d, nil
}
