// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoAdapter is returned when a backend exposes no adapters.
var ErrNoAdapter = errors.New("gpu: no GPU adapters found")

// VulkanAvailable reports whether the Vulkan HAL backend is registered.
func VulkanAvailable() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// OpenVulkan opens the first discrete or integrated Vulkan adapter, falling
// back to the first adapter of any type, and creates a Device on it. Close
// destroys the HAL device and instance.
func OpenVulkan(width, height int, opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("gpu: vulkan backend not available")
	}
	return openBackend(backend, width, height, opts...)
}

func openBackend(backend hal.Backend, width, height int, opts ...Option) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	opts = append([]Option{
		WithAdapterInfo(selected.Info.Vendor, selected.Info.Name),
		withOwned(instance),
	}, opts...)
	d, err := NewDevice(openDev.Device, openDev.Queue, width, height, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return d, nil
}

// NewDeviceFromProvider creates a Device on a GPU device shared by an
// external provider, such as a gogpu application. The provider must expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// Close leaves the shared device open.
func NewDeviceFromProvider(provider any, width, height int, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("gpu: provider HalQueue is not hal.Queue")
	}
	return NewDevice(device, queue, width, height, opts...)
}
