// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/bokeh/render"
)

// frameBufferUsage lets a buffer be drawn into, sampled by the blur passes
// and copied out for readback.
const frameBufferUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc

// frameBuffer is a render.FrameBuffer backed by a HAL texture and its view.
type frameBuffer struct {
	dev    *Device
	label  string
	format gputypes.TextureFormat
	filter gputypes.FilterMode

	tex           hal.Texture
	view          hal.TextureView
	width, height int

	// limited buffers are checked against the device texture size limit.
	limited bool
}

var _ render.FrameBuffer = (*frameBuffer)(nil)

func (b *frameBuffer) Label() string                  { return b.label }
func (b *frameBuffer) Width() int                     { return b.width }
func (b *frameBuffer) Height() int                    { return b.height }
func (b *frameBuffer) Format() gputypes.TextureFormat { return b.format }
func (b *frameBuffer) Filter() gputypes.FilterMode    { return b.filter }

// Resize creates the new texture first and only then releases the old one,
// so a failed resize leaves the buffer usable at its previous size.
func (b *frameBuffer) Resize(width, height int) error {
	if b.tex == nil {
		return render.ErrDestroyed
	}
	tex, view, err := b.create(width, height)
	if err != nil {
		return err
	}
	b.release()
	b.tex, b.view = tex, view
	b.width, b.height = width, height
	return nil
}

// Destroy releases the texture. Safe to call more than once.
func (b *frameBuffer) Destroy() {
	if b.tex == nil {
		return
	}
	b.release()
	b.dev.live--
}

func (b *frameBuffer) create(width, height int) (hal.Texture, hal.TextureView, error) {
	desc := render.FrameBufferDescriptor{
		Label:  b.label,
		Width:  width,
		Height: height,
		Format: b.format,
		Filter: b.filter,
	}
	limit := 0
	if b.limited {
		limit = b.dev.maxSize
	}
	if err := desc.Check(limit); err != nil {
		return nil, nil, err
	}

	device := b.dev.device
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         b.label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         frameBufferUsage,
	})
	if err != nil {
		return nil, nil, &render.AllocationError{Label: b.label, Width: width, Height: height,
			Err: fmt.Errorf("create texture: %w", err)}
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: b.label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, &render.AllocationError{Label: b.label, Width: width, Height: height,
			Err: fmt.Errorf("create texture view: %w", err)}
	}
	return tex, view, nil
}

func (b *frameBuffer) release() {
	if b.view != nil {
		b.dev.device.DestroyTextureView(b.view)
		b.view = nil
	}
	if b.tex != nil {
		b.dev.device.DestroyTexture(b.tex)
		b.tex = nil
	}
}
