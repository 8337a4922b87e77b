// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/bokeh/render"
	"github.com/gogpu/bokeh/scene"
)

// submitTimeout bounds every wait for submitted GPU work.
const submitTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls.
const pollInterval = time.Millisecond

// targetFormat is the color format of the screen and every frame buffer.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// ErrClosed is returned by operations on a closed Device.
var ErrClosed = errors.New("gpu: device closed")

// ErrWaitTimeout is returned when submitted work does not complete within
// the wait bound.
var ErrWaitTimeout = errors.New("gpu: wait for GPU timed out")

// Option configures a Device during creation.
type Option func(*Device)

// WithMaxTextureSize overrides the frame buffer dimension limit.
func WithMaxTextureSize(n int) Option {
	return func(d *Device) {
		d.maxSize = n
	}
}

// WithAdapterInfo records the adapter names reported by Capabilities.
func WithAdapterInfo(vendor, name string) Option {
	return func(d *Device) {
		d.vendor, d.name = vendor, name
	}
}

// withOwned makes Close destroy the HAL device and instance.
func withOwned(instance hal.Instance) Option {
	return func(d *Device) {
		d.instance = instance
		d.owned = true
	}
}

// Device is a render.Device executing passes through wgpu HAL.
//
// The screen is an off-screen texture of the same format as every frame
// buffer. The scene program uploads CPU-shaded clip-space triangles, sorted
// back to front; the blur programs draw a fullscreen triangle sampling the
// color and depth inputs.
//
// A Device is owned by the goroutine that renders.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	owned    bool
	closed   bool

	vendor, name string
	maxSize      int
	waitTimeout  time.Duration

	pl     pipelines
	screen *frameBuffer

	// live counts frame buffers holding a texture, screen excluded.
	live int

	presents uint64
	tris     []scene.Triangle
	verts    []byte
}

var _ render.Device = (*Device)(nil)

// NewDevice creates a Device on an open HAL device and queue with a screen
// of width x height. Close does not destroy device unless it was opened by
// this package.
func NewDevice(device hal.Device, queue hal.Queue, width, height int, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("gpu: nil HAL device or queue")
	}
	d := &Device{
		device:      device,
		queue:       queue,
		maxSize:     int(gputypes.DefaultLimits().MaxTextureDimension2D),
		waitTimeout: submitTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxSize <= 0 {
		d.maxSize = render.DefaultMaxTextureSize
	}

	if err := d.pl.create(device, targetFormat); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}
	d.screen = &frameBuffer{
		dev:    d,
		label:  "screen",
		format: targetFormat,
		filter: gputypes.FilterModeNearest,
	}
	tex, view, err := d.screen.create(width, height)
	if err != nil {
		d.pl.destroy(device)
		return nil, fmt.Errorf("gpu: screen: %w", err)
	}
	d.screen.tex, d.screen.view = tex, view
	d.screen.width, d.screen.height = width, height

	slogger().Debug("gpu: device ready", "width", width, "height", height,
		"max_texture", d.maxSize, "adapter", d.name)
	return d, nil
}

// SetLogger sets the logger for the gpu package.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// LiveFrameBuffers returns the number of frame buffers holding a texture.
func (d *Device) LiveFrameBuffers() int {
	return d.live
}

// Presents returns the number of Present calls.
func (d *Device) Presents() uint64 {
	return d.presents
}

// NewFrameBuffer allocates an off-screen texture.
func (d *Device) NewFrameBuffer(desc render.FrameBufferDescriptor) (render.FrameBuffer, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = targetFormat
	}
	fb := &frameBuffer{
		dev:     d,
		label:   desc.Label,
		format:  desc.Format,
		filter:  desc.Filter,
		limited: true,
	}
	tex, view, err := fb.create(desc.Width, desc.Height)
	if err != nil {
		return nil, err
	}
	fb.tex, fb.view = tex, view
	fb.width, fb.height = desc.Width, desc.Height
	d.live++
	return fb, nil
}

// Screen returns the presentable target.
func (d *Device) Screen() render.Target {
	return d.screen
}

// ResizeScreen reallocates the screen texture.
func (d *Device) ResizeScreen(width, height int) error {
	if d.closed {
		return ErrClosed
	}
	return d.screen.Resize(width, height)
}

// Clear fills the screen with c.
func (d *Device) Clear(c gputypes.Color) error {
	if d.closed {
		return ErrClosed
	}
	return d.submit("clear", d.screen.view, gputypes.LoadOpClear, c, nil)
}

// Present ends the frame. The screen is off-screen, so this only counts.
func (d *Device) Present() error {
	if d.closed {
		return ErrClosed
	}
	d.presents++
	return nil
}

// Capabilities reports the texture size limit and adapter names.
func (d *Device) Capabilities() render.DeviceCapabilities {
	return render.DeviceCapabilities{
		MaxTextureSize: d.maxSize,
		IsGPU:          true,
		VendorName:     d.vendor,
		DeviceName:     d.name,
	}
}

// Close releases the screen and pipelines, and the HAL device when this
// package opened it. Frame buffers must be destroyed first.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.live > 0 {
		slogger().Warn("gpu: closing with live frame buffers", "live", d.live)
	}
	d.screen.release()
	d.pl.destroy(d.device)
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	return nil
}

// Execute runs one pass invocation.
func (d *Device) Execute(inv render.Invocation) error {
	if d.closed {
		return ErrClosed
	}
	if inv.Pass == nil {
		return errors.New("gpu: nil pass")
	}
	out, err := d.own(inv.Output)
	if err != nil {
		return err
	}
	switch inv.Pass.Program {
	case render.ProgramScene:
		return d.drawScene(inv.Pass, out)
	case render.ProgramHorizontalDOF:
		return d.blur(inv, out, 1, 0, render.ParamH)
	case render.ProgramVerticalDOF:
		return d.blur(inv, out, 0, 1, render.ParamV)
	default:
		return fmt.Errorf("gpu: unknown program %v", inv.Pass.Program)
	}
}

func (d *Device) own(t render.Target) (*frameBuffer, error) {
	fb, ok := t.(*frameBuffer)
	if !ok || fb.dev != d {
		return nil, render.ErrForeignTarget
	}
	if fb.tex == nil {
		return nil, render.ErrDestroyed
	}
	return fb, nil
}

func (d *Device) drawScene(p *render.Pass, out *frameBuffer) error {
	if p.Scene == nil || p.Camera == nil {
		return fmt.Errorf("%w: scene pass without scene or camera", render.ErrMissingInput)
	}
	d.tris = p.Scene.Triangles(p.Camera, p.Override, d.tris[:0])
	d.verts = buildSceneVertices(d.tris, d.verts[:0])

	var vertBuf hal.Buffer
	if len(d.verts) > 0 {
		buf, err := d.createAndUploadBuffer("scene_verts", d.verts,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		defer d.device.DestroyBuffer(buf)
		vertBuf = buf
	}

	load := gputypes.LoadOpLoad
	if p.Clear {
		load = gputypes.LoadOpClear
	}
	vertCount := uint32(len(d.verts) / sceneVertexStride)
	return d.submit(p.Label, out.view, load, gputypes.Color{A: 1}, func(rp hal.RenderPassEncoder) {
		if vertBuf == nil {
			return
		}
		rp.SetPipeline(d.pl.scenePipeline)
		rp.SetVertexBuffer(0, vertBuf, 0)
		rp.Draw(vertCount, 1, 0, 0)
	})
}

func (d *Device) blur(inv render.Invocation, out *frameBuffer, dx, dy float32, scaleParam string) error {
	if len(inv.Inputs) < 2 {
		return fmt.Errorf("%w: %s needs color and depth", render.ErrMissingInput, inv.Pass.Program)
	}
	src, err := d.own(inv.Inputs[0])
	if err != nil {
		return err
	}
	depth, err := d.own(inv.Inputs[1])
	if err != nil {
		return err
	}
	if src == out || depth == out {
		return render.ErrAliasedOutput
	}

	scale, _ := inv.Pass.Param(scaleParam)
	focus, _ := inv.Pass.Param(render.ParamFocus)
	maxBlur, _ := inv.Pass.Param(render.ParamMaxBlur)

	uniformBuf, err := d.createAndUploadBuffer("dof_uniform",
		makeBlurUniform(scale*dx, scale*dy, focus, maxBlur),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer d.device.DestroyBuffer(uniformBuf)

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  inv.Pass.Label + "_bind",
		Layout: d.pl.blurBindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: blurUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: depth.view.NativeHandle()}},
			{Binding: 3, Resource: gputypes.SamplerBinding{Sampler: d.pl.sampler(src.filter).NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	return d.submit(inv.Pass.Label, out.view, gputypes.LoadOpClear, gputypes.Color{}, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(d.pl.blurPipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.Draw(3, 1, 0, 0)
	})
}

// submit encodes one render pass into view, submits it and waits.
func (d *Device) submit(label string, view hal.TextureView, load gputypes.LoadOp, clear gputypes.Color, record func(hal.RenderPassEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if record != nil {
		record(rp)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	idx, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return d.waitSubmission(idx)
}

// waitSubmission polls the queue until submission idx has completed.
func (d *Device) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(d.waitTimeout)
	for d.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}
		time.Sleep(pollInterval)
	}
	return nil
}

func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("gpu: upload %s: %w", label, err)
	}
	return buf, nil
}

// buildSceneVertices appends the triangles to dst as interleaved clip
// position and color, farthest triangle first. tris is reordered.
func buildSceneVertices(tris []scene.Triangle, dst []byte) []byte {
	slices.SortStableFunc(tris, func(a, b scene.Triangle) int {
		return cmp.Compare(meanW(b), meanW(a))
	})
	var v [sceneVertexStride]byte
	for _, t := range tris {
		for _, vert := range t {
			for i := 0; i < 4; i++ {
				binary.LittleEndian.PutUint32(v[i*4:], math.Float32bits(vert.Clip[i]))
				binary.LittleEndian.PutUint32(v[16+i*4:], math.Float32bits(vert.Color[i]))
			}
			dst = append(dst, v[:]...)
		}
	}
	return dst
}

// meanW is the average clip w of a triangle, its view-space distance.
func meanW(t scene.Triangle) float32 {
	return (t[0].Clip.W() + t[1].Clip.W() + t[2].Clip.W()) / 3
}
