// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/bokeh/internal/parallel"
	"github.com/gogpu/bokeh/internal/raster"
	"github.com/gogpu/bokeh/scene"
)

// SoftwareDevice is a CPU Device that executes every Program on float RGBA
// buffers.
//
// It keeps counters of allocations and executions, which makes it the device
// of choice for headless runs and tests.
//
// Example:
//
//	dev := render.NewSoftwareDevice(800, 600)
//	fb, err := dev.NewFrameBuffer(render.DefaultFrameBufferDescriptor("depth", 800, 600))
//	...
//	img := dev.Image()
type SoftwareDevice struct {
	screen  *softBuffer
	maxSize int
	workers int
	pool    *parallel.WorkerPool
	raster  *raster.Rasterizer
	tris    []scene.Triangle
	stats   SoftwareStats
}

// SoftwareStats counts device activity.
type SoftwareStats struct {
	// Allocations counts successful frame buffer allocations, including
	// reallocations by Resize.
	Allocations int

	// Releases counts frame buffer storage releases.
	Releases int

	// Live is the number of frame buffers currently holding storage.
	Live int

	// Clears and Presents count screen operations.
	Clears, Presents int

	// Executions counts executed passes per Program.
	Executions [programCount]int

	// ScreenScenes counts ProgramScene executions written to the screen.
	ScreenScenes int
}

// SoftwareOption configures a SoftwareDevice.
type SoftwareOption func(*SoftwareDevice)

// WithMaxTextureSize sets the frame buffer dimension limit. The screen is not
// subject to it.
func WithMaxTextureSize(n int) SoftwareOption {
	return func(d *SoftwareDevice) {
		d.maxSize = n
	}
}

// WithWorkers sets how many goroutines run the blur programs. One or less
// runs them on the calling goroutine. The default is GOMAXPROCS.
func WithWorkers(n int) SoftwareOption {
	return func(d *SoftwareDevice) {
		d.workers = n
	}
}

// parallelMinRows is the output height below which blurs stay serial.
const parallelMinRows = 32

// NewSoftwareDevice creates a CPU device whose screen is width x height.
func NewSoftwareDevice(width, height int, opts ...SoftwareOption) *SoftwareDevice {
	d := &SoftwareDevice{
		maxSize: DefaultMaxTextureSize,
		workers: runtime.GOMAXPROCS(0),
		raster:  raster.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.screen = &softBuffer{
		dev:    d,
		label:  "screen",
		format: gputypes.TextureFormatRGBA8Unorm,
		filter: gputypes.FilterModeNearest,
		width:  max(width, 0),
		height: max(height, 0),
		pix:    make([]float32, max(width, 0)*max(height, 0)*4),
	}
	return d
}

// NewFrameBuffer allocates a zeroed off-screen buffer.
func (d *SoftwareDevice) NewFrameBuffer(desc FrameBufferDescriptor) (FrameBuffer, error) {
	if err := desc.Check(d.maxSize); err != nil {
		return nil, err
	}
	fb := &softBuffer{
		dev:    d,
		label:  desc.Label,
		format: desc.Format,
		filter: desc.Filter,
		width:  desc.Width,
		height: desc.Height,
		pix:    make([]float32, desc.Width*desc.Height*4),
	}
	d.stats.Allocations++
	d.stats.Live++
	return fb, nil
}

// Screen returns the presentable target.
func (d *SoftwareDevice) Screen() Target {
	return d.screen
}

// ResizeScreen reallocates the screen. Contents are cleared.
func (d *SoftwareDevice) ResizeScreen(width, height int) error {
	if width <= 0 || height <= 0 {
		return &AllocationError{Label: d.screen.label, Width: width, Height: height, Err: ErrZeroSize}
	}
	d.screen.width, d.screen.height = width, height
	d.screen.pix = make([]float32, width*height*4)
	return nil
}

// Clear fills the screen with c.
func (d *SoftwareDevice) Clear(c gputypes.Color) error {
	d.screen.fill(scene.Color{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
	d.stats.Clears++
	return nil
}

// Present counts the frame. The screen contents are available through Image.
func (d *SoftwareDevice) Present() error {
	d.stats.Presents++
	return nil
}

// Capabilities reports the device limits.
func (d *SoftwareDevice) Capabilities() DeviceCapabilities {
	return DeviceCapabilities{
		MaxTextureSize: d.maxSize,
		DeviceName:     "software",
	}
}

// Close stops the blur workers.
func (d *SoftwareDevice) Close() error {
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	return nil
}

// rows calls fn over [0, height), split across the worker pool when the
// output is tall enough.
func (d *SoftwareDevice) rows(height int, fn func(y0, y1 int)) {
	if d.workers <= 1 || height < parallelMinRows {
		fn(0, height)
		return
	}
	if d.pool == nil {
		d.pool = parallel.NewWorkerPool(d.workers)
	}
	d.pool.Rows(height, fn)
}

// Stats returns a snapshot of the device counters.
func (d *SoftwareDevice) Stats() SoftwareStats {
	return d.stats
}

// Image returns a copy of the screen as 8-bit RGBA.
func (d *SoftwareDevice) Image() *image.RGBA {
	return d.screen.image()
}

// Pixel returns the screen color at (x, y), row 0 at the top.
func (d *SoftwareDevice) Pixel(x, y int) scene.Color {
	return d.screen.at(x, y)
}

// Execute runs one pass.
func (d *SoftwareDevice) Execute(inv Invocation) error {
	if inv.Pass == nil {
		return fmt.Errorf("render: execute: nil pass")
	}
	out, err := d.own(inv.Output)
	if err != nil {
		return err
	}

	switch inv.Pass.Program {
	case ProgramScene:
		err = d.drawScene(inv.Pass, out)
	case ProgramHorizontalDOF:
		err = d.blur(inv, out, 1, 0, ParamH)
	case ProgramVerticalDOF:
		err = d.blur(inv, out, 0, 1, ParamV)
	default:
		err = fmt.Errorf("render: unknown program %v", inv.Pass.Program)
	}
	if err != nil {
		return err
	}
	d.stats.Executions[inv.Pass.Program]++
	if out == d.screen && inv.Pass.Program == ProgramScene {
		d.stats.ScreenScenes++
	}
	return nil
}

func (d *SoftwareDevice) own(t Target) (*softBuffer, error) {
	b, ok := t.(*softBuffer)
	if !ok || b == nil || b.dev != d {
		return nil, ErrForeignTarget
	}
	if b.pix == nil && b != d.screen {
		return nil, ErrDestroyed
	}
	return b, nil
}

func (d *SoftwareDevice) drawScene(p *Pass, out *softBuffer) error {
	if p.Clear {
		out.fill(scene.Color{0, 0, 0, 1})
	}
	if p.Scene == nil || p.Camera == nil {
		return nil
	}
	d.tris = p.Scene.Triangles(p.Camera, p.Override, d.tris[:0])
	d.raster.Begin(out.width, out.height)
	d.raster.Draw(out.pix, d.tris)
	return nil
}

// blur applies the 9-tap depth-modulated kernel along (dx, dy).
func (d *SoftwareDevice) blur(inv Invocation, out *softBuffer, dx, dy float32, scaleParam string) error {
	if len(inv.Inputs) < 2 {
		return fmt.Errorf("%w: %s needs color and depth", ErrMissingInput, inv.Pass.Program)
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
		return ErrAliasedOutput
	}

	scale, _ := inv.Pass.Param(scaleParam)
	focus, _ := inv.Pass.Param(ParamFocus)
	maxBlur, _ := inv.Pass.Param(ParamMaxBlur)

	w, h := out.width, out.height
	d.rows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				coc := CircleOfConfusion(depth.sample(u, v)[0], focus, maxBlur)
				step := coc * scale
				var sum scene.Color
				for k, weight := range BlurWeights {
					off := float32(k-4) * step
					c := src.sample(u+off*dx, v+off*dy)
					for i := range sum {
						sum[i] += c[i] * weight
					}
				}
				copy(out.pix[(y*w+x)*4:], sum[:])
			}
		}
	})
	return nil
}

// softBuffer is a float RGBA FrameBuffer owned by a SoftwareDevice.
type softBuffer struct {
	dev           *SoftwareDevice
	label         string
	format        gputypes.TextureFormat
	filter        gputypes.FilterMode
	width, height int
	pix           []float32
}

var _ FrameBuffer = (*softBuffer)(nil)

func (b *softBuffer) Label() string                  { return b.label }
func (b *softBuffer) Width() int                     { return b.width }
func (b *softBuffer) Height() int                    { return b.height }
func (b *softBuffer) Format() gputypes.TextureFormat { return b.format }
func (b *softBuffer) Filter() gputypes.FilterMode    { return b.filter }

func (b *softBuffer) Resize(width, height int) error {
	if b.pix == nil {
		return ErrDestroyed
	}
	desc := FrameBufferDescriptor{Label: b.label, Width: width, Height: height, Format: b.format, Filter: b.filter}
	if err := desc.Check(b.dev.maxSize); err != nil {
		return err
	}
	pix := make([]float32, width*height*4)
	b.dev.stats.Allocations++
	b.dev.stats.Releases++
	b.pix, b.width, b.height = pix, width, height
	return nil
}

func (b *softBuffer) Destroy() {
	if b.pix == nil {
		return
	}
	b.pix = nil
	b.dev.stats.Releases++
	b.dev.stats.Live--
}

func (b *softBuffer) fill(c scene.Color) {
	for i := 0; i < len(b.pix); i += 4 {
		copy(b.pix[i:i+4], c[:])
	}
}

func (b *softBuffer) at(x, y int) scene.Color {
	x = clamp(x, 0, b.width-1)
	y = clamp(y, 0, b.height-1)
	p := (y*b.width + x) * 4
	return scene.Color{b.pix[p], b.pix[p+1], b.pix[p+2], b.pix[p+3]}
}

// sample reads the buffer at normalized (u, v) with clamp-to-edge addressing.
func (b *softBuffer) sample(u, v float32) scene.Color {
	if b.width == 0 || b.height == 0 {
		return scene.Color{}
	}
	fx := u*float32(b.width) - 0.5
	fy := v*float32(b.height) - 0.5
	if b.filter != gputypes.FilterModeLinear {
		return b.at(int(math.Round(float64(fx))), int(math.Round(float64(fy))))
	}
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)
	c00 := b.at(x0, y0)
	c10 := b.at(x0+1, y0)
	c01 := b.at(x0, y0+1)
	c11 := b.at(x0+1, y0+1)
	var c scene.Color
	for i := range c {
		top := c00[i] + (c10[i]-c00[i])*tx
		bottom := c01[i] + (c11[i]-c01[i])*tx
		c[i] = top + (bottom-top)*ty
	}
	return c
}

func (b *softBuffer) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.at(x, y)
			img.SetRGBA(x, y, color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3])})
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)
