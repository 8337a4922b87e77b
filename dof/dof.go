// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dof implements the depth-of-field post-processing pipeline.
//
// The pipeline renders scene depth into an off-screen buffer, then runs a
// three-pass chain: scene color, horizontal blur and vertical blur to the
// screen. Both blurs sample the depth buffer to size their circle of
// confusion. Buffer sizes and the per-axis blur scales follow the viewport
// through Resize.
//
// The pipeline has two states. It starts Disabled; Enable allocates every
// resource and Disable releases them. Any allocation failure during Enable
// or Resize leaves the pipeline Disabled with nothing allocated, so the
// caller can keep rendering the scene directly.
package dof

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/bokeh/render"
	"github.com/gogpu/bokeh/scene"
)

// Tunable defaults.
const (
	// DefaultFocusDistance is the in-focus depth in depth-buffer units.
	DefaultFocusDistance = 1.0

	// DefaultMaxBlurRadius is the largest circle of confusion, in pixels.
	DefaultMaxBlurRadius = 2.0
)

// Pass and buffer labels.
const (
	DepthBufferLabel = "dof_depth"
	DepthPassLabel   = "dof_depth_pass"
	ScenePassLabel   = "dof_scene"
	HBlurLabel       = "dof_hblur"
	VBlurLabel       = "dof_vblur"
)

// ErrDisabled is returned by Render when the pipeline is not enabled.
var ErrDisabled = errors.New("dof: pipeline disabled")

// State is the pipeline lifecycle state.
type State uint8

const (
	// Disabled holds no resources. The initial state.
	Disabled State = iota

	// Enabled holds the depth buffer and the pass chain.
	Enabled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case Enabled:
		return "Enabled"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// DeriveScales returns the per-axis blur scales for a viewport: one pixel in
// UV units, 1/width and 1/height. It is the only place scales are computed.
func DeriveScales(width, height int) (hScale, vScale float32) {
	if width > 0 {
		hScale = 1 / float32(width)
	}
	if height > 0 {
		vScale = 1 / float32(height)
	}
	return hScale, vScale
}

// Option configures a Pipeline during creation.
type Option func(*Pipeline)

// WithFocusDistance sets the initial focus distance.
func WithFocusDistance(f float32) Option {
	return func(p *Pipeline) {
		p.focus = f
	}
}

// WithMaxBlurRadius sets the initial maximum blur radius in pixels.
func WithMaxBlurRadius(r float32) Option {
	return func(p *Pipeline) {
		p.maxBlur = r
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// Pipeline is the depth-of-field post-process.
//
// A Pipeline is owned by the goroutine that renders; none of its methods are
// safe for concurrent use.
type Pipeline struct {
	dev    render.Device
	scene  *scene.Scene
	camera *scene.Camera
	log    *slog.Logger

	state         State
	width, height int
	focus         float32
	maxBlur       float32

	depth     render.FrameBuffer
	depthPass *render.Pass
	scenePass *render.Pass
	hBlur     *render.Pass
	vBlur     *render.Pass
	chain     *render.Chain
}

// New returns a Disabled pipeline drawing s through cam on dev.
func New(dev render.Device, s *scene.Scene, cam *scene.Camera, opts ...Option) *Pipeline {
	p := &Pipeline{
		dev:     dev,
		scene:   s,
		camera:  cam,
		log:     slog.New(slog.DiscardHandler),
		focus:   DefaultFocusDistance,
		maxBlur: DefaultMaxBlurRadius,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Enabled reports whether the pipeline is Enabled.
func (p *Pipeline) Enabled() bool {
	return p.state == Enabled
}

// Size returns the viewport size last given to Enable or Resize.
func (p *Pipeline) Size() (width, height int) {
	return p.width, p.height
}

// FocusDistance returns the current focus distance.
func (p *Pipeline) FocusDistance() float32 {
	return p.focus
}

// MaxBlurRadius returns the current maximum blur radius.
func (p *Pipeline) MaxBlurRadius() float32 {
	return p.maxBlur
}

// DepthBuffer returns the depth buffer, or nil while Disabled.
func (p *Pipeline) DepthBuffer() render.FrameBuffer {
	return p.depth
}

// Chain returns the pass chain, or nil while Disabled.
func (p *Pipeline) Chain() *render.Chain {
	return p.chain
}

// DepthPass returns the depth pre-pass, or nil while Disabled.
func (p *Pipeline) DepthPass() *render.Pass {
	return p.depthPass
}

// HBlur returns the horizontal blur pass, or nil while Disabled.
func (p *Pipeline) HBlur() *render.Pass {
	return p.hBlur
}

// VBlur returns the vertical blur pass, or nil while Disabled.
func (p *Pipeline) VBlur() *render.Pass {
	return p.vBlur
}

// Enable allocates the depth buffer and builds the chain at width x height.
// Enabling an Enabled pipeline does nothing.
//
// On failure everything allocated so far is released, the pipeline stays
// Disabled and the *render.AllocationError is returned.
func (p *Pipeline) Enable(width, height int) error {
	if p.state == Enabled {
		return nil
	}
	p.width, p.height = width, height

	depth, err := p.dev.NewFrameBuffer(render.DefaultFrameBufferDescriptor(DepthBufferLabel, width, height))
	if err != nil {
		p.warn("enable", err)
		return err
	}

	depthPass := &render.Pass{
		Label:    DepthPassLabel,
		Program:  render.ProgramScene,
		Clear:    true,
		Scene:    p.scene,
		Camera:   p.camera,
		Override: scene.DepthMaterial,
	}
	scenePass := &render.Pass{
		Label:   ScenePassLabel,
		Program: render.ProgramScene,
		Clear:   true,
		Scene:   p.scene,
		Camera:  p.camera,
	}
	hBlur := &render.Pass{
		Label:   HBlurLabel,
		Program: render.ProgramHorizontalDOF,
		Sources: []render.Target{depth},
		Params:  render.Params{render.ParamFocus: p.focus, render.ParamMaxBlur: p.maxBlur},
	}
	vBlur := &render.Pass{
		Label:          VBlurLabel,
		Program:        render.ProgramVerticalDOF,
		Sources:        []render.Target{depth},
		Params:         render.Params{render.ParamFocus: p.focus, render.ParamMaxBlur: p.maxBlur},
		RenderToScreen: true,
	}

	chain, err := render.NewChain(p.dev, width, height,
		[]*render.Pass{scenePass, hBlur, vBlur}, render.WithChainLogger(p.log))
	if err != nil {
		depth.Destroy()
		var ice *render.InvalidChainError
		if errors.As(err, &ice) {
			panic(err)
		}
		p.warn("enable", err)
		return err
	}

	p.depth = depth
	p.depthPass = depthPass
	p.scenePass = scenePass
	p.hBlur = hBlur
	p.vBlur = vBlur
	p.chain = chain
	p.applyScales()
	p.state = Enabled

	p.log.Info("dof: enabled", "width", width, "height", height,
		"focus", p.focus, "maxblur", p.maxBlur)
	return nil
}

// Disable releases the depth buffer and the chain. Safe to call when
// already Disabled.
func (p *Pipeline) Disable() {
	if p.state == Disabled {
		return
	}
	p.release()
	p.log.Info("dof: disabled")
}

func (p *Pipeline) release() {
	if p.chain != nil {
		p.chain.Release()
	}
	if p.depth != nil {
		p.depth.Destroy()
	}
	p.depth = nil
	p.chain = nil
	p.depthPass = nil
	p.scenePass = nil
	p.hBlur = nil
	p.vBlur = nil
	p.state = Disabled
}

// Render runs the depth pre-pass into the depth buffer, then the chain.
// Returns ErrDisabled when the pipeline is Disabled.
func (p *Pipeline) Render(delta time.Duration) error {
	if p.state != Enabled {
		return ErrDisabled
	}
	err := p.dev.Execute(render.Invocation{Pass: p.depthPass, Output: p.depth, Delta: delta})
	if err != nil {
		return fmt.Errorf("dof: depth pass: %w", err)
	}
	if err := p.chain.Run(delta); err != nil {
		return fmt.Errorf("dof: %w", err)
	}
	return nil
}

// Resize follows a viewport change. While Enabled it reallocates the depth
// buffer, resets the chain and recomputes both blur scales. While Disabled it
// only records the size for the next Enable.
//
// On allocation failure the pipeline is forced to Disabled and the
// *render.AllocationError is returned.
func (p *Pipeline) Resize(width, height int) error {
	p.width, p.height = width, height
	if p.state != Enabled {
		return nil
	}
	if err := p.depth.Resize(width, height); err != nil {
		p.fail("resize", err)
		return err
	}
	if err := p.chain.Reset(width, height); err != nil {
		p.fail("resize", err)
		return err
	}
	p.applyScales()
	p.log.Debug("dof: resized", "width", width, "height", height)
	return nil
}

// SetFocusDistance updates the focus distance on both blur passes.
func (p *Pipeline) SetFocusDistance(f float32) {
	p.focus = f
	p.setBlurParam(render.ParamFocus, f)
}

// SetMaxBlurRadius updates the maximum blur radius on both blur passes.
func (p *Pipeline) SetMaxBlurRadius(r float32) {
	p.maxBlur = r
	p.setBlurParam(render.ParamMaxBlur, r)
}

// Fail forces the pipeline to Disabled after a render error, logging a
// single warning.
func (p *Pipeline) Fail(err error) {
	p.fail("render", err)
}

func (p *Pipeline) setBlurParam(name string, v float32) {
	if p.hBlur != nil {
		p.hBlur.SetParam(name, v)
	}
	if p.vBlur != nil {
		p.vBlur.SetParam(name, v)
	}
}

func (p *Pipeline) applyScales() {
	h, v := DeriveScales(p.width, p.height)
	p.hBlur.SetParam(render.ParamH, h)
	p.vBlur.SetParam(render.ParamV, v)
}

func (p *Pipeline) fail(op string, err error) {
	p.warn(op, err)
	p.release()
}

func (p *Pipeline) warn(op string, err error) {
	p.log.Warn("dof: effect disabled", "op", op, "width", p.width, "height", p.height, "err", err)
}
