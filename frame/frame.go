// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame drives the viewer one display refresh at a time.
//
// A Scheduler owns a Context holding every per-viewer object (device,
// surface, scene, camera, controls and the depth-of-field pipeline). Each
// Tick applies a pending resize, advances the scene, updates the controls and
// renders, either through the pipeline or directly to the screen.
package frame

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/bokeh/controls"
	"github.com/gogpu/bokeh/dof"
	"github.com/gogpu/bokeh/render"
	"github.com/gogpu/bokeh/scene"
	"github.com/gogpu/bokeh/surface"
)

// Path records how a tick produced its frame.
type Path uint8

const (
	// PathDirect rendered the scene straight to the screen.
	PathDirect Path = iota

	// PathPipeline rendered through the depth-of-field pipeline.
	PathPipeline

	// PathFallback tried the pipeline, which failed and was disabled; the
	// scene was then rendered directly in the same tick.
	PathFallback
)

// String returns the path name.
func (p Path) String() string {
	switch p {
	case PathDirect:
		return "direct"
	case PathPipeline:
		return "pipeline"
	case PathFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Path(%d)", p)
	}
}

// Report describes one tick.
type Report struct {
	// Frame is the 1-based tick number.
	Frame uint64

	Path Path

	// Resized reports that a posted resize was applied before rendering.
	Resized bool

	// Err is the first error swallowed during the tick, already logged.
	Err error
}

// Context holds the objects a Scheduler drives. All fields except Log and
// ClearColor are required.
type Context struct {
	Device   render.Device
	Surface  *surface.Surface
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls controls.Controls
	Pipeline *dof.Pipeline

	// ClearColor is the screen clear color. Zero means opaque black.
	ClearColor gputypes.Color

	Log *slog.Logger
}

// Resize propagates a new viewport size to the device screen, the camera
// aspect, the controls and the pipeline, in that order. A pipeline
// allocation failure disables the effect; it is logged by the pipeline and
// not returned.
func (c *Context) Resize(width, height int) {
	if err := c.Device.ResizeScreen(width, height); err != nil {
		c.Log.Warn("frame: resize screen", "width", width, "height", height, "err", err)
	}
	c.Camera.SetAspect(float32(width) / float32(height))
	c.Controls.SetScreen(width, height)
	_ = c.Pipeline.Resize(width, height)
	c.Log.Debug("frame: resized", "width", width, "height", height, "dof", c.Pipeline.State())
}

// Scheduler runs one iteration per display refresh.
//
// Tick and Run must be called from the goroutine that owns the device. Other
// goroutines request resizes with Surface.Post.
type Scheduler struct {
	ctx    *Context
	frame  uint64
	direct *render.Pass
}

// NewScheduler returns a scheduler for c and registers c.Resize as the
// surface resize handler.
func NewScheduler(c *Context) *Scheduler {
	if c.Log == nil {
		c.Log = slog.New(slog.DiscardHandler)
	}
	if c.ClearColor == (gputypes.Color{}) {
		c.ClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	}
	c.Surface.OnResize(c.Resize)
	return &Scheduler{
		ctx: c,
		direct: &render.Pass{
			Label:          "direct",
			Program:        render.ProgramScene,
			RenderToScreen: true,
			Scene:          c.Scene,
			Camera:         c.Camera,
		},
	}
}

// Frames returns the number of completed ticks.
func (s *Scheduler) Frames() uint64 {
	return s.frame
}

// Tick runs one frame. Errors are logged and reported, never returned.
func (s *Scheduler) Tick(dt time.Duration) Report {
	c := s.ctx
	s.frame++
	r := Report{Frame: s.frame}

	_, r.Resized = c.Surface.ApplyPending()

	c.Scene.Advance(dt)
	c.Controls.Update()

	if err := c.Device.Clear(c.ClearColor); err != nil {
		s.note(&r, "clear", err)
	}

	switch {
	case c.Pipeline.Enabled():
		if err := c.Pipeline.Render(dt); err != nil {
			c.Pipeline.Fail(err)
			r.Err = err
			r.Path = PathFallback
			s.renderDirect(&r, dt)
		} else {
			r.Path = PathPipeline
		}
	default:
		r.Path = PathDirect
		s.renderDirect(&r, dt)
	}

	if err := c.Device.Present(); err != nil {
		s.note(&r, "present", err)
	}
	return r
}

func (s *Scheduler) renderDirect(r *Report, dt time.Duration) {
	err := s.ctx.Device.Execute(render.Invocation{
		Pass:   s.direct,
		Output: s.ctx.Device.Screen(),
		Delta:  dt,
	})
	if err != nil {
		s.note(r, "direct render", err)
	}
}

func (s *Scheduler) note(r *Report, op string, err error) {
	s.ctx.Log.Warn("frame: "+op, "frame", r.Frame, "err", err)
	if r.Err == nil {
		r.Err = err
	}
}

// Run calls Tick once per vsync notification until ctx is done or vsync is
// closed. The first tick has a zero delta; later ticks use the time between
// notifications.
func (s *Scheduler) Run(ctx context.Context, vsync <-chan time.Time) error {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-vsync:
			if !ok {
				return nil
			}
			var dt time.Duration
			if !last.IsZero() {
				dt = now.Sub(last)
			}
			last = now
			s.Tick(dt)
		}
	}
}
