// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bokeh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/bokeh/controls"
	"github.com/gogpu/bokeh/dof"
	"github.com/gogpu/bokeh/frame"
	"github.com/gogpu/bokeh/render"
	"github.com/gogpu/bokeh/scene"
	"github.com/gogpu/bokeh/surface"
)

// Viewer ties a device, a scene, a camera, controls and the depth-of-field
// pipeline to one viewport.
//
// Tick, Run, Resize, SetEffectEnabled and Close must be called from the
// goroutine that owns the viewer. Post is safe from any goroutine.
type Viewer struct {
	cfg        Config
	log        *slog.Logger
	dev        render.Device
	ownsDevice bool
	closed     bool

	surface  *surface.Surface
	scene    *scene.Scene
	camera   *scene.Camera
	controls controls.Controls
	pipeline *dof.Pipeline
	sched    *frame.Scheduler
}

// NewViewer creates a viewer for cfg. Unless WithDevice is given, the device
// is opened from the render registry by cfg.Device. When cfg.DOF.Enabled the
// effect is enabled at the initial size; an allocation failure there is
// logged and leaves the viewer rendering directly, it is not an error.
func NewViewer(cfg Config, opts ...Option) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o viewerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	v := &Viewer{cfg: cfg, log: o.logger, dev: o.device}
	if v.dev == nil {
		dev, err := openDevice(cfg)
		if err != nil {
			return nil, err
		}
		v.dev = dev
		v.ownsDevice = true
		caps := dev.Capabilities()
		v.log.Info("bokeh: device opened", "device", cfg.Device, "gpu", caps.IsGPU,
			"adapter", caps.DeviceName, "max_texture", caps.MaxTextureSize)
	}
	propagateLogger(v.dev, v.log)

	surf, err := surface.New(cfg.Width, cfg.Height)
	if err != nil {
		_ = v.closeDevice()
		return nil, fmt.Errorf("bokeh: %w", err)
	}
	v.surface = surf

	v.scene = o.scene
	if v.scene == nil {
		v.scene = scene.NewDemo()
	}
	v.camera = scene.NewCamera(surf.Aspect())
	v.controls = o.controls
	if v.controls == nil {
		v.controls = controls.NewTrackball(v.camera, cfg.Width, cfg.Height)
	}

	v.pipeline = dof.New(v.dev, v.scene, v.camera,
		dof.WithFocusDistance(cfg.DOF.FocusDistance),
		dof.WithMaxBlurRadius(cfg.DOF.MaxBlurRadius),
		dof.WithLogger(v.log))
	if cfg.DOF.Enabled {
		_ = v.pipeline.Enable(cfg.Width, cfg.Height)
	}

	v.sched = frame.NewScheduler(&frame.Context{
		Device:   v.dev,
		Surface:  v.surface,
		Scene:    v.scene,
		Camera:   v.camera,
		Controls: v.controls,
		Pipeline: v.pipeline,
		Log:      v.log,
	})
	return v, nil
}

func openDevice(cfg Config) (render.Device, error) {
	var (
		dev render.Device
		err error
	)
	if cfg.Device == DeviceAuto {
		dev, err = render.OpenBestDevice(cfg.Width, cfg.Height)
	} else {
		dev, err = render.OpenDevice(cfg.Device, cfg.Width, cfg.Height)
	}
	if err != nil {
		return nil, fmt.Errorf("bokeh: open device %q: %w", cfg.Device, err)
	}
	return dev, nil
}

// Config returns the configuration the viewer was created with.
func (v *Viewer) Config() Config { return v.cfg }

// Device returns the render device.
func (v *Viewer) Device() render.Device { return v.dev }

// Surface returns the viewport.
func (v *Viewer) Surface() *surface.Surface { return v.surface }

// Scene returns the rendered scene.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Camera returns the camera.
func (v *Viewer) Camera() *scene.Camera { return v.camera }

// Controls returns the camera controls.
func (v *Viewer) Controls() controls.Controls { return v.controls }

// Pipeline returns the depth-of-field pipeline.
func (v *Viewer) Pipeline() *dof.Pipeline { return v.pipeline }

// Frames returns the number of completed ticks.
func (v *Viewer) Frames() uint64 { return v.sched.Frames() }

// Tick renders one frame after advancing the animation by dt.
func (v *Viewer) Tick(dt time.Duration) frame.Report {
	return v.sched.Tick(dt)
}

// Run ticks once per vsync notification until ctx is done or vsync is
// closed.
func (v *Viewer) Run(ctx context.Context, vsync <-chan time.Time) error {
	return v.sched.Run(ctx, vsync)
}

// Post requests a viewport resize, applied at the start of the next tick.
// Safe for concurrent use.
func (v *Viewer) Post(width, height int) error {
	return v.surface.Post(width, height)
}

// Resize applies a viewport resize immediately. Call it between ticks.
func (v *Viewer) Resize(width, height int) error {
	return v.surface.Resize(width, height)
}

// SetEffectEnabled enables the depth-of-field effect at the current
// viewport size, or disables it. The change takes effect at the next tick.
func (v *Viewer) SetEffectEnabled(on bool) error {
	if !on {
		v.pipeline.Disable()
		return nil
	}
	return v.pipeline.Enable(v.surface.Width(), v.surface.Height())
}

// Close releases the pipeline and, unless it was injected, the device.
// Safe to call more than once.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.pipeline.Disable()
	return v.closeDevice()
}

func (v *Viewer) closeDevice() error {
	if !v.ownsDevice {
		return nil
	}
	if err := v.dev.Close(); err != nil {
		return fmt.Errorf("bokeh: close device: %w", err)
	}
	return nil
}
