// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bokeh

import (
	"log/slog"

	"github.com/gogpu/bokeh/controls"
	"github.com/gogpu/bokeh/render"
	"github.com/gogpu/bokeh/scene"
)

// Option configures a Viewer during creation.
//
// Example:
//
//	// Default: best available device, demo scene, trackball controls
//	v, err := bokeh.NewViewer(bokeh.DefaultConfig())
//
//	// Injected device and scene
//	dev := render.NewSoftwareDevice(320, 240)
//	v, err := bokeh.NewViewer(cfg, bokeh.WithDevice(dev), bokeh.WithScene(s))
type Option func(*viewerOptions)

// viewerOptions holds optional configuration for Viewer creation.
type viewerOptions struct {
	device   render.Device
	scene    *scene.Scene
	controls controls.Controls
	logger   *slog.Logger
}

// WithDevice sets the render device instead of opening one from
// Config.Device. The viewer does not close an injected device.
func WithDevice(d render.Device) Option {
	return func(o *viewerOptions) {
		o.device = d
	}
}

// WithScene sets the scene instead of the demo scene.
func WithScene(s *scene.Scene) Option {
	return func(o *viewerOptions) {
		o.scene = s
	}
}

// WithControls sets the camera controls instead of a trackball. Use
// controls.Static{} for a fixed camera.
func WithControls(c controls.Controls) Option {
	return func(o *viewerOptions) {
		o.controls = c
	}
}

// WithLogger sets the viewer logger instead of Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *viewerOptions) {
		o.logger = l
	}
}
