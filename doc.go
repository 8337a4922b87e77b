// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bokeh is a real-time 3D viewer with a depth-of-field post effect.
//
// # Overview
//
// A Viewer draws a scene through a camera every display refresh. When the
// depth-of-field effect is enabled each frame runs four passes: a depth
// pre-pass into an off-screen buffer, then the scene color pass, a
// horizontal blur and a vertical blur to the screen. The blur radius of each
// pixel follows its distance from the focus plane. When the effect is
// disabled, or any of its buffers cannot be allocated, the scene is rendered
// directly to the screen instead.
//
// # Quick Start
//
//	v, err := bokeh.NewViewer(bokeh.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	for range 60 {
//	    v.Tick(time.Second / 60)
//	}
//
// # Devices
//
// Rendering goes through a render.Device. The software device is always
// registered; importing github.com/gogpu/bokeh/gpu adds a wgpu HAL device
// that Config.Device "auto" prefers when a GPU is present.
//
// # Resizes
//
// Window systems report resizes from their own goroutine with Viewer.Post.
// The latest posted size is applied at the start of the next tick, before
// anything is rendered, so a frame never mixes buffer sizes.
//
// # Packages
//
//   - render: frame buffers, passes, the pass chain and devices
//   - dof: the depth-of-field pipeline
//   - frame: the per-tick scheduler
//   - scene: camera, meshes, materials and the demo scene
//   - surface: viewport size and resize notifications
//   - controls: trackball camera controls
package bokeh
