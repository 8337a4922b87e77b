// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements render.Device on top of gogpu/wgpu HAL.
//
// Every target, the screen included, is an RGBA8 texture usable as a render
// attachment and as a sampled texture. Passes are recorded one render pass
// per command buffer and Execute polls the queue until the submission
// completes, so the caller observes the same ordering as with the software
// device.
//
// Two pipelines are built at device creation:
//
//   - scene: a pass-through vertex layout of clip position and color. The
//     scene package shades triangles on the CPU; this package sorts them
//     back to front and uploads them as a vertex buffer.
//   - dof: a fullscreen triangle with the 9-tap depth-modulated blur. A
//     16-byte uniform carries the per-axis step, focus distance and maximum
//     blur radius.
//
// Tests run against the wgpu noop backend.
package gpu
