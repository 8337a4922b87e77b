// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the post-processing building blocks of bokeh:
// off-screen frame buffers, render passes and the pass chain that runs them.
//
// # Core Interfaces
//
//   - Device: allocates FrameBuffers and executes passes on a backend
//   - Target: anything a pass can read from or write to (screen or FrameBuffer)
//   - FrameBuffer: an off-screen color buffer that can be reallocated
//
// # Devices
//
//   - SoftwareDevice: CPU execution of every Program on float RGBA buffers
//   - gpu.Device (package gpu): wgpu HAL execution
//
// # Chains
//
// A Chain is a fixed, validated list of passes. Exactly one pass renders to
// the screen and it is the last one. Intermediate passes write to a pair of
// ping-pong buffers owned by the chain:
//
//	chain, err := render.NewChain(dev, 800, 600, []*render.Pass{
//	    {Label: "scene", Program: render.ProgramScene, Scene: s, Camera: cam, Clear: true},
//	    {Label: "blur", Program: render.ProgramHorizontalDOF, Params: params, RenderToScreen: true},
//	})
//	if err != nil {
//	    return err
//	}
//	defer chain.Release()
//	err = chain.Run(delta)
//
// DeviceHandle lets a host application (such as gogpu) supply the GPU device
// instead of bokeh creating one.
package render
