// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/bokeh/scene"
)

// Program selects what a pass computes.
type Program uint8

const (
	// ProgramScene draws a scene through a camera, optionally with a
	// material override.
	ProgramScene Program = iota

	// ProgramHorizontalDOF is the horizontal depth-of-field blur. Input 0 is
	// the color source, input 1 the depth buffer. Reads ParamH.
	ProgramHorizontalDOF

	// ProgramVerticalDOF is the vertical depth-of-field blur. Input 0 is the
	// color source, input 1 the depth buffer. Reads ParamV.
	ProgramVerticalDOF

	programCount
)

// String returns the program name.
func (p Program) String() string {
	switch p {
	case ProgramScene:
		return "Scene"
	case ProgramHorizontalDOF:
		return "HorizontalDOF"
	case ProgramVerticalDOF:
		return "VerticalDOF"
	default:
		return fmt.Sprintf("Program(%d)", p)
	}
}

// Blur parameter names.
const (
	// ParamH is the horizontal per-pixel step in UV units (1 / width).
	ParamH = "h"

	// ParamV is the vertical per-pixel step in UV units (1 / height).
	ParamV = "v"

	// ParamFocus is the in-focus depth, in depth-buffer units.
	ParamFocus = "focus"

	// ParamMaxBlur is the maximum circle of confusion in pixels.
	ParamMaxBlur = "maxblur"
)

// BlurWeights are the 9 symmetric tap weights of both blur programs, for tap
// offsets -4..4. They sum to 1.
var BlurWeights = [9]float32{0.051, 0.0918, 0.12245, 0.1531, 0.1633, 0.1531, 0.12245, 0.0918, 0.051}

// CircleOfConfusion returns the blur radius in pixels for a depth sample.
func CircleOfConfusion(depth, focus, maxBlur float32) float32 {
	d := depth - focus
	if d < 0 {
		d = -d
	}
	coc := d * maxBlur
	if coc < 0 {
		return 0
	}
	if coc > maxBlur {
		return maxBlur
	}
	return coc
}

// Params holds a pass's uniform values by name.
type Params map[string]float32

// Pass is one draw operation.
//
// A pass is a pure function of its chain input, Sources and Params. The
// chain never mutates a pass; owners update Params between frames.
type Pass struct {
	// Label names the pass in logs and errors.
	Label string

	Program Program
	Params  Params

	// Sources are extra inputs appended after the chain input.
	Sources []Target

	// Destination overrides the chain's write buffer for a non-terminal
	// pass. The chain does not swap after such a pass.
	Destination FrameBuffer

	// RenderToScreen marks the terminal pass.
	RenderToScreen bool

	// Clear clears the output to black before a scene draw.
	Clear bool

	// Scene and Camera are used by ProgramScene.
	Scene  *scene.Scene
	Camera *scene.Camera

	// Override replaces every node material for this pass only.
	Override *scene.Material
}

// Param returns the named parameter and whether it is set.
func (p *Pass) Param(name string) (float32, bool) {
	v, ok := p.Params[name]
	return v, ok
}

// SetParam sets a parameter, allocating Params on first use.
func (p *Pass) SetParam(name string, v float32) {
	if p.Params == nil {
		p.Params = make(Params)
	}
	p.Params[name] = v
}

// needsSwap reports whether the chain swaps its buffers after the pass.
func (p *Pass) needsSwap() bool {
	return !p.RenderToScreen && p.Destination == nil
}
