// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"fmt"
)

// Shading selects how a Material computes surface color.
type Shading uint8

const (
	// ShadingBasic is unlit: the surface color is used as is.
	ShadingBasic Shading = iota

	// ShadingLambert is diffuse lighting from the scene's point lights.
	ShadingLambert

	// ShadingDepth writes 1 - smoothstep(near, far, viewDepth) to every
	// color channel. Used as a global override for the depth pre-pass.
	ShadingDepth
)

// String returns the shading name.
func (s Shading) String() string {
	switch s {
	case ShadingBasic:
		return "Basic"
	case ShadingLambert:
		return "Lambert"
	case ShadingDepth:
		return "Depth"
	default:
		return fmt.Sprintf("Shading(%d)", s)
	}
}

// Color is a linear RGBA color with components in [0, 1].
type Color [4]float32

// RGB returns an opaque color from 0xRRGGBB.
func RGB(hex uint32) Color {
	return Color{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
		1,
	}
}

// Material describes how a node's faces are shaded.
type Material struct {
	Shading Shading

	// Color is the base surface color.
	Color Color

	// AltColor is used for faces flagged Alt. Zero means Color.
	AltColor Color
}

// DepthMaterial is the depth-only override used by the depth pre-pass.
var DepthMaterial = &Material{Shading: ShadingDepth}

func (m *Material) faceColor(alt bool) Color {
	if alt && m.AltColor != (Color{}) {
		return m.AltColor
	}
	return m.Color
}
