// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Demo layout constants.
const (
	demoGroundSize  = 440
	demoGroundCells = 88
	demoCubeSize    = 2.5
	demoFogNear     = 10
	demoFogFar      = 200
)

// NewDemo builds the default viewer content: two point lights, a checker
// ground, a grid of red cubes spaced 10 units apart (x in [-80, 80],
// z in [-200, 0]) that rotate over time, and black linear fog.
func NewDemo() *Scene {
	s := New()

	s.AddLight(PointLight{
		Position:  mgl32.Vec3{15, 20, 10},
		Color:     RGB(0xFFFFFF),
		Intensity: 0.8,
		Distance:  1000,
	})
	s.AddLight(PointLight{
		Position:  mgl32.Vec3{-10, 10, -15},
		Color:     RGB(0xFFFFFF),
		Intensity: 0.2,
		Distance:  1000,
	})

	ground := NewNode("ground", NewCheckerPlane(demoGroundSize, demoGroundCells), &Material{
		Shading:  ShadingBasic,
		Color:    RGB(0xCCCCCC),
		AltColor: RGB(0xFFFFFF),
	})
	s.Add(ground)

	cube := NewCube(demoCubeSize)
	red := &Material{Shading: ShadingLambert, Color: RGB(0xFF0000)}
	for x := -80; x <= 80; x += 10 {
		for z := -200; z <= 0; z += 10 {
			n := NewNode("cube", cube, red)
			n.Position = mgl32.Vec3{float32(x), 1, float32(z)}
			s.AddAnimated(n)
		}
	}

	s.Fog = &Fog{Color: Color{0, 0, 0, 1}, Near: demoFogNear, Far: demoFogFar}
	return s
}
