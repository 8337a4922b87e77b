// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face is one triangle of a Mesh.
type Face struct {
	// Indices into Mesh.Positions, counter-clockwise when seen from outside.
	Indices [3]uint32

	// Normal is the flat face normal in model space.
	Normal mgl32.Vec3

	// Alt selects the material's alternate color (used for checker patterns).
	Alt bool
}

// Mesh is flat-shaded triangle geometry.
type Mesh struct {
	Positions []mgl32.Vec3
	Faces     []Face
}

// quad appends two faces covering the quad a, b, c, d (counter-clockwise).
func (m *Mesh) quad(a, b, c, d mgl32.Vec3, alt bool) {
	base := uint32(len(m.Positions)) //nolint:gosec // mesh sizes fit uint32
	m.Positions = append(m.Positions, a, b, c, d)
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	m.Faces = append(m.Faces,
		Face{Indices: [3]uint32{base, base + 1, base + 2}, Normal: n, Alt: alt},
		Face{Indices: [3]uint32{base, base + 2, base + 3}, Normal: n, Alt: alt},
	)
}

// NewCube returns an axis-aligned cube with the given edge length, centered
// on the origin.
func NewCube(size float32) *Mesh {
	h := size / 2
	m := &Mesh{}
	// +X, -X, +Y, -Y, +Z, -Z
	m.quad(mgl32.Vec3{h, -h, h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{h, h, h}, false)
	m.quad(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{-h, -h, h}, mgl32.Vec3{-h, h, h}, mgl32.Vec3{-h, h, -h}, false)
	m.quad(mgl32.Vec3{-h, h, h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{-h, h, -h}, false)
	m.quad(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{-h, -h, h}, false)
	m.quad(mgl32.Vec3{-h, -h, h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{-h, h, h}, false)
	m.quad(mgl32.Vec3{h, -h, -h}, mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{-h, h, -h}, mgl32.Vec3{h, h, -h}, false)
	return m
}

// NewCheckerPlane returns a square plane in the XZ plane, facing +Y, split
// into cells x cells squares whose faces alternate between the material's
// primary and alternate colors.
func NewCheckerPlane(size float32, cells int) *Mesh {
	if cells < 1 {
		cells = 1
	}
	m := &Mesh{}
	step := size / float32(cells)
	origin := -size / 2
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			x0 := origin + float32(i)*step
			z0 := origin + float32(j)*step
			x1, z1 := x0+step, z0+step
			m.quad(
				mgl32.Vec3{x0, 0, z1},
				mgl32.Vec3{x1, 0, z1},
				mgl32.Vec3{x1, 0, z0},
				mgl32.Vec3{x0, 0, z0},
				(i+j)%2 == 1,
			)
		}
	}
	return m
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}
