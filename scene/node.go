// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a mesh instance placed in the scene.
type Node struct {
	Name     string
	Mesh     *Mesh
	Material *Material

	Position mgl32.Vec3

	// Rotation holds Euler angles in radians, applied in X, Y, Z order.
	Rotation mgl32.Vec3

	Scale mgl32.Vec3
}

// NewNode returns a node with unit scale at the origin.
func NewNode(name string, mesh *Mesh, mat *Material) *Node {
	return &Node{
		Name:     name,
		Mesh:     mesh,
		Material: mat,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the node's model-to-world matrix.
func (n *Node) Matrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := mgl32.HomogRotate3DX(n.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(n.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation.Z()))
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}
