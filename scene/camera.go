// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Default camera parameters.
const (
	// DefaultFOV is the vertical field of view in degrees.
	DefaultFOV = 45

	// DefaultNear is the near clip plane distance.
	DefaultNear = 1

	// DefaultFar is the far clip plane distance.
	DefaultFar = 200
)

// Camera is a perspective camera.
//
// The projection is recomputed by SetAspect and UpdateProjection. The pose
// (Position, Target, Up) is read on every frame and may be mutated freely by
// camera controls between frames.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32

	// Near and Far are the clip plane distances.
	Near, Far float32

	// Position is the eye location in world space.
	Position mgl32.Vec3

	// Target is the point the camera looks at.
	Target mgl32.Vec3

	// Up is the camera up direction.
	Up mgl32.Vec3

	aspect     float32
	projection mgl32.Mat4
}

// NewCamera creates a camera with the default projection parameters, placed
// at (0, 5, 10) and looking at the origin.
func NewCamera(aspect float32) *Camera {
	c := &Camera{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: mgl32.Vec3{0, 5, 10},
		Up:       mgl32.Vec3{0, 1, 0},
		aspect:   aspect,
	}
	c.UpdateProjection()
	return c
}

// Aspect returns the projection aspect ratio (width / height).
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// SetAspect sets the aspect ratio and recomputes the projection matrix.
func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.UpdateProjection()
}

// UpdateProjection recomputes the projection matrix from FOV, aspect and the
// clip planes. Call it after changing FOV, Near or Far directly.
func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.aspect, c.Near, c.Far)
}

// Projection returns the current projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// View returns the world-to-camera matrix for the current pose.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}

// LookAt points the camera at target, keeping the current position and up.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}
