// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/bokeh/scene"
)

// Trackball defaults.
const (
	DefaultRotateSpeed   = 1.0
	DefaultZoomSpeed     = 1.2
	DefaultPanSpeed      = 1.0
	DefaultDampingFactor = 0.3

	// wheelScale converts one wheel unit into a zoom step.
	wheelScale = 0.01
)

type state uint8

const (
	stateNone state = iota
	stateRotate
	stateZoom
	statePan
)

// Trackball rotates the camera around its target by dragging on a virtual
// sphere, zooms with the wheel or a middle drag and pans with a right drag.
//
// Motion continues after the pointer is released and decays with
// DampingFactor, unless StaticMoving is set.
type Trackball struct {
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	DampingFactor float32
	StaticMoving  bool

	// MinDistance and MaxDistance bound the eye distance. Zero MaxDistance
	// means unbounded.
	MinDistance, MaxDistance float32

	cam    *scene.Camera
	width  float32
	height float32
	radius float32

	state     state
	moveCurr  mgl32.Vec2
	movePrev  mgl32.Vec2
	zoomStart mgl32.Vec2
	zoomEnd   mgl32.Vec2
	panStart  mgl32.Vec2
	panEnd    mgl32.Vec2

	lastAxis  mgl32.Vec3
	lastAngle float32
}

var _ Controls = (*Trackball)(nil)

// NewTrackball returns trackball controls for cam over a width x height
// viewport.
func NewTrackball(cam *scene.Camera, width, height int) *Trackball {
	t := &Trackball{
		RotateSpeed:   DefaultRotateSpeed,
		ZoomSpeed:     DefaultZoomSpeed,
		PanSpeed:      DefaultPanSpeed,
		DampingFactor: DefaultDampingFactor,
		cam:           cam,
	}
	t.SetScreen(width, height)
	return t
}

// SetScreen records the viewport size; the trackball radius is
// (width + height) / 4.
func (t *Trackball) SetScreen(width, height int) {
	t.width = float32(width)
	t.height = float32(height)
	t.radius = (t.width + t.height) / 4
}

// Screen returns the viewport size last given to SetScreen.
func (t *Trackball) Screen() (width, height int) {
	return int(t.width), int(t.height)
}

// Radius returns the virtual trackball radius in pixels.
func (t *Trackball) Radius() float32 {
	return t.radius
}

// PointerDown starts a drag at (x, y) in pixels, origin top-left.
func (t *Trackball) PointerDown(b Button, x, y float32) {
	switch b {
	case ButtonLeft:
		t.state = stateRotate
		t.moveCurr = t.onCircle(x, y)
		t.movePrev = t.moveCurr
	case ButtonMiddle:
		t.state = stateZoom
		t.zoomStart = t.onScreen(x, y)
		t.zoomEnd = t.zoomStart
	case ButtonRight:
		t.state = statePan
		t.panStart = t.onScreen(x, y)
		t.panEnd = t.panStart
	}
}

// PointerMove continues the current drag.
func (t *Trackball) PointerMove(x, y float32) {
	switch t.state {
	case stateRotate:
		t.movePrev = t.moveCurr
		t.moveCurr = t.onCircle(x, y)
	case stateZoom:
		t.zoomEnd = t.onScreen(x, y)
	case statePan:
		t.panEnd = t.onScreen(x, y)
	}
}

// PointerUp ends the current drag.
func (t *Trackball) PointerUp() {
	t.state = stateNone
}

// Wheel zooms by delta wheel units; positive zooms out.
func (t *Trackball) Wheel(delta float32) {
	t.zoomStart[1] -= delta * wheelScale
}

func (t *Trackball) onScreen(x, y float32) mgl32.Vec2 {
	if t.width == 0 || t.height == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{x / t.width, y / t.height}
}

func (t *Trackball) onCircle(x, y float32) mgl32.Vec2 {
	if t.width == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		(x - t.width*0.5) / (t.width * 0.5),
		(t.height - 2*y) / t.width,
	}
}

// Update applies rotation, zoom and pan to the camera pose.
func (t *Trackball) Update() {
	eye := t.cam.Position.Sub(t.cam.Target)

	eye = t.rotate(eye)
	eye = t.zoom(eye)
	t.pan(eye)

	eye = t.clampDistance(eye)
	t.cam.Position = t.cam.Target.Add(eye)
}

func (t *Trackball) rotate(eye mgl32.Vec3) mgl32.Vec3 {
	move := mgl32.Vec3{t.moveCurr[0] - t.movePrev[0], t.moveCurr[1] - t.movePrev[1], 0}
	angle := move.Len()

	switch {
	case angle > 0:
		eyeDir := eye.Normalize()
		up := t.cam.Up.Normalize()
		side := up.Cross(eyeDir).Normalize()
		dir := up.Mul(move[1]).Add(side.Mul(move[0]))
		axis := dir.Cross(eye)
		if axis.Len() == 0 {
			break
		}
		axis = axis.Normalize()
		angle *= t.RotateSpeed
		q := mgl32.QuatRotate(angle, axis)
		eye = q.Rotate(eye)
		t.cam.Up = q.Rotate(t.cam.Up)
		t.lastAxis = axis
		t.lastAngle = angle
	case !t.StaticMoving && t.lastAngle != 0:
		t.lastAngle *= float32(math.Sqrt(float64(1 - t.DampingFactor)))
		q := mgl32.QuatRotate(t.lastAngle, t.lastAxis)
		eye = q.Rotate(eye)
		t.cam.Up = q.Rotate(t.cam.Up)
	}
	t.movePrev = t.moveCurr
	return eye
}

func (t *Trackball) zoom(eye mgl32.Vec3) mgl32.Vec3 {
	factor := 1 + (t.zoomEnd[1]-t.zoomStart[1])*t.ZoomSpeed
	if factor != 1 && factor > 0 {
		eye = eye.Mul(factor)
	}
	if t.StaticMoving {
		t.zoomStart = t.zoomEnd
	} else {
		t.zoomStart[1] += (t.zoomEnd[1] - t.zoomStart[1]) * t.DampingFactor
	}
	return eye
}

func (t *Trackball) pan(eye mgl32.Vec3) {
	change := t.panEnd.Sub(t.panStart)
	if change.Len() == 0 {
		return
	}
	change = change.Mul(eye.Len() * t.PanSpeed)
	side := eye.Cross(t.cam.Up)
	if side.Len() == 0 {
		return
	}
	offset := side.Normalize().Mul(change[0]).Add(t.cam.Up.Normalize().Mul(change[1]))
	t.cam.Position = t.cam.Position.Add(offset)
	t.cam.Target = t.cam.Target.Add(offset)

	if t.StaticMoving {
		t.panStart = t.panEnd
	} else {
		t.panStart = t.panStart.Add(t.panEnd.Sub(t.panStart).Mul(t.DampingFactor))
	}
}

func (t *Trackball) clampDistance(eye mgl32.Vec3) mgl32.Vec3 {
	d := eye.Len()
	switch {
	case d == 0:
		return eye
	case t.MaxDistance > 0 && d > t.MaxDistance:
		return eye.Mul(t.MaxDistance / d)
	case d < t.MinDistance:
		return eye.Mul(t.MinDistance / d)
	}
	return eye
}
