// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package controls

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/bokeh/scene"
)

func distance(c *scene.Camera) float32 {
	return c.Position.Sub(c.Target).Len()
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestTrackballScreen(t *testing.T) {
	tb := NewTrackball(scene.NewCamera(1), 800, 600)
	if got := tb.Radius(); got != 350 {
		t.Errorf("Radius() = %v, want 350", got)
	}
	tb.SetScreen(1024, 768)
	if w, h := tb.Screen(); w != 1024 || h != 768 {
		t.Errorf("Screen() = %dx%d, want 1024x768", w, h)
	}
	if got := tb.Radius(); got != 448 {
		t.Errorf("Radius() = %v, want 448", got)
	}
}

func TestTrackballIdleUpdate(t *testing.T) {
	cam := scene.NewCamera(1)
	before := cam.Position
	tb := NewTrackball(cam, 800, 600)
	for i := 0; i < 3; i++ {
		tb.Update()
	}
	if !cam.Position.ApproxEqual(before) {
		t.Errorf("Position = %v, want %v", cam.Position, before)
	}
}

func TestTrackballRotate(t *testing.T) {
	tests := []struct {
		name          string
		static        bool
		wantDampedPos bool
	}{
		{"dynamic", false, true},
		{"static", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := scene.NewCamera(1)
			d0 := distance(cam)
			start := cam.Position
			tb := NewTrackball(cam, 800, 600)
			tb.StaticMoving = tt.static

			tb.PointerDown(ButtonLeft, 400, 300)
			tb.PointerMove(500, 300)
			tb.PointerUp()
			tb.Update()

			if cam.Position.ApproxEqual(start) {
				t.Fatal("rotation did not move the camera")
			}
			if !near(distance(cam), d0) {
				t.Errorf("distance = %v, want %v", distance(cam), d0)
			}
			if cam.Target != (mgl32.Vec3{}) {
				t.Errorf("Target = %v, want origin", cam.Target)
			}

			afterDrag := cam.Position
			tb.Update()
			moved := !cam.Position.ApproxEqual(afterDrag)
			if moved != tt.wantDampedPos {
				t.Errorf("moved after release = %v, want %v", moved, tt.wantDampedPos)
			}
		})
	}
}

func TestTrackballDampingDecays(t *testing.T) {
	cam := scene.NewCamera(1)
	tb := NewTrackball(cam, 800, 600)
	tb.PointerDown(ButtonLeft, 400, 300)
	tb.PointerMove(500, 300)
	tb.PointerUp()
	tb.Update()

	prev := tb.lastAngle
	for i := 0; i < 5; i++ {
		tb.Update()
		if tb.lastAngle >= prev {
			t.Fatalf("step %d: lastAngle %v did not decay from %v", i, tb.lastAngle, prev)
		}
		prev = tb.lastAngle
	}
}

func TestTrackballWheel(t *testing.T) {
	tests := []struct {
		name    string
		delta   float32
		farther bool
	}{
		{"out", 100, true},
		{"in", -10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := scene.NewCamera(1)
			d0 := distance(cam)
			tb := NewTrackball(cam, 800, 600)
			tb.Wheel(tt.delta)
			tb.Update()
			if got := distance(cam) > d0; got != tt.farther {
				t.Errorf("distance %v -> %v, farther = %v, want %v", d0, distance(cam), got, tt.farther)
			}
		})
	}
}

func TestTrackballClampDistance(t *testing.T) {
	cam := scene.NewCamera(1)
	tb := NewTrackball(cam, 800, 600)
	tb.MaxDistance = 15
	tb.Wheel(1000)
	tb.Update()
	if got := distance(cam); !near(got, 15) {
		t.Errorf("distance = %v, want 15", got)
	}
}

func TestTrackballPan(t *testing.T) {
	cam := scene.NewCamera(1)
	eye := cam.Position.Sub(cam.Target)
	tb := NewTrackball(cam, 800, 600)
	tb.PointerDown(ButtonRight, 400, 300)
	tb.PointerMove(480, 300)
	tb.Update()

	if cam.Target == (mgl32.Vec3{}) {
		t.Fatal("pan did not move the target")
	}
	if got := cam.Position.Sub(cam.Target); !got.ApproxEqualThreshold(eye, 1e-4) {
		t.Errorf("eye = %v, want %v (pan keeps the offset)", got, eye)
	}
	if cam.Target.Y() != 0 || cam.Target.Z() != 0 {
		t.Errorf("Target = %v, want a pure sideways pan", cam.Target)
	}
}

func TestStatic(t *testing.T) {
	var c Controls = Static{}
	c.SetScreen(1, 1)
	c.Update()
}
