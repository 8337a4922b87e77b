// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCube(t *testing.T) {
	m := NewCube(2)
	if got := m.TriangleCount(); got != 12 {
		t.Fatalf("TriangleCount() = %d, want 12", got)
	}
	for i, f := range m.Faces {
		var centroid mgl32.Vec3
		for _, idx := range f.Indices {
			centroid = centroid.Add(m.Positions[idx])
		}
		centroid = centroid.Mul(1.0 / 3)
		if f.Normal.Dot(centroid) <= 0 {
			t.Errorf("face %d normal %v points inward", i, f.Normal)
		}
		if l := f.Normal.Len(); math.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("face %d normal length = %v, want 1", i, l)
		}
	}
}

func TestNewCheckerPlane(t *testing.T) {
	tests := []struct {
		name  string
		cells int
		want  int
	}{
		{"single", 1, 2},
		{"four", 4, 32},
		{"clamped", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCheckerPlane(10, tt.cells)
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
			for i, f := range m.Faces {
				if f.Normal.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
					continue
				}
				t.Errorf("face %d normal = %v, want +Y", i, f.Normal)
			}
		})
	}
}

func TestCheckerPlaneAlternates(t *testing.T) {
	m := NewCheckerPlane(10, 2)
	// Two faces per cell; cells (0,0) (0,1) (1,0) (1,1).
	want := []bool{false, true, true, false}
	for cell, alt := range want {
		if got := m.Faces[cell*2].Alt; got != alt {
			t.Errorf("cell %d Alt = %v, want %v", cell, got, alt)
		}
	}
}

func TestMaterialFaceColor(t *testing.T) {
	m := &Material{Color: RGB(0xCCCCCC), AltColor: RGB(0xFFFFFF)}
	if got := m.faceColor(true); got != RGB(0xFFFFFF) {
		t.Errorf("faceColor(true) = %v, want white", got)
	}
	plain := &Material{Color: RGB(0xFF0000)}
	if got := plain.faceColor(true); got != RGB(0xFF0000) {
		t.Errorf("faceColor(true) without AltColor = %v, want Color", got)
	}
}

func TestShadingString(t *testing.T) {
	tests := []struct {
		s    Shading
		want string
	}{
		{ShadingBasic, "Basic"},
		{ShadingLambert, "Lambert"},
		{ShadingDepth, "Depth"},
		{Shading(9), "Shading(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera(1)
	before := c.Projection()
	c.SetAspect(2)
	if c.Aspect() != 2 {
		t.Errorf("Aspect() = %v, want 2", c.Aspect())
	}
	after := c.Projection()
	if before == after {
		t.Error("projection unchanged after SetAspect")
	}
	// Horizontal scale is f/aspect, vertical scale stays f.
	if math.Abs(float64(after[0]*2-before[0])) > 1e-5 {
		t.Errorf("x scale = %v, want %v", after[0], before[0]/2)
	}
	if after[5] != before[5] {
		t.Errorf("y scale = %v, want %v", after[5], before[5])
	}
}

func TestAdvanceOnlyAnimated(t *testing.T) {
	s := New()
	static := NewNode("static", NewCube(1), &Material{})
	spin := NewNode("spin", NewCube(1), &Material{})
	s.Add(static)
	s.AddAnimated(spin)

	s.Advance(time.Second)

	if static.Rotation != (mgl32.Vec3{}) {
		t.Errorf("static rotation = %v, want zero", static.Rotation)
	}
	want := float32(RotationRate)
	if spin.Rotation.X() != want || spin.Rotation.Y() != want || spin.Rotation.Z() != 0 {
		t.Errorf("animated rotation = %v, want (%v, %v, 0)", spin.Rotation, want, want)
	}
	if len(s.Nodes()) != 2 || len(s.Animated()) != 1 {
		t.Errorf("Nodes() = %d, Animated() = %d, want 2, 1", len(s.Nodes()), len(s.Animated()))
	}
}

func TestTrianglesCount(t *testing.T) {
	s := New()
	s.Add(NewNode("a", NewCube(1), &Material{Color: RGB(0xFF0000)}))
	s.Add(NewNode("b", NewCheckerPlane(4, 2), &Material{Color: RGB(0x00FF00)}))
	s.Add(NewNode("empty", nil, &Material{}))

	got := s.Triangles(NewCamera(1), nil, nil)
	if len(got) != 12+8 {
		t.Errorf("len(Triangles) = %d, want 20", len(got))
	}

	// dst is appended to, not replaced.
	again := s.Triangles(NewCamera(1), nil, got)
	if len(again) != 40 {
		t.Errorf("len(Triangles(dst)) = %d, want 40", len(again))
	}
}

func TestTrianglesDepthOverride(t *testing.T) {
	s := New()
	near := NewNode("near", NewCube(1), &Material{Shading: ShadingBasic, Color: RGB(0xFF0000)})
	far := NewNode("far", NewCube(1), &Material{Shading: ShadingBasic, Color: RGB(0xFF0000)})
	far.Position = mgl32.Vec3{0, 0, -100}
	s.Add(near)
	s.Add(far)
	cam := NewCamera(1)

	tris := s.Triangles(cam, DepthMaterial, nil)
	nearDepth := tris[0][0].Color[0]
	farDepth := tris[12][0].Color[0]
	if nearDepth <= farDepth {
		t.Errorf("near depth %v <= far depth %v, want near brighter", nearDepth, farDepth)
	}
	if nearDepth > 1 || farDepth < 0 {
		t.Errorf("depth out of range: near %v far %v", nearDepth, farDepth)
	}
	for i, tri := range tris {
		c := tri[0].Color
		if c[0] != c[1] || c[1] != c[2] || c[3] != 1 {
			t.Errorf("triangle %d depth color = %v, want grey opaque", i, c)
			break
		}
	}

	// The override is call-scoped: materials come back afterwards.
	plain := s.Triangles(cam, nil, nil)
	if plain[0][0].Color != RGB(0xFF0000) {
		t.Errorf("color after override = %v, want red", plain[0][0].Color)
	}
}

func TestTrianglesLambert(t *testing.T) {
	s := New()
	s.AddLight(PointLight{Position: mgl32.Vec3{0, 10, 0}, Color: RGB(0xFFFFFF), Intensity: 1, Distance: 1000})
	s.Add(NewNode("cube", NewCube(2), &Material{Shading: ShadingLambert, Color: RGB(0xFF0000)}))

	tris := s.Triangles(NewCamera(1), nil, nil)
	// Faces are emitted +X, -X, +Y, -Y, +Z, -Z, two triangles each.
	top := tris[4][0].Color
	bottom := tris[6][0].Color
	if top[0] <= 0 || top[1] != 0 || top[2] != 0 {
		t.Errorf("top face color = %v, want lit red", top)
	}
	if bottom[0] != 0 {
		t.Errorf("bottom face color = %v, want unlit", bottom)
	}
}

func TestTrianglesFog(t *testing.T) {
	s := New()
	s.Fog = &Fog{Color: Color{0, 0, 0, 1}, Near: 10, Far: 200}
	near := NewNode("near", NewCube(1), &Material{Color: RGB(0xFFFFFF)})
	far := NewNode("far", NewCube(1), &Material{Color: RGB(0xFFFFFF)})
	far.Position = mgl32.Vec3{0, 0, -150}
	s.Add(near)
	s.Add(far)

	tris := s.Triangles(NewCamera(1), nil, nil)
	if n, f := tris[0][0].Color[0], tris[12][0].Color[0]; f >= n {
		t.Errorf("far color %v >= near color %v, want fogged", f, n)
	}
}

func TestNewDemo(t *testing.T) {
	s := NewDemo()
	if got := len(s.Animated()); got != 17*21 {
		t.Errorf("animated cubes = %d, want %d", got, 17*21)
	}
	if got := len(s.Nodes()); got != 17*21+1 {
		t.Errorf("nodes = %d, want %d", got, 17*21+1)
	}
	if got := len(s.Lights()); got != 2 {
		t.Errorf("lights = %d, want 2", got)
	}
	if s.Fog == nil || s.Fog.Near != 10 || s.Fog.Far != 200 {
		t.Errorf("Fog = %+v, want 10..200", s.Fog)
	}
	for _, n := range s.Animated() {
		if n.Position.Y() != 1 {
			t.Errorf("cube %v y = %v, want 1", n.Position, n.Position.Y())
			break
		}
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := smoothstep(0, 1, tt.x); got != tt.want {
			t.Errorf("smoothstep(0, 1, %v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
