// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// RotationRate is the angular speed, in radians per second, applied to every
// animated node about its X and Y axes (0.01 rad per frame at 60 Hz).
const RotationRate = 0.6

// PointLight is an omnidirectional light with linear falloff to zero at
// Distance.
type PointLight struct {
	Position  mgl32.Vec3
	Color     Color
	Intensity float32
	Distance  float32
}

// Fog blends surfaces towards Color between Near and Far view depths.
type Fog struct {
	Color     Color
	Near, Far float32
}

// Vertex is a shaded vertex in clip space.
type Vertex struct {
	Clip  mgl32.Vec4
	Color Color
}

// Triangle is three shaded clip-space vertices.
type Triangle [3]Vertex

// Scene is a flat list of nodes plus lighting.
//
// Animated nodes are tagged explicitly with AddAnimated when the scene is
// built; Advance only touches that set.
type Scene struct {
	nodes    []*Node
	animated []*Node
	lights   []PointLight

	// Fog is optional; nil disables fog.
	Fog *Fog
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends a static node.
func (s *Scene) Add(n *Node) {
	s.nodes = append(s.nodes, n)
}

// AddAnimated appends a node and tags it for animation by Advance.
func (s *Scene) AddAnimated(n *Node) {
	s.nodes = append(s.nodes, n)
	s.animated = append(s.animated, n)
}

// AddLight appends a point light.
func (s *Scene) AddLight(l PointLight) {
	s.lights = append(s.lights, l)
}

// Nodes returns all nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Animated returns the nodes tagged for animation.
func (s *Scene) Animated() []*Node {
	return s.animated
}

// Lights returns the scene's point lights.
func (s *Scene) Lights() []PointLight {
	return s.lights
}

// Advance steps the time-based animation by dt.
func (s *Scene) Advance(dt time.Duration) {
	delta := float32(RotationRate * dt.Seconds())
	for _, n := range s.animated {
		n.Rotation[0] += delta
		n.Rotation[1] += delta
	}
}

// Triangles appends the scene's shaded triangles as seen by cam to dst and
// returns the extended slice.
//
// When override is non-nil every face is shaded with it instead of its node's
// material. The override only applies to this call.
func (s *Scene) Triangles(cam *Camera, override *Material, dst []Triangle) []Triangle {
	view := cam.View()
	viewProj := cam.ViewProjection()
	for _, n := range s.nodes {
		if n.Mesh == nil {
			continue
		}
		mat := n.Material
		if override != nil {
			mat = override
		}
		if mat == nil {
			continue
		}
		model := n.Matrix()
		normalMat := model.Mat3().Inv().Transpose()
		mvp := viewProj.Mul4(model)
		mv := view.Mul4(model)
		for _, f := range n.Mesh.Faces {
			normal := normalMat.Mul3x1(f.Normal).Normalize()
			var tri Triangle
			for k, idx := range f.Indices {
				p := n.Mesh.Positions[idx].Vec4(1)
				world := model.Mul4x1(p).Vec3()
				depth := -mv.Mul4x1(p).Z()
				tri[k] = Vertex{
					Clip:  mvp.Mul4x1(p),
					Color: s.shade(cam, mat, f.Alt, world, normal, depth),
				}
			}
			dst = append(dst, tri)
		}
	}
	return dst
}

func (s *Scene) shade(cam *Camera, m *Material, alt bool, world, normal mgl32.Vec3, depth float32) Color {
	switch m.Shading {
	case ShadingDepth:
		d := 1 - smoothstep(cam.Near, cam.Far, depth)
		return Color{d, d, d, 1}
	case ShadingLambert:
		base := m.faceColor(alt)
		var lit [3]float32
		for _, l := range s.lights {
			toLight := l.Position.Sub(world)
			dist := toLight.Len()
			if dist == 0 {
				continue
			}
			atten := float32(1)
			if l.Distance > 0 {
				atten = clamp01(1 - dist/l.Distance)
			}
			diffuse := normal.Dot(toLight.Mul(1/dist))
			if diffuse <= 0 {
				continue
			}
			k := diffuse * atten * l.Intensity
			lit[0] += k * l.Color[0]
			lit[1] += k * l.Color[1]
			lit[2] += k * l.Color[2]
		}
		c := Color{base[0] * lit[0], base[1] * lit[1], base[2] * lit[2], base[3]}
		return s.fog(clampColor(c), depth)
	default:
		return s.fog(m.faceColor(alt), depth)
	}
}

func (s *Scene) fog(c Color, depth float32) Color {
	if s.Fog == nil {
		return c
	}
	f := smoothstep(s.Fog.Near, s.Fog.Far, depth)
	for i := 0; i < 3; i++ {
		c[i] += (s.Fog.Color[i] - c[i]) * f
	}
	return c
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clampColor(c Color) Color {
	for i := range c {
		c[i] = clamp01(c[i])
	}
	return c
}
