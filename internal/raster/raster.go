// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides a depth-tested triangle rasterizer for clip-space
// geometry produced by the scene package.
package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/bokeh/scene"
)

// Rasterizer draws shaded clip-space triangles into a float RGBA buffer.
//
// The depth buffer is owned by the rasterizer and grows lazily. A Rasterizer
// is not safe for concurrent use.
type Rasterizer struct {
	width, height int
	depth         []float32

	// scratch for near-plane clipping
	poly, tmp []scene.Vertex
}

// New returns an empty rasterizer.
func New() *Rasterizer {
	return &Rasterizer{}
}

// Begin prepares the depth buffer for a width x height target and clears it.
func (r *Rasterizer) Begin(width, height int) {
	r.width, r.height = width, height
	n := width * height
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = math.MaxFloat32
	}
}

// Draw rasterizes tris into dst, an RGBA buffer of 4 floats per pixel with
// row 0 at the top. Fragments pass when their depth is less than the stored
// depth. Triangles are drawn regardless of winding.
func (r *Rasterizer) Draw(dst []float32, tris []scene.Triangle) {
	if r.width == 0 || r.height == 0 || len(dst) < r.width*r.height*4 {
		return
	}
	for i := range tris {
		r.poly = append(r.poly[:0], tris[i][:]...)
		r.clipNear()
		if len(r.poly) < 3 {
			continue
		}
		var sv [8]screenVertex
		n := 0
		for _, v := range r.poly {
			if n == len(sv) {
				break
			}
			sv[n] = r.toScreen(v)
			n++
		}
		for k := 1; k+1 < n; k++ {
			r.fill(dst, sv[0], sv[k], sv[k+1])
		}
	}
}

// clipNear clips r.poly against the near plane z + w >= 0
// (Sutherland-Hodgman with a single plane).
func (r *Rasterizer) clipNear() {
	in := r.poly
	out := r.tmp[:0]
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da := a.Clip.Z() + a.Clip.W()
		db := b.Clip.Z() + b.Clip.W()
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, lerpVertex(a, b, t))
		}
	}
	r.tmp = in
	r.poly = out
}

func lerpVertex(a, b scene.Vertex, t float32) scene.Vertex {
	var c scene.Color
	for i := range c {
		c[i] = a.Color[i] + (b.Color[i]-a.Color[i])*t
	}
	return scene.Vertex{
		Clip:  a.Clip.Add(b.Clip.Sub(a.Clip).Mul(t)),
		Color: c,
	}
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	color   scene.Color // premultiplied by invW
}

func (r *Rasterizer) toScreen(v scene.Vertex) screenVertex {
	w := v.Clip.W()
	if w <= 0 {
		w = 1e-6
	}
	invW := 1 / w
	ndc := mgl32.Vec3{v.Clip.X() * invW, v.Clip.Y() * invW, v.Clip.Z() * invW}
	sv := screenVertex{
		x:    (ndc.X()*0.5 + 0.5) * float32(r.width),
		y:    (0.5 - ndc.Y()*0.5) * float32(r.height),
		z:    ndc.Z(),
		invW: invW,
	}
	for i := range sv.color {
		sv.color[i] = v.Color[i] * invW
	}
	return sv
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (r *Rasterizer) fill(dst []float32, a, b, c screenVertex) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := clampInt(int(math.Floor(float64(min3(a.x, b.x, c.x)))), 0, r.width-1)
	maxX := clampInt(int(math.Ceil(float64(max3(a.x, b.x, c.x)))), 0, r.width-1)
	minY := clampInt(int(math.Floor(float64(min3(a.y, b.y, c.y)))), 0, r.height-1)
	maxY := clampInt(int(math.Ceil(float64(max3(a.y, b.y, c.y)))), 0, r.height-1)

	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, c, px, py)
			w1 := edge(c, a, px, py)
			w2 := edge(a, b, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			w0, w1, w2 = w0*inv, w1*inv, w2*inv

			z := w0*a.z + w1*b.z + w2*c.z
			if z < -1 || z > 1 {
				continue
			}
			di := y*r.width + x
			if z >= r.depth[di] {
				continue
			}
			r.depth[di] = z

			invW := w0*a.invW + w1*b.invW + w2*c.invW
			p := di * 4
			for i := 0; i < 4; i++ {
				dst[p+i] = (w0*a.color[i] + w1*b.color[i] + w2*c.color[i]) / invW
			}
		}
	}
}

func min3(a, b, c float32) float32 {
	return min(a, min(b, c))
}

func max3(a, b, c float32) float32 {
	return max(a, max(b, c))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
