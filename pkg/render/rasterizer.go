// Package render implements the mazevr software rendering pipeline: back-face
// culling, camera transform, near-plane clipping, projection and scanline
// rasterization with a depth buffer and perspective-correct texturing.
package render

import (
	"math"
)

// spanEpsilon keeps degenerate spans from dividing by zero.
const spanEpsilon = 1e-4

// Rasterizer scan-converts screen triangles into a framebuffer. It borrows
// the framebuffer, depth buffer and texture table for the duration of a pass
// and never clears them.
type Rasterizer struct {
	fb       *Framebuffer
	depth    *DepthBuffer
	textures *TextureTable
	near     float64
}

// NewRasterizer creates a rasterizer over fb and depth, which must have the
// same dimensions. near must match the Projector that produced the
// triangles. textures may be nil when every triangle is flat colored.
func NewRasterizer(fb *Framebuffer, depth *DepthBuffer, textures *TextureTable, near float64) *Rasterizer {
	return &Rasterizer{
		fb:       fb,
		depth:    depth,
		textures: textures,
		near:     near,
	}
}

// Width returns the target width.
func (r *Rasterizer) Width() int {
	return r.fb.Width
}

// Height returns the target height.
func (r *Rasterizer) Height() int {
	return r.fb.Height
}

// DrawTriangle fills a screen triangle. A pixel is written only when its
// interpolated W is greater than the stored depth. Textured pixels with zero
// alpha are skipped without touching the depth buffer.
func (r *Rasterizer) DrawTriangle(st ScreenTriangle) {
	var tex *Texture
	if st.Texture < MaxTextures {
		tex = r.textures[st.Texture]
	}

	// Sort vertices vertically so a.Y <= b.Y <= c.Y
	a, b, c := st.V[0], st.V[1], st.V[2]
	if a.Y > b.Y {
		a, b = b, a
	}
	if b.Y > c.Y {
		b, c = c, b
	}
	if a.Y > b.Y {
		a, b = b, a
	}

	maxY := float64(r.fb.Height - 1)

	if b.Y > a.Y {
		// Scan lines between the edges a->b and a->c
		for y := int(math.Max(a.Y, 0)); float64(y) <= math.Min(b.Y, maxY); y++ {
			fy := math.Max(float64(y), a.Y) - a.Y
			left := edgeAt(a, b, fy/(b.Y-a.Y))
			right := edgeAt(a, c, fy/(c.Y-a.Y))
			r.span(y, left, right, st.Color, tex)
		}
	}
	if c.Y > b.Y {
		// Scan lines between the edges a->c and b->c
		for y := int(math.Max(b.Y, 0)); float64(y) <= math.Min(c.Y, maxY); y++ {
			fy := math.Max(float64(y), b.Y)
			left := edgeAt(a, c, (fy-a.Y)/(c.Y-a.Y))
			right := edgeAt(b, c, (fy-b.Y)/(c.Y-b.Y))
			r.span(y, left, right, st.Color, tex)
		}
	}
}

// edgeAt interpolates every attribute along p->q.
func edgeAt(p, q ScreenVertex, t float64) ScreenVertex {
	return ScreenVertex{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		W: p.W + (q.W-p.W)*t,
		U: p.U + (q.U-p.U)*t,
		V: p.V + (q.V-p.V)*t,
	}
}

// span fills row y between two edge samples.
func (r *Rasterizer) span(y int, l, rt ScreenVertex, col Color, tex *Texture) {
	if l.X > rt.X {
		l, rt = rt, l
	}
	x0 := int(math.Floor(l.X))
	x1 := int(math.Floor(rt.X))
	if x1 < 0 || x0 > r.fb.Width-1 {
		return
	}
	left := max(0, x0)
	right := min(r.fb.Width-1, x1)

	xfrac := 1 / (float64(x1-x0) + spanEpsilon)
	wStep := (rt.W - l.W) * xfrac
	uStep := (rt.U - l.U) * xfrac
	vStep := (rt.V - l.V) * xfrac
	skip := float64(left - x0)
	w := l.W + wStep*skip
	u := l.U + uStep*skip
	v := l.V + vStep*skip

	row := y * r.fb.Width
	pixels := r.fb.Pixels[row : row+r.fb.Width]
	depth := r.depth.Values[row : row+r.fb.Width]

	if tex == nil {
		for x := left; x <= right; x++ {
			if w > depth[x] {
				pixels[x] = col
				depth[x] = w
			}
			w += wStep
		}
		return
	}

	// u/w and v/w recover uv/near
	for x := left; x <= right; x++ {
		if w > depth[x] {
			texel := tex.Sample(u/w*r.near, v/w*r.near)
			if texel.A != 0 {
				pixels[x] = texel
				depth[x] = w
			}
		}
		w += wStep
		u += uStep
		v += vStep
	}
}
