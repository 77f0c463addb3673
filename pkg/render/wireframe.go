package render

import "math"

// DrawTriangleWire outlines a screen triangle without a depth test. Used for
// the x-ray debug view.
func (r *Rasterizer) DrawTriangleWire(st ScreenTriangle, c Color) {
	for i := range 3 {
		p, q := st.V[i], st.V[(i+1)%3]
		r.line(p.X, p.Y, q.X, q.Y, c)
	}
}

// line draws a segment, trimming endpoints far outside the target so
// Bresenham does not walk millions of off-screen steps.
func (r *Rasterizer) line(x0, y0, x1, y1 float64, c Color) {
	limit := float64(4 * max(r.fb.Width, r.fb.Height))
	if !clipSegment(&x0, &y0, &x1, &y1, -limit, limit) {
		return
	}
	r.fb.DrawLine(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), c)
}

// clipSegment clips a segment to the square [lo, hi]² (Liang-Barsky).
// It reports false when nothing remains.
func clipSegment(x0, y0, x1, y1 *float64, lo, hi float64) bool {
	dx := *x1 - *x0
	dy := *y1 - *y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, *x0 - lo},
		{dx, hi - *x0},
		{-dy, *y0 - lo},
		{dy, hi - *y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return false
		}
	}

	sx, sy := *x0, *y0
	*x0, *y0 = sx+t0*dx, sy+t0*dy
	*x1, *y1 = sx+t1*dx, sy+t1*dy
	return true
}
