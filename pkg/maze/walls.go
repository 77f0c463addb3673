package maze

import (
	"math"
	"slices"

	"github.com/taigrr/mazevr/pkg/math3d"
)

// Wall is a wall segment on the floor plan in world units. X is world X and
// Y is world Z. Horizontal walls have A.X < B.X, vertical walls A.Y < B.Y.
type Wall struct {
	A, B math3d.Vec2
}

// Vertical reports whether the wall runs along Z.
func (w Wall) Vertical() bool {
	return w.A.Y != w.B.Y
}

// Len returns the wall length.
func (w Wall) Len() float64 {
	d := w.B.Sub(w.A)
	return math.Abs(d.X) + math.Abs(d.Y)
}

// Walls returns the maze's walls as maximal straight runs: every missing
// Down passage forms a horizontal run along the cell's bottom edge and every
// missing Left passage a vertical run along its left edge. The right and top
// outer edges close the maze. Horizontal runs are split wherever a vertical
// run passes through their interior. Horizontal walls come first.
func (m *Maze) Walls() []Wall {
	cs := m.CellSize
	walledBottom := make([]bool, len(m.cells))
	walledLeft := make([]bool, len(m.cells))
	var horiz, vert []Wall

	for y := range m.H {
		for x := range m.W {
			i := y*m.W + x
			flags := Direction(m.cells[i])

			if flags&Down == 0 && !walledBottom[i] {
				walledBottom[i] = true
				end := x + 1
				for ; end < m.W; end++ {
					walledBottom[y*m.W+end] = true
					if Direction(m.cells[y*m.W+end])&Down != 0 {
						break
					}
				}
				horiz = append(horiz, Wall{
					A: math3d.V2(float64(x)*cs, float64(y)*cs),
					B: math3d.V2(float64(end)*cs, float64(y)*cs),
				})
			}

			if flags&Left == 0 && !walledLeft[i] {
				walledLeft[i] = true
				end := y + 1
				for ; end < m.H; end++ {
					walledLeft[end*m.W+x] = true
					if Direction(m.cells[end*m.W+x])&Left != 0 {
						break
					}
				}
				vert = append(vert, Wall{
					A: math3d.V2(float64(x)*cs, float64(y)*cs),
					B: math3d.V2(float64(x)*cs, float64(end)*cs),
				})
			}
		}
	}

	width, height := float64(m.W)*cs, float64(m.H)*cs
	vert = append(vert, Wall{A: math3d.V2(width, 0), B: math3d.V2(width, height)})
	horiz = append(horiz, Wall{A: math3d.V2(0, height), B: math3d.V2(width, height)})

	walls := make([]Wall, 0, len(horiz)+len(vert))
	for _, h := range horiz {
		walls = append(walls, splitAt(h, vert)...)
	}
	return append(walls, vert...)
}

// splitAt cuts a horizontal wall at every vertical wall crossing strictly
// inside both segments.
func splitAt(h Wall, vert []Wall) []Wall {
	var cuts []float64
	for _, v := range vert {
		x := v.A.X
		if x > h.A.X && x < h.B.X && h.A.Y > v.A.Y && h.A.Y < v.B.Y {
			cuts = append(cuts, x)
		}
	}
	if len(cuts) == 0 {
		return []Wall{h}
	}
	slices.Sort(cuts)

	out := make([]Wall, 0, len(cuts)+1)
	from := h.A.X
	for _, x := range cuts {
		out = append(out, Wall{A: math3d.V2(from, h.A.Y), B: math3d.V2(x, h.A.Y)})
		from = x
	}
	return append(out, Wall{A: math3d.V2(from, h.A.Y), B: h.B})
}
