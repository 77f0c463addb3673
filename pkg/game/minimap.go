package game

import (
	"github.com/taigrr/mazevr/pkg/maze"
	"github.com/taigrr/mazevr/pkg/render"
)

// Minimap colors
var (
	MapWallColor   = render.RGB(220, 220, 220)
	MapPlayerColor = render.RGB(255, 64, 64)
	MapEndColor    = render.RGB(64, 255, 64)
	MapItemColor   = render.RGB(255, 200, 0)
)

// DrawMinimap draws the maze top-down into fb with its top-left corner at
// (x0, y0) and scale pixels per cell. North (+Z) is up.
func (g *Game) DrawMinimap(fb *render.Framebuffer, x0, y0, scale int) {
	m := g.Maze
	px := func(wx float64) int { return x0 + int(wx/m.CellSize*float64(scale)) }
	py := func(wz float64) int { return y0 + m.H*scale - int(wz/m.CellSize*float64(scale)) }

	for _, w := range m.Walls() {
		fb.DrawLine(px(w.A.X), py(w.A.Y), px(w.B.X), py(w.B.Y), MapWallColor)
	}

	mark := func(c maze.Cell, col render.Color) {
		x, z := m.Center(c)
		size := max(scale/2, 1)
		fb.DrawRect(px(x)-size/2, py(z)-size/2, size, size, col)
	}
	mark(m.End, MapEndColor)
	for _, it := range g.Items {
		if it.Active {
			mark(it.Cell, MapItemColor)
		}
	}

	// The player marker follows the smoothed camera
	size := max(scale/2, 1)
	fb.DrawRect(px(g.x)-size/2, py(g.z)-size/2, size, size, MapPlayerColor)
}
