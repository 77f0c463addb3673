package maze

import (
	"math/rand/v2"

	"github.com/taigrr/mazevr/pkg/math3d"
	"github.com/taigrr/mazevr/pkg/render"
)

// WallHeight is the height of every wall and of the ceiling.
const WallHeight = 5.0

// Texture table slots used by maze faces.
const (
	FloorTexture     uint8 = 0
	WallTexture      uint8 = 1
	CeilingTexture   uint8 = 2
	FirstGameTexture uint8 = 3
	GameTextures           = 11 // Slots FirstGameTexture through 13
)

// FloorColor tints the floor and ceiling when drawn without textures.
var FloorColor = render.ARGB(0xff225588)

// posterOdds is the one-in-N chance that a cell-length wall shows a game
// poster instead of the brick texture.
const posterOdds = 8

// Faces builds the static scene: floor, ceiling and every wall as
// double-sided textured triangles. rng picks wall tints and posters.
func (m *Maze) Faces(rng *rand.Rand) []render.Triangle {
	walls := m.Walls()
	faces := make([]render.Triangle, 0, 4+2*len(walls))
	faces = append(faces, m.plane(0, FloorTexture)...)
	faces = append(faces, m.plane(WallHeight, CeilingTexture)...)
	for _, w := range walls {
		tris := m.wallFaces(w, rng)
		faces = append(faces, tris[:]...)
	}
	return faces
}

// plane covers the whole maze at height y, one texture tile per cell.
func (m *Maze) plane(y float64, tex uint8) []render.Triangle {
	w, d := float64(m.W)*m.CellSize, float64(m.H)*m.CellSize
	tw, th := float64(m.W), float64(m.H)

	near := render.Vertex{Pos: math3d.V3(0, y, 0), UV: math3d.V2(0, 0)}
	far := render.Vertex{Pos: math3d.V3(0, y, d), UV: math3d.V2(0, th)}
	side := render.Vertex{Pos: math3d.V3(w, y, 0), UV: math3d.V2(tw, 0)}
	corner := render.Vertex{Pos: math3d.V3(w, y, d), UV: math3d.V2(tw, th)}

	return []render.Triangle{
		{V: [3]render.Vertex{near, far, side}, Color: FloorColor, Texture: tex, DoubleSided: true},
		{V: [3]render.Vertex{corner, far, side}, Color: FloorColor, Texture: tex, DoubleSided: true},
	}
}

// wallFaces raises a wall segment into two triangles. The texture repeats
// every WallHeight units along the wall with v = 0 at the top.
func (m *Maze) wallFaces(w Wall, rng *rand.Rand) [2]render.Triangle {
	col := render.ARGB(uint32(rng.IntN(16581375)) | 0xff000000)
	span := w.Len() / WallHeight
	tex := WallTexture
	if w.Len() == m.CellSize && rng.IntN(posterOdds) == 0 {
		span = 1
		tex = FirstGameTexture + uint8(rng.IntN(GameTextures))
	}

	at := func(p math3d.Vec2, y, u, v float64) render.Vertex {
		return render.Vertex{Pos: math3d.V3(p.X, y, p.Y), UV: math3d.V2(u, v)}
	}

	var tris [2][3]render.Vertex
	if w.Vertical() {
		tris[0] = [3]render.Vertex{at(w.B, 0, 0, 1), at(w.A, 0, span, 1), at(w.A, WallHeight, span, 0)}
		tris[1] = [3]render.Vertex{at(w.B, 0, 0, 1), at(w.A, WallHeight, span, 0), at(w.B, WallHeight, 0, 0)}
	} else {
		tris[0] = [3]render.Vertex{at(w.A, 0, span, 1), at(w.B, 0, 0, 1), at(w.A, WallHeight, span, 0)}
		tris[1] = [3]render.Vertex{at(w.A, WallHeight, span, 0), at(w.B, 0, 0, 1), at(w.B, WallHeight, 0, 0)}
	}

	var out [2]render.Triangle
	for i := range out {
		out[i] = render.Triangle{V: tris[i], Color: col, Texture: tex, DoubleSided: true}
	}
	return out
}
