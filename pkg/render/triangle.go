package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/mazevr/pkg/math3d"
)

const (
	// MaxTextures is the size of the texture table.
	MaxTextures = 16
	// NoTexture marks a triangle as flat colored. Any index of at least
	// MaxTextures has the same meaning.
	NoTexture uint8 = 255
	// MaxFaces is the default per-frame triangle budget.
	MaxFaces = 100000
)

var (
	// ErrMissingTexture is returned for a textured triangle whose slot is empty.
	ErrMissingTexture = errors.New("texture slot is empty")
	// ErrNonFinite is returned for a triangle with a NaN or infinite coordinate.
	ErrNonFinite = errors.New("non-finite vertex")
)

// Vertex is a position with its texture coordinate.
type Vertex struct {
	Pos math3d.Vec3
	UV  math3d.Vec2
}

// Triangle is a face flowing through the pipeline. Its vertices are in world
// or camera space depending on the stage.
type Triangle struct {
	V           [3]Vertex
	Color       Color // Used when the triangle is untextured
	Texture     uint8 // Texture table slot, NoTexture for flat color
	DoubleSided bool
}

// Textured reports whether the triangle samples the texture table.
func (t Triangle) Textured() bool {
	return t.Texture < MaxTextures
}

// Normal returns the unit face normal of the winding v0, v1, v2.
func (t Triangle) Normal() math3d.Vec3 {
	edge1 := t.V[1].Pos.Sub(t.V[0].Pos)
	edge2 := t.V[2].Pos.Sub(t.V[0].Pos)
	return edge1.Cross(edge2).Normalize()
}

// ValidateTriangle checks the preconditions the render pass trusts. Call it
// when building a scene, not per frame.
func ValidateTriangle(t Triangle, textures *TextureTable) error {
	for i, v := range t.V {
		p := v.Pos
		for _, f := range [...]float64{p.X, p.Y, p.Z, v.UV.X, v.UV.Y} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("vertex %d: %w", i, ErrNonFinite)
			}
		}
	}
	if t.Textured() && (textures == nil || textures[t.Texture] == nil) {
		return fmt.Errorf("slot %d: %w", t.Texture, ErrMissingTexture)
	}
	return nil
}
