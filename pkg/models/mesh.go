// Package models provides the meshes placed in the maze: loaded glTF props
// and the built-in collectible and end-of-maze board shapes.
package models

import (
	"github.com/taigrr/mazevr/pkg/math3d"
	"github.com/taigrr/mazevr/pkg/render"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the flat color a face is drawn with.
type Material struct {
	Name      string
	BaseColor render.Color
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}

// Fit centers the mesh on the origin and scales it uniformly so its largest
// extent equals size. Empty or flat-to-a-point meshes are only centered.
func (m *Mesh) Fit(size float64) {
	if len(m.Vertices) == 0 {
		return
	}
	m.CalculateBounds()

	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)
	mat := math3d.Translate(m.Center().Negate())
	if largest > 0 {
		mat = math3d.ScaleUniform(size / largest).Mul(mat)
	}
	m.Transform(mat)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// Triangles expands the mesh into single-sided pipeline triangles. Faces
// without a material take fallback as their color. tex selects a texture
// slot sampled with the vertex UVs; pass render.NoTexture for flat color.
func (m *Mesh) Triangles(tex uint8, fallback render.Color) []render.Triangle {
	tris := make([]render.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		t := render.Triangle{Color: fallback, Texture: tex}
		if mat := m.GetMaterial(f.Material); mat != nil {
			t.Color = mat.BaseColor
		}
		for k, idx := range f.V {
			v := m.Vertices[idx]
			t.V[k] = render.Vertex{Pos: v.Position, UV: v.UV}
		}
		tris[i] = t
	}
	return tris
}
