package models

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/mazevr/pkg/math3d"
	"github.com/taigrr/mazevr/pkg/render"
)

// Dodecahedron builds a regular dodecahedron with circumradius r, centered
// on the origin. Each of its 12 pentagons is a fan of three triangles wound
// outward and has its own gray material.
func Dodecahedron(r float64) *Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	inv := 1 / phi

	var corners []math3d.Vec3
	for _, x := range [2]float64{-1, 1} {
		for _, y := range [2]float64{-1, 1} {
			for _, z := range [2]float64{-1, 1} {
				corners = append(corners, math3d.V3(x, y, z))
			}
		}
	}
	for _, a := range [2]float64{-1, 1} {
		for _, b := range [2]float64{-1, 1} {
			corners = append(corners,
				math3d.V3(0, a*inv, b*phi),
				math3d.V3(a*inv, b*phi, 0),
				math3d.V3(a*phi, 0, b*inv),
			)
		}
	}

	// Face centers point at the vertices of the dual icosahedron
	var normals []math3d.Vec3
	for _, a := range [2]float64{-1, 1} {
		for _, b := range [2]float64{-1, 1} {
			normals = append(normals,
				math3d.V3(0, a*phi, b).Normalize(),
				math3d.V3(a, 0, b*phi).Normalize(),
				math3d.V3(a*phi, b, 0).Normalize(),
			)
		}
	}

	mesh := NewMesh("dodecahedron")
	scale := r / math.Sqrt(3)
	for _, c := range corners {
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: c.Scale(scale)})
	}

	for fi, n := range normals {
		face := pentagon(corners, n)
		shade := uint8(0x60 + fi*0x0c)
		mesh.Materials = append(mesh.Materials, Material{BaseColor: render.RGB(shade, shade, shade)})

		for k := 1; k+1 < len(face); k++ {
			f := Face{V: [3]int{face[0], face[k], face[k+1]}, Material: fi}
			a, b, c := corners[f.V[0]], corners[f.V[1]], corners[f.V[2]]
			if b.Sub(a).Cross(c.Sub(a)).Dot(n) < 0 {
				f.V[1], f.V[2] = f.V[2], f.V[1]
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	mesh.CalculateBounds()
	return mesh
}

// pentagon returns the indices of the corners furthest along n, ordered
// around n.
func pentagon(corners []math3d.Vec3, n math3d.Vec3) []int {
	best := math.Inf(-1)
	for _, c := range corners {
		best = math.Max(best, c.Dot(n))
	}

	var face []int
	var center math3d.Vec3
	for i, c := range corners {
		if c.Dot(n) > best-1e-9 {
			face = append(face, i)
			center = center.Add(c)
		}
	}
	center = center.Scale(1 / float64(len(face)))

	e1 := corners[face[0]].Sub(center).Normalize()
	e2 := n.Cross(e1)
	angle := func(i int) float64 {
		d := corners[i].Sub(center)
		return math.Atan2(d.Dot(e2), d.Dot(e1))
	}
	slices.SortFunc(face, func(a, b int) int {
		return cmp.Compare(angle(a), angle(b))
	})
	return face
}

// EndBoard builds the 4x4 board shown at the maze exit. It lies in the XY
// plane facing -Z with v = 0 along its top edge, so a board rotated like
// the camera faces it upright.
func EndBoard() *Mesh {
	mesh := NewMesh("endboard")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(-2, 2, 0), UV: math3d.V2(0, 0)},
		{Position: math3d.V3(2, 2, 0), UV: math3d.V2(1, 0)},
		{Position: math3d.V3(2, -2, 0), UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-2, -2, 0), UV: math3d.V2(0, 1)},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 2, 3}, Material: -1},
		{V: [3]int{0, 1, 2}, Material: -1},
	}
	mesh.CalculateBounds()
	return mesh
}
