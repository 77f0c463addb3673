package render

import (
	"math"

	"github.com/taigrr/mazevr/pkg/math3d"
)

// Pose is a camera position and orientation. The pipeline only reads it.
type Pose struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Look up (+) or down (-)
	Yaw   float64 // Turn toward +X (+) or -X (-)
	Roll  float64 // Tilt around the view axis
}

// NewPose creates a level pose at pos looking along +Z.
func NewPose(pos math3d.Vec3) Pose {
	return Pose{Position: pos}
}

// Orientation returns the camera-to-world rotation.
func (p Pose) Orientation() math3d.Mat4 {
	return math3d.Euler(p.Pitch, p.Yaw, p.Roll)
}

// Forward returns the view direction in world space.
func (p Pose) Forward() math3d.Vec3 {
	return math3d.V3(
		math.Sin(p.Yaw)*math.Cos(p.Pitch),
		math.Sin(p.Pitch),
		math.Cos(p.Yaw)*math.Cos(p.Pitch),
	)
}

// Right returns the horizontal right direction in world space.
func (p Pose) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(p.Yaw),
		0,
		-math.Sin(p.Yaw),
	)
}

// ViewMatrix returns the world-to-camera transform: translate by the
// negated position, then undo yaw, then pitch, then roll.
func (p Pose) ViewMatrix() math3d.Mat4 {
	// Inverse of a rotation is its transpose
	rot := p.Orientation().Transpose()
	return rot.Mul(math3d.Translate(p.Position.Negate()))
}

// ToCamera maps a world-space triangle into this camera's space.
func (p Pose) ToCamera(t Triangle) Triangle {
	return Transform(t, p.ViewMatrix())
}

// Transform applies an affine matrix to every vertex position of t.
// Texture coordinates and color pass through unchanged.
func Transform(t Triangle, m math3d.Mat4) Triangle {
	for i := range t.V {
		t.V[i].Pos = m.MulVec3(t.V[i].Pos)
	}
	return t
}

// PlaceMatrix returns the object-to-world transform for an object at pos
// with rotation rot (X pitch, Y yaw, Z roll). Vertices are rolled, then
// pitched, then yawed, then translated.
func PlaceMatrix(pos, rot math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(pos).Mul(math3d.Euler(rot.X, rot.Y, rot.Z))
}

// Place moves an object-space triangle into the world.
func Place(t Triangle, pos, rot math3d.Vec3) Triangle {
	return Transform(t, PlaceMatrix(pos, rot))
}

// PlaceAll appends every triangle of src, placed at pos with rotation rot,
// to dst.
func PlaceAll(dst, src []Triangle, pos, rot math3d.Vec3) []Triangle {
	m := PlaceMatrix(pos, rot)
	for _, t := range src {
		dst = append(dst, Transform(t, m))
	}
	return dst
}
