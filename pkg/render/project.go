package render

// ScreenVertex is a projected vertex. W is near/z (larger is nearer) and
// U, V are the texture coordinate divided by z.
type ScreenVertex struct {
	X, Y float64
	W    float64
	U, V float64
}

// ScreenTriangle is a triangle ready for rasterization.
type ScreenTriangle struct {
	V       [3]ScreenVertex
	Color   Color
	Texture uint8
}

// Projector maps camera space onto a width x height pixel target.
type Projector struct {
	Width, Height int
	Aspect        float64 // Width / Height
	Near          float64
}

// NewProjector creates a projector for a target of the given size.
func NewProjector(width, height int, near float64) Projector {
	return Projector{
		Width:  width,
		Height: height,
		Aspect: float64(width) / float64(height),
		Near:   near,
	}
}

// ProjectVertex perspective-divides a single camera-space vertex.
func (p Projector) ProjectVertex(v Vertex) ScreenVertex {
	z := v.Pos.Z
	return ScreenVertex{
		X: (v.Pos.X/z + 1) * float64(p.Width) / 2,
		Y: (p.Aspect*-v.Pos.Y/z + 1) * float64(p.Height) / 2,
		W: p.Near / z,
		U: v.UV.X / z,
		V: v.UV.Y / z,
	}
}

// Project maps a clipped camera-space triangle to screen space. Every vertex
// must have z >= Near.
func (p Projector) Project(t Triangle) ScreenTriangle {
	return ScreenTriangle{
		V: [3]ScreenVertex{
			p.ProjectVertex(t.V[0]),
			p.ProjectVertex(t.V[1]),
			p.ProjectVertex(t.V[2]),
		},
		Color:   t.Color,
		Texture: t.Texture,
	}
}

// Depth reconstructs the camera-space z of a projected vertex.
func (p Projector) Depth(v ScreenVertex) float64 {
	return p.Near / v.W
}
