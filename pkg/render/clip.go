package render

// ClipKind classifies a camera-space triangle against the near plane.
type ClipKind uint8

const (
	Unclipped  ClipKind = iota // All vertices at or beyond the plane
	OneClipped                 // Index is the vertex closer than near
	TwoClipped                 // Index is the surviving vertex
	AllClipped                 // Nothing visible
)

func (k ClipKind) String() string {
	switch k {
	case Unclipped:
		return "unclipped"
	case OneClipped:
		return "one-clipped"
	case TwoClipped:
		return "two-clipped"
	case AllClipped:
		return "all-clipped"
	}
	return "unknown"
}

// Clip is the result of Classify.
type Clip struct {
	Kind  ClipKind
	Index int
}

// Classify reports which vertices of a camera-space triangle lie closer
// than near.
func Classify(t Triangle, near float64) Clip {
	var mask, count int
	for i := range t.V {
		if t.V[i].Pos.Z < near {
			mask |= 1 << i
			count++
		}
	}

	switch count {
	case 0:
		return Clip{Kind: Unclipped}
	case 1:
		return Clip{Kind: OneClipped, Index: lowBit(mask)}
	case 2:
		return Clip{Kind: TwoClipped, Index: lowBit(^mask & 0b111)}
	}
	return Clip{Kind: AllClipped}
}

func lowBit(mask int) int {
	for i := range 3 {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	return -1
}

// ClipNear clips a camera-space triangle against z = near and appends the
// zero, one or two resulting triangles to dst.
//
// New vertices are interpolated affinely in camera space and sit exactly on
// the plane. Winding is preserved.
func ClipNear(t Triangle, near float64, dst []Triangle) []Triangle {
	if t.V[0].Pos.Z < near && t.V[1].Pos.Z < near && t.V[2].Pos.Z < near {
		return dst
	}

	c := Classify(t, near)
	switch c.Kind {
	case Unclipped:
		return append(dst, t)

	case OneClipped:
		// The clipped corner becomes an edge; walk the resulting quad in
		// the input's cyclic order and split it along q0-q2.
		cv := t.V[c.Index]
		next := t.V[(c.Index+1)%3]
		prev := t.V[(c.Index+2)%3]
		q0 := intersectNear(cv, next, near)
		q3 := intersectNear(cv, prev, near)

		a, b := t, t
		a.V = [3]Vertex{q0, next, prev}
		b.V = [3]Vertex{q0, prev, q3}
		return append(dst, a, b)

	case TwoClipped:
		s := t.V[c.Index]
		for i := range t.V {
			if i != c.Index {
				t.V[i] = intersectNear(t.V[i], s, near)
			}
		}
		return append(dst, t)
	}
	return dst
}

// intersectNear returns the point where the edge from c to o crosses the
// near plane. c must be in front of the plane and o at or beyond it.
func intersectNear(c, o Vertex, near float64) Vertex {
	t := (near - c.Pos.Z) / (o.Pos.Z - c.Pos.Z)
	v := Vertex{
		Pos: c.Pos.Lerp(o.Pos, t),
		UV:  c.UV.Lerp(o.UV, t),
	}
	v.Pos.Z = near
	return v
}
