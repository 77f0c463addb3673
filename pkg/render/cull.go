package render

import "github.com/taigrr/mazevr/pkg/math3d"

// FrontFacing reports whether a world-space triangle should be kept for a
// camera at camPos. Double-sided triangles are always kept. Single-sided
// triangles are kept only when the camera lies strictly in front of them;
// a grazing view is discarded.
func FrontFacing(t Triangle, camPos math3d.Vec3) bool {
	if t.DoubleSided {
		return true
	}
	toCam := camPos.Sub(t.V[0].Pos)
	return t.Normal().Dot(toCam) > 0
}
