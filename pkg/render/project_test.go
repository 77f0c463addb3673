package render

import (
	"math"
	"testing"

	"github.com/taigrr/mazevr/pkg/math3d"
)

func TestProjectVertex(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		pos           math3d.Vec3
		wantX, wantY  float64
	}{
		{"center", 100, 100, math3d.V3(0, 0, 5), 50, 50},
		{"scenario apex", 100, 100, math3d.V3(0, 1, 2), 50, 25},
		{"scenario base", 100, 100, math3d.V3(-1, -1, 2), 25, 75},
		{"wide corner", 200, 100, math3d.V3(2, 1, 2), 200, 0},
		{"wide center", 320, 240, math3d.V3(0, 0, 1), 160, 120},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProjector(tc.width, tc.height, 1)
			sv := p.ProjectVertex(Vertex{Pos: tc.pos})
			if math.Abs(sv.X-tc.wantX) > 1e-9 || math.Abs(sv.Y-tc.wantY) > 1e-9 {
				t.Errorf("ProjectVertex(%v) = (%v, %v), want (%v, %v)", tc.pos, sv.X, sv.Y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestProjectDepthRoundTrip(t *testing.T) {
	for _, near := range []float64{0.1, 1, 2.5} {
		p := NewProjector(64, 48, near)
		for _, z := range []float64{near, 1.7, 10, 250} {
			v := Vertex{Pos: math3d.V3(0.3, -0.2, z), UV: math3d.V2(2, 3)}
			sv := p.ProjectVertex(v)
			if got := p.Depth(sv); math.Abs(got-z) > 1e-9*z {
				t.Errorf("near=%v: Depth(project(z=%v)) = %v", near, z, got)
			}
			if math.Abs(sv.U*z-2) > 1e-9 || math.Abs(sv.V*z-3) > 1e-9 {
				t.Errorf("near=%v z=%v: uv/z = (%v, %v)", near, z, sv.U, sv.V)
			}
		}
	}
}

func TestProjectNearPlaneDepth(t *testing.T) {
	p := NewProjector(10, 10, 1)
	sv := p.ProjectVertex(Vertex{Pos: math3d.V3(0, 0, 1)})
	if sv.W != 1 {
		t.Errorf("W at the near plane = %v, want 1", sv.W)
	}
}

func TestProjectKeepsMaterial(t *testing.T) {
	tr := scenarioTriangle()
	tr.Texture = 4
	st := NewProjector(100, 100, 1).Project(tr)
	if st.Color != tr.Color || st.Texture != 4 {
		t.Errorf("Project lost material: %+v", st)
	}
}
