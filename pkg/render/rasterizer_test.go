package render

import (
	"math"
	"slices"
	"testing"

	"github.com/taigrr/mazevr/pkg/math3d"
)

// tri builds a flat, single-sided triangle from three positions.
func tri(a, b, c math3d.Vec3, col Color) Triangle {
	return Triangle{
		V: [3]Vertex{
			{Pos: a},
			{Pos: b},
			{Pos: c},
		},
		Color:   col,
		Texture: NoTexture,
	}
}

// createTestTarget creates a cleared framebuffer and depth buffer.
func createTestTarget(width, height int) (*Framebuffer, *DepthBuffer) {
	return NewFramebuffer(width, height), NewDepthBuffer(width, height)
}

// drawCameraSpace clips, projects and rasterizes a camera-space triangle.
func drawCameraSpace(t Triangle, fb *Framebuffer, depth *DepthBuffer, textures *TextureTable, near float64) int {
	proj := NewProjector(fb.Width, fb.Height, near)
	rast := NewRasterizer(fb, depth, textures, near)
	clipped := ClipNear(t, near, nil)
	for _, ct := range clipped {
		rast.DrawTriangle(proj.Project(ct))
	}
	return len(clipped)
}

func scenarioTriangle() Triangle {
	return tri(
		math3d.V3(-1, -1, 2),
		math3d.V3(1, -1, 2),
		math3d.V3(0, 1, 2),
		ARGB(0xffff0000),
	)
}

func TestDrawTriangleFlatFill(t *testing.T) {
	fb, depth := createTestTarget(100, 100)
	drawCameraSpace(scenarioTriangle(), fb, depth, nil, 1)

	red := ARGB(0xffff0000)
	covered := 0
	for y := range fb.Height {
		for x := range fb.Width {
			d := depth.At(x, y)
			c := fb.GetPixel(x, y)
			inBounds := x >= 25 && x <= 75 && y >= 25 && y <= 75

			if d == 0 {
				if c != (Color{}) {
					t.Fatalf("pixel (%d, %d) colored %v without depth", x, y, c)
				}
				continue
			}
			covered++
			if !inBounds {
				t.Fatalf("pixel (%d, %d) covered outside triangle bounds", x, y)
			}
			if d != 0.5 {
				t.Fatalf("depth at (%d, %d) = %v, want 0.5", x, y, d)
			}
			if c != red {
				t.Fatalf("color at (%d, %d) = %v, want %v", x, y, c, red)
			}
		}
	}

	if depth.At(50, 50) != 0.5 {
		t.Error("triangle center not covered")
	}
	// Half of the 50x50 bounding box, give or take the edges
	if covered < 1100 || covered > 1500 {
		t.Errorf("covered %d pixels, want about 1250", covered)
	}
	if depth.At(26, 30) != 0 || depth.At(74, 30) != 0 {
		t.Error("corners outside the slanted edges should be empty")
	}
}

func TestDrawTriangleCutEdge(t *testing.T) {
	fb, depth := createTestTarget(100, 100)
	cut := tri(
		math3d.V3(-1, -1, 2),
		math3d.V3(1, -1, 2),
		math3d.V3(0, 1, 0.5),
		ARGB(0xffff0000),
	)

	if n := drawCameraSpace(cut, fb, depth, nil, 1); n != 2 {
		t.Fatalf("clipper emitted %d triangles, want 2", n)
	}

	// z = 1 projects to the row y = 33.3 across x in [33.3, 66.7]
	for y := range 33 {
		for x := range fb.Width {
			if depth.At(x, y) != 0 {
				t.Fatalf("pixel (%d, %d) covered above the cut edge", x, y)
			}
		}
	}

	for _, y := range []int{34, 50, 74} {
		row := 0
		for x := range fb.Width {
			if depth.At(x, y) != 0 {
				row++
			}
		}
		if row == 0 {
			t.Errorf("row %d below the cut edge is empty", y)
		}
	}

	// The cut edge runs straight from x=33 to x=66
	for x := 35; x <= 65; x++ {
		if depth.At(x, 34) == 0 {
			t.Errorf("pixel (%d, 34) just below the cut edge is empty", x)
		}
	}

	for i, d := range depth.Values {
		if d > 1+1e-9 {
			t.Fatalf("depth %v at %d is nearer than the near plane", d, i)
		}
	}
}

func TestDrawTriangleDepthIdempotent(t *testing.T) {
	fb, depth := createTestTarget(64, 48)
	drawCameraSpace(scenarioTriangle(), fb, depth, nil, 1)
	pixels := slices.Clone(fb.Pixels)
	values := slices.Clone(depth.Values)

	drawCameraSpace(scenarioTriangle(), fb, depth, nil, 1)

	if !slices.Equal(pixels, fb.Pixels) {
		t.Error("second draw changed the framebuffer")
	}
	if !slices.Equal(values, depth.Values) {
		t.Error("second draw changed the depth buffer")
	}
}

func TestDrawTriangleNearerWins(t *testing.T) {
	far := scenarioTriangle()
	near := scenarioTriangle()
	near.Color = ColorGreen
	for i := range near.V {
		near.V[i].Pos.Z = 1.5
	}

	orders := map[string][2]Triangle{
		"far first":  {far, near},
		"near first": {near, far},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			fb, depth := createTestTarget(100, 100)
			for _, tr := range order {
				drawCameraSpace(tr, fb, depth, nil, 1)
			}
			if got := fb.GetPixel(50, 50); got != ColorGreen {
				t.Errorf("center = %v, want green", got)
			}
			if got := depth.At(50, 50); math.Abs(got-1/1.5) > 1e-9 {
				t.Errorf("center depth = %v, want %v", got, 1/1.5)
			}
		})
	}
}

func TestDrawTriangleAlphaTest(t *testing.T) {
	clearTex := NewTexture(2, 2)
	opaque := NewCheckerTexture(2, 2, 1, ColorWhite, ColorWhite)
	table := &TextureTable{0: clearTex, 1: opaque}

	tests := []struct {
		name      string
		slot      uint8
		wantDrawn bool
	}{
		{"transparent texels are skipped", 0, false},
		{"opaque texels are written", 1, true},
		{"flat color ignores alpha", NoTexture, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb, depth := createTestTarget(100, 100)
			tr := scenarioTriangle()
			tr.Color = RGBA(10, 20, 30, 0)
			tr.Texture = tc.slot
			drawCameraSpace(tr, fb, depth, table, 1)

			drawn := depth.At(50, 50) != 0
			if drawn != tc.wantDrawn {
				t.Errorf("drawn = %v, want %v", drawn, tc.wantDrawn)
			}
		})
	}
}

func TestDrawTriangleTexturedPerspective(t *testing.T) {
	// Left half red, right half blue
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, RGB(0, 0, 255))
	table := &TextureTable{0: tex}

	// A wall receding from z=1 on the left to z=3 on the right
	p0 := Vertex{Pos: math3d.V3(-1, -1, 1), UV: math3d.V2(0, 1)}
	p1 := Vertex{Pos: math3d.V3(1, -1, 3), UV: math3d.V2(1, 1)}
	p2 := Vertex{Pos: math3d.V3(1, 1, 3), UV: math3d.V2(1, 0)}
	p3 := Vertex{Pos: math3d.V3(-1, 1, 1), UV: math3d.V2(0, 0)}

	fb, depth := createTestTarget(100, 100)
	for _, v := range [][3]Vertex{{p0, p1, p2}, {p0, p2, p3}} {
		drawCameraSpace(Triangle{V: v, Texture: 0}, fb, depth, table, 1)
	}

	// u = 0.5 lies at x=0, z=2, which projects to the screen center.
	// Affine interpolation would put it near x=33.
	if got := fb.GetPixel(40, 50); got != ColorRed {
		t.Errorf("pixel (40, 50) = %v, want red", got)
	}
	if got := fb.GetPixel(60, 50); got != RGB(0, 0, 255) {
		t.Errorf("pixel (60, 50) = %v, want blue", got)
	}
}

func TestDrawTriangleOffscreen(t *testing.T) {
	tests := []struct {
		name    string
		offsetX float64
		offsetY float64
	}{
		{"right", 10, 0},
		{"left", -10, 0},
		{"below", 0, -10},
		{"above", 0, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb, depth := createTestTarget(32, 32)
			tr := scenarioTriangle()
			for i := range tr.V {
				tr.V[i].Pos.X += tc.offsetX
				tr.V[i].Pos.Y += tc.offsetY
			}
			drawCameraSpace(tr, fb, depth, nil, 1)
			for i, d := range depth.Values {
				if d != 0 {
					t.Fatalf("offscreen triangle wrote pixel %d", i)
				}
			}
		})
	}
}

func TestDrawTriangleDegenerate(t *testing.T) {
	fb, depth := createTestTarget(16, 16)
	rast := NewRasterizer(fb, depth, nil, 1)

	// Zero height and zero width triangles must not panic
	rast.DrawTriangle(ScreenTriangle{
		V:       [3]ScreenVertex{{X: 2, Y: 5, W: 1}, {X: 10, Y: 5, W: 1}, {X: 6, Y: 5, W: 1}},
		Color:   ColorWhite,
		Texture: NoTexture,
	})
	rast.DrawTriangle(ScreenTriangle{
		V:       [3]ScreenVertex{{X: 4, Y: 1, W: 1}, {X: 4, Y: 9, W: 1}, {X: 4, Y: 4, W: 1}},
		Color:   ColorWhite,
		Texture: NoTexture,
	})
}

func BenchmarkDrawTriangle(b *testing.B) {
	fb, depth := createTestTarget(320, 240)
	proj := NewProjector(320, 240, 1)
	rast := NewRasterizer(fb, depth, nil, 1)
	st := proj.Project(scenarioTriangle())

	for b.Loop() {
		depth.Clear()
		rast.DrawTriangle(st)
	}
}

func BenchmarkDrawTriangleTextured(b *testing.B) {
	fb, depth := createTestTarget(320, 240)
	table := &TextureTable{0: NewCheckerTexture(64, 64, 8, ColorWhite, ColorGray)}
	proj := NewProjector(320, 240, 1)
	rast := NewRasterizer(fb, depth, table, 1)
	tr := scenarioTriangle()
	tr.Texture = 0
	tr.V[1].UV = math3d.V2(4, 0)
	tr.V[2].UV = math3d.V2(2, 4)
	st := proj.Project(tr)

	for b.Loop() {
		depth.Clear()
		rast.DrawTriangle(st)
	}
}
