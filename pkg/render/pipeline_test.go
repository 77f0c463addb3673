package render

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/taigrr/mazevr/pkg/math3d"
)

func TestPipelineRendersScenario(t *testing.T) {
	p := NewPipeline(1, 16)
	fb, depth := createTestTarget(100, 100)

	tr := scenarioTriangle()
	tr.DoubleSided = true
	if err := p.Add(tr); err != nil {
		t.Fatal(err)
	}
	stats := p.Render(NewPose(math3d.Vec3{}), fb, depth, nil)

	if stats.Drawn != 1 {
		t.Errorf("Drawn = %d, want 1", stats.Drawn)
	}
	if depth.At(50, 50) != 0.5 {
		t.Errorf("center depth = %v, want 0.5", depth.At(50, 50))
	}
	if fb.GetPixel(50, 50) != ARGB(0xffff0000) {
		t.Errorf("center color = %v", fb.GetPixel(50, 50))
	}
}

func TestPipelineBackFace(t *testing.T) {
	p := NewPipeline(1, 16)
	fb, depth := createTestTarget(100, 100)

	// Wound away from a camera at the origin
	if err := p.Add(scenarioTriangle()); err != nil {
		t.Fatal(err)
	}
	stats := p.Render(NewPose(math3d.Vec3{}), fb, depth, nil)

	if stats.Culled != 1 || stats.Drawn != 0 {
		t.Errorf("stats = %+v, want one culled and none drawn", stats)
	}
	for i, d := range depth.Values {
		if d != 0 {
			t.Fatalf("back face wrote pixel %d", i)
		}
	}
}

func TestPipelineStats(t *testing.T) {
	p := NewPipeline(1, 16)
	fb, depth := createTestTarget(100, 100)

	visible := scenarioTriangle()
	visible.DoubleSided = true

	behind := visible
	for i := range behind.V {
		behind.V[i].Pos.Z = -2
	}

	split := visible
	split.V[2].Pos.Z = 0.5

	if err := p.Add(visible, behind, split, scenarioTriangle()); err != nil {
		t.Fatal(err)
	}
	stats := p.Render(NewPose(math3d.Vec3{}), fb, depth, nil)

	want := Stats{Submitted: 4, Culled: 1, ClippedAway: 1, Split: 1, Drawn: 3}
	if stats != want {
		t.Errorf("Render() = %+v, want %+v", stats, want)
	}
	if p.Stats() != want {
		t.Errorf("Stats() = %+v, want %+v", p.Stats(), want)
	}
	if len(p.Camera()) != 3 || len(p.Screen()) != 3 {
		t.Errorf("stage sizes = %d, %d, want 3, 3", len(p.Camera()), len(p.Screen()))
	}
}

func TestPipelineCameraPose(t *testing.T) {
	tr := scenarioTriangle()
	tr.DoubleSided = true

	moved := tr
	for i := range moved.V {
		moved.V[i].Pos.Z -= 2
	}

	render := func(pose Pose, tr Triangle) *Framebuffer {
		p := NewPipeline(1, 4)
		fb, depth := createTestTarget(64, 64)
		if err := p.Add(tr); err != nil {
			t.Fatal(err)
		}
		p.Render(pose, fb, depth, nil)
		return fb
	}

	a := render(NewPose(math3d.Vec3{}), tr)
	b := render(NewPose(math3d.V3(0, 0, -2)), moved)
	if !slices.Equal(a.Pixels, b.Pixels) {
		t.Error("moving camera and scene together changed the image")
	}
}

func TestPipelineCapacity(t *testing.T) {
	p := NewPipeline(1, 2)
	tr := scenarioTriangle()

	if p.Capacity() != 2 {
		t.Fatalf("Capacity() = %d, want 2", p.Capacity())
	}

	err := p.Add(tr, tr, tr)
	if !errors.Is(err, ErrTooManyFaces) {
		t.Fatalf("Add(3) error = %v, want ErrTooManyFaces", err)
	}
	if len(p.World()) != 0 {
		t.Errorf("failed Add queued %d triangles", len(p.World()))
	}

	if err := p.Add(tr, tr); err != nil {
		t.Fatalf("Add(2) error = %v", err)
	}
	if err := p.Add(tr); !errors.Is(err, ErrTooManyFaces) {
		t.Errorf("Add over capacity error = %v", err)
	}

	p.Begin()
	if len(p.World()) != 0 {
		t.Errorf("Begin left %d triangles", len(p.World()))
	}
	if err := p.Add(tr); err != nil {
		t.Errorf("Add after Begin error = %v", err)
	}
}

func TestPipelineDefaultCapacity(t *testing.T) {
	if got := NewPipeline(1, 0).Capacity(); got != MaxFaces {
		t.Errorf("Capacity() = %d, want %d", got, MaxFaces)
	}
}

func TestPipelineWireframe(t *testing.T) {
	p := NewPipeline(1, 4)
	p.Wireframe = true
	fb, depth := createTestTarget(100, 100)

	tr := scenarioTriangle()
	tr.DoubleSided = true
	if err := p.Add(tr); err != nil {
		t.Fatal(err)
	}
	p.Render(NewPose(math3d.Vec3{}), fb, depth, nil)

	if fb.GetPixel(50, 50) != (Color{}) {
		t.Error("wireframe filled the interior")
	}
	if fb.GetPixel(50, 75) != p.WireColor {
		t.Errorf("base edge pixel = %v, want %v", fb.GetPixel(50, 75), p.WireColor)
	}
	for i, d := range depth.Values {
		if d != 0 {
			t.Fatalf("wireframe wrote depth at %d", i)
		}
	}
}

func TestPipelineLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	p := NewPipeline(1, 4)
	fb, depth := createTestTarget(8, 8)
	p.Render(NewPose(math3d.Vec3{}), fb, depth, nil)

	if !strings.Contains(buf.String(), "frame rendered") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestLoggerDefaultsToSilence(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func BenchmarkPipelineRender(b *testing.B) {
	p := NewPipeline(1, 1024)
	fb, depth := createTestTarget(320, 240)
	pose := NewPose(math3d.V3(0, 0, -1))

	tr := scenarioTriangle()
	tr.DoubleSided = true
	for i := range 256 {
		shifted := tr
		for j := range shifted.V {
			shifted.V[j].Pos.Z += float64(i) * 0.05
		}
		if err := p.Add(shifted); err != nil {
			b.Fatal(err)
		}
	}

	for b.Loop() {
		depth.Clear()
		p.Render(pose, fb, depth, nil)
	}
}
