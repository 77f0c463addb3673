package render

import (
	"errors"
	"fmt"
)

// ErrTooManyFaces is returned when a frame exceeds the pipeline's capacity.
var ErrTooManyFaces = errors.New("too many faces")

// Stats counts what happened to the faces of the last rendered frame.
type Stats struct {
	Submitted   int // World triangles added this frame
	Culled      int // Back faces discarded
	ClippedAway int // Triangles entirely in front of the near plane
	Split       int // Triangles that became two
	Drawn       int // Screen triangles rasterized
}

// Pipeline runs world triangles through cull, camera transform, near clip,
// projection and rasterization. Its stage buffers are allocated once and
// reused every frame.
type Pipeline struct {
	Near      float64
	Wireframe bool  // Outline triangles instead of filling them
	WireColor Color // Used when Wireframe is set

	world  []Triangle
	camera []Triangle
	screen []ScreenTriangle
	stats  Stats
}

// NewPipeline creates a pipeline accepting up to capacity world triangles
// per frame. A capacity of zero or less selects MaxFaces.
func NewPipeline(near float64, capacity int) *Pipeline {
	if capacity <= 0 {
		capacity = MaxFaces
	}
	return &Pipeline{
		Near:      near,
		WireColor: ColorGreen,
		world:     make([]Triangle, 0, capacity),
		// Each world triangle clips to at most two
		camera: make([]Triangle, 0, 2*capacity),
		screen: make([]ScreenTriangle, 0, 2*capacity),
	}
}

// Capacity returns the per-frame world triangle budget.
func (p *Pipeline) Capacity() int {
	return cap(p.world)
}

// Begin starts a new frame, discarding the previous frame's triangles.
func (p *Pipeline) Begin() {
	p.world = p.world[:0]
	p.camera = p.camera[:0]
	p.screen = p.screen[:0]
	p.stats = Stats{}
}

// Add queues world triangles for the current frame. If they would exceed the
// capacity none are added.
func (p *Pipeline) Add(tris ...Triangle) error {
	if len(p.world)+len(tris) > cap(p.world) {
		return fmt.Errorf("add %d to %d of %d: %w", len(tris), len(p.world), cap(p.world), ErrTooManyFaces)
	}
	p.world = append(p.world, tris...)
	return nil
}

// Render draws the queued triangles seen from pose into fb and depth. The
// depth buffer is not cleared first.
func (p *Pipeline) Render(pose Pose, fb *Framebuffer, depth *DepthBuffer, textures *TextureTable) Stats {
	p.camera = p.camera[:0]
	p.screen = p.screen[:0]
	stats := Stats{Submitted: len(p.world)}

	view := pose.ViewMatrix()
	for _, tri := range p.world {
		if !FrontFacing(tri, pose.Position) {
			stats.Culled++
			continue
		}
		n := len(p.camera)
		p.camera = ClipNear(Transform(tri, view), p.Near, p.camera)
		switch len(p.camera) - n {
		case 0:
			stats.ClippedAway++
		case 2:
			stats.Split++
		}
	}

	proj := NewProjector(fb.Width, fb.Height, p.Near)
	for _, ct := range p.camera {
		p.screen = append(p.screen, proj.Project(ct))
	}

	rast := NewRasterizer(fb, depth, textures, p.Near)
	for _, st := range p.screen {
		if p.Wireframe {
			rast.DrawTriangleWire(st, p.WireColor)
		} else {
			rast.DrawTriangle(st)
		}
	}
	stats.Drawn = len(p.screen)
	p.stats = stats

	Logger().Debug("frame rendered",
		"submitted", stats.Submitted,
		"culled", stats.Culled,
		"clipped", stats.ClippedAway,
		"split", stats.Split,
		"drawn", stats.Drawn,
	)
	return stats
}

// Stats returns the statistics of the last Render.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// World returns the triangles queued for the current frame.
func (p *Pipeline) World() []Triangle {
	return p.world
}

// Camera returns the culled, transformed and clipped triangles of the last
// Render.
func (p *Pipeline) Camera() []Triangle {
	return p.camera
}

// Screen returns the projected triangles of the last Render.
func (p *Pipeline) Screen() []ScreenTriangle {
	return p.screen
}
