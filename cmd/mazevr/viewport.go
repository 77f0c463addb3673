package main

import (
	"github.com/taigrr/mazevr/pkg/game"
	"github.com/taigrr/mazevr/pkg/render"
)

// skyColor fills pixels no face covers, which only happens through gaps at the
// maze edge or in wireframe mode.
var skyColor = render.RGB(20, 20, 30)

// viewport owns the internal framebuffer and the pipeline feeding it.
type viewport struct {
	fb       *render.Framebuffer
	depth    *render.DepthBuffer
	pipeline *render.Pipeline
	textures *render.TextureTable
	faces    []render.Triangle

	wireframe bool
	minimap   bool
}

func newViewport(width, height int, near float64, faces int) *viewport {
	return &viewport{
		fb:       render.NewFramebuffer(width, height),
		depth:    render.NewDepthBuffer(width, height),
		pipeline: render.NewPipeline(near, faces),
		faces:    make([]render.Triangle, 0, faces),
	}
}

// render draws one frame of g.
func (v *viewport) render(g *game.Game) error {
	v.fb.Clear(skyColor)
	v.depth.Clear()

	v.faces = g.AppendFaces(v.faces[:0])
	v.pipeline.Begin()
	if err := v.pipeline.Add(v.faces...); err != nil {
		return err
	}
	v.pipeline.Wireframe = v.wireframe
	v.pipeline.Render(g.Pose(), v.fb, v.depth, v.textures)

	if v.minimap {
		scale := max(1, min(v.fb.Width, v.fb.Height)/(3*max(g.Maze.W, g.Maze.H)))
		g.DrawMinimap(v.fb, 2, 2, scale)
	}
	return nil
}

// reserve grows the per-frame triangle budget to at least faces.
func (v *viewport) reserve(faces int) {
	if faces <= v.pipeline.Capacity() {
		return
	}
	v.pipeline = render.NewPipeline(v.pipeline.Near, faces)
	v.faces = make([]render.Triangle, 0, faces)
}
