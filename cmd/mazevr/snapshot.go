package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"
	"github.com/taigrr/mazevr/pkg/config"
	"github.com/taigrr/mazevr/pkg/render"
	"golang.org/x/image/draw"
)

type snapshotOptions struct {
	out       string
	width     int
	height    int
	frames    int
	wireframe bool
	minimap   bool
}

func newSnapshotCmd(opts *options) *cobra.Command {
	so := &snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to an image",
		Long: "Render a single frame to a PNG or WebP file, chosen by the output extension. " +
			"With --frames the game runs that many frames first, driven by the autopilot.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := opts.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			if err := snapshot(cmd, cfg, so); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", so.out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&so.out, "out", "o", "mazevr.png", "output file (.png or .webp)")
	f.IntVar(&so.width, "width", 0, "output width (default internal resolution)")
	f.IntVar(&so.height, "height", 0, "output height (default internal resolution)")
	f.IntVar(&so.frames, "frames", 0, "frames to simulate before capturing")
	f.BoolVarP(&so.wireframe, "wireframe", "x", false, "draw triangle outlines")
	f.BoolVarP(&so.minimap, "minimap", "m", false, "overlay the minimap")
	return cmd
}

func snapshot(cmd *cobra.Command, cfg config.Config, so *snapshotOptions) error {
	if so.frames > 0 {
		cfg.Autopilot = true
	}
	g, err := newGame(cfg)
	if err != nil {
		return err
	}
	textures, err := loadTextures(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if err := g.Validate(textures); err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}

	for range so.frames {
		g.Update()
	}
	g.Settle()

	res := cfg.Screen()
	v := newViewport(res.Width, res.Height, cfg.Near, g.FaceCount())
	v.textures = textures
	v.wireframe = so.wireframe
	v.minimap = so.minimap
	if err := v.render(g); err != nil {
		return err
	}

	var img image.Image = v.fb.ToImage()
	if so.width > 0 || so.height > 0 {
		w, h := outputSize(so.width, so.height, res)
		img = v.fb.Scaled(w, h, draw.CatmullRom)
	}
	return render.SaveImage(so.out, img)
}

// outputSize fills in a missing side from the render aspect ratio. A derived
// side is never smaller than one pixel.
func outputSize(w, h int, res config.Resolution) (int, int) {
	if w <= 0 {
		w = max(1, h*res.Width/res.Height)
	}
	if h <= 0 {
		h = max(1, w*res.Height/res.Width)
	}
	return w, h
}
