// mazevr - walk a generated maze in your terminal, drawn by a software
// rasterizer.
//
// Controls:
//
//	W/Up      - Step forward
//	S/Down    - Turn around
//	A/Left    - Turn left
//	D/Right   - Turn right
//	P         - Toggle autopilot
//	M         - Toggle minimap
//	F         - Toggle FPS counter
//	X         - Toggle wireframe mode (x-ray)
//	N         - New maze
//	Esc/Q     - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/mazevr/pkg/config"
	"github.com/taigrr/mazevr/pkg/game"
	"github.com/taigrr/mazevr/pkg/models"
	"github.com/taigrr/mazevr/pkg/render"
)

var version = "dev"

type options struct {
	configPath string
	logPath    string
	flags      config.Flags
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mazevr",
		Short: "Walk a generated maze in your terminal",
		Long: "mazevr generates a maze and lets you walk it in first person. " +
			"Every frame is drawn by a software rasterizer and shown with half-block characters.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := opts.setup()
			if err != nil {
				return err
			}
			defer closeLog()
			return play(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "JSON config file")
	pf.StringVar(&opts.logPath, "log", "", "write debug logs to this file")
	pf.StringVar(&opts.flags.TextureDir, "textures", "", "texture directory (default \"textures\")")
	pf.StringVar(&opts.flags.ModelPath, "model", "", "GLB model used for the collectibles")
	pf.IntVarP(&opts.flags.Resolution, "resolution", "r", 0, "internal resolution, 1 to 9 (320x240 up to 1920x1080)")
	pf.IntVar(&opts.flags.FPS, "fps", 0, "target frames per second (default 30)")
	pf.IntVarP(&opts.flags.Size, "size", "s", 0, "maze width and height in cells (default 10)")
	pf.Uint64Var(&opts.flags.Seed, "seed", 0, "maze seed (default time based)")
	pf.BoolVar(&opts.flags.Autopilot, "autopilot", false, "let the autopilot walk")

	root.AddCommand(newSnapshotCmd(opts), newMapCmd(opts))
	return root
}

// setup loads the config and starts logging. The returned func closes the
// log file.
func (o *options) setup() (config.Config, func(), error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, nil, err
		}
	}
	cfg.Resolve(o.flags)
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	closeLog := func() {}
	if o.logPath != "" {
		f, err := os.OpenFile(o.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return cfg, nil, fmt.Errorf("open log: %w", err)
		}
		render.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
		closeLog = func() {
			render.SetLogger(nil)
			f.Close()
		}
	}
	return cfg, closeLog, nil
}

// newGame builds a game from cfg, loading the collectible model if one is
// configured.
func newGame(cfg config.Config) (*game.Game, error) {
	var prop *models.Mesh
	if cfg.ModelPath != "" {
		var err error
		if prop, err = models.LoadGLB(cfg.ModelPath); err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		render.Logger().Info("model loaded", "path", cfg.ModelPath, "triangles", prop.TriangleCount())
	}
	return game.Build(cfg, prop, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)))
}

// loadTextures fills every slot, using procedural textures for missing
// files.
func loadTextures(ctx context.Context, cfg config.Config) (*render.TextureTable, error) {
	textures, err := render.LoadTextureTable(ctx, cfg.TextureDir, game.TextureNames(), game.FallbackTexture)
	if err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	render.Logger().Info("textures loaded", "dir", cfg.TextureDir)
	return textures, nil
}
