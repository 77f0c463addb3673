// Package config loads game settings from a JSON file and layers command
// line flags over them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Resolution is an internal render size in pixels.
type Resolution struct {
	Width, Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Resolutions lists the selectable internal resolutions, 4:3 first.
var Resolutions = []Resolution{
	{320, 240},
	{640, 480},
	{800, 600},
	{1024, 768},
	{1280, 1024},
	{320, 180},
	{640, 360},
	{1280, 720},
	{1920, 1080},
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all configurable paths and game settings.
type Config struct {
	// Paths
	TextureDir string `json:"texture_dir"`
	ModelPath  string `json:"model_path"` // Optional GLB prop replacing the dodecahedrons

	// Render settings
	Resolution int     `json:"resolution"` // Index into Resolutions
	Near       float64 `json:"near"`
	FPS        int     `json:"fps"`

	// Maze settings
	Size        int     `json:"size"`
	CellSize    float64 `json:"cell_size"`
	Persistence float64 `json:"persistence"`
	Seed        uint64  `json:"seed"` // 0 picks a time based seed

	Autopilot bool `json:"autopilot"`
}

// Flags holds CLI flag values that override config file settings. Zero
// values leave the file's setting alone.
type Flags struct {
	TextureDir string
	ModelPath  string
	Resolution int // 1-based so zero means unset
	FPS        int
	Size       int
	Seed       uint64
	Autopilot  bool
}

// Default returns the settings used when no file or flag says otherwise.
func Default() Config {
	var c Config
	c.Resolve(Flags{})
	return c
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.TextureDir != "" && !filepath.IsAbs(cfg.TextureDir) {
		cfg.TextureDir = filepath.Join(filepath.Dir(path), cfg.TextureDir)
	}
	if cfg.ModelPath != "" && !filepath.IsAbs(cfg.ModelPath) {
		cfg.ModelPath = filepath.Join(filepath.Dir(path), cfg.ModelPath)
	}
	return cfg, nil
}

// Resolve applies flag overrides then fills unset fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.ModelPath != "" {
		c.ModelPath = flags.ModelPath
	}
	if flags.Resolution > 0 {
		c.Resolution = flags.Resolution - 1
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Size > 0 {
		c.Size = flags.Size
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Autopilot {
		c.Autopilot = true
	}

	if c.TextureDir == "" {
		c.TextureDir = "textures"
	}
	if c.Near <= 0 {
		c.Near = 1
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Size <= 0 {
		c.Size = 10
	}
	if c.CellSize <= 0 {
		c.CellSize = 5
	}
	if c.Persistence == 0 {
		c.Persistence = 2
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
}

// Validate reports settings the game cannot run with.
func (c Config) Validate() error {
	if c.Resolution < 0 || c.Resolution >= len(Resolutions) {
		return fmt.Errorf("%w: resolution %d not in [0, %d)", ErrInvalid, c.Resolution, len(Resolutions))
	}
	if c.Size < 1 || c.CellSize <= 0 {
		return fmt.Errorf("%w: maze size %d, cell size %v", ErrInvalid, c.Size, c.CellSize)
	}
	if c.Persistence < 1 {
		return fmt.Errorf("%w: persistence %v below 1", ErrInvalid, c.Persistence)
	}
	if c.Near <= 0 || c.FPS < 1 {
		return fmt.Errorf("%w: near %v, fps %d", ErrInvalid, c.Near, c.FPS)
	}
	return nil
}

// Screen returns the selected internal resolution. Call Validate first.
func (c Config) Screen() Resolution {
	return Resolutions[c.Resolution]
}
