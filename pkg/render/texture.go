package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/sync/errgroup"
)

// Texture holds a 2D image for texture mapping. Row 0 is v = 0.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// TextureTable is the fixed set of textures triangles index into.
type TextureTable [MaxTextures]*Texture

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a PNG, JPEG or TGA file. The decoder is
// chosen by extension since TGA has no magic number to sniff.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, err := decoderFor(path)(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", filepath.Base(path), err)
	}
	return TextureFromImage(img), nil
}

func decoderFor(path string) func(io.Reader) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		return tga.Decode
	case ".jpg", ".jpeg":
		return jpeg.Decode
	default:
		return png.Decode
	}
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			// Non-premultiplied so alpha-tested texels keep their color
			c := nrgba(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			tex.Pixels[y*width+x] = c
		}
	}

	return tex
}

func nrgba(c interface{ RGBA() (r, g, b, a uint32) }) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	if a == 0xffff {
		return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	}
	// RGBA returns premultiplied 16-bit values
	return Color{
		R: uint8(r * 0xffff / a >> 8),
		G: uint8(g * 0xffff / a >> 8),
		B: uint8(b * 0xffff / a >> 8),
		A: uint8(a >> 8),
	}
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the nearest texel at (u, v). Coordinates wrap, so the
// texture tiles across any range.
func (t *Texture) Sample(u, v float64) Color {
	u -= math.Floor(u)
	v -= math.Floor(v)

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pixels[y*t.Width+x]
}

// LoadTextureTable loads the named files from dir into their slots
// concurrently. Empty names leave a slot unset. A missing file is replaced by
// fallback(slot) when fallback is non-nil; any other failure is returned.
func LoadTextureTable(ctx context.Context, dir string, names [MaxTextures]string, fallback func(slot int) *Texture) (*TextureTable, error) {
	var table TextureTable
	g, ctx := errgroup.WithContext(ctx)

	for slot, name := range names {
		if name == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, name)
			tex, err := LoadTexture(path)
			switch {
			case err == nil:
				table[slot] = tex
			case errors.Is(err, fs.ErrNotExist) && fallback != nil:
				Logger().Warn("texture missing, using fallback", "slot", slot, "path", path)
				table[slot] = fallback(slot)
			default:
				return fmt.Errorf("load texture slot %d: %w", slot, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	Logger().Info("texture table loaded", "dir", dir)
	return &table, nil
}
