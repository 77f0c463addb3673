package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// BlitTo scales fb onto dst, preserving aspect ratio and centring the
// result. The letterbox area is left untouched.
func (fb *Framebuffer) BlitTo(dst *Framebuffer, scaler draw.Scaler) {
	if fb.Width == 0 || fb.Height == 0 || dst.Width == 0 || dst.Height == 0 {
		return
	}
	rect := fitRect(fb.Width, fb.Height, dst.Width, dst.Height)
	out := image.NewRGBA(image.Rect(0, 0, dst.Width, dst.Height))
	scaler.Scale(out, rect, fb.ToImage(), image.Rect(0, 0, fb.Width, fb.Height), draw.Src, nil)

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Pixels[y*dst.Width+x] = out.RGBAAt(x, y)
		}
	}
}

// Scaled returns a width x height image of fb, letterboxed in opaque black.
func (fb *Framebuffer) Scaled(width, height int, scaler draw.Scaler) *image.RGBA {
	dst := NewFramebuffer(width, height)
	dst.Clear(ColorBlack)
	fb.BlitTo(dst, scaler)
	return dst.ToImage()
}

// fitRect returns the largest rectangle of the source aspect ratio centred
// inside a dw x dh target.
func fitRect(sw, sh, dw, dh int) image.Rectangle {
	scale := min(float64(dh)/float64(sh), float64(dw)/float64(sw))
	w := max(1, int(float64(sw)*scale))
	h := max(1, int(float64(sh)*scale))
	x := (dw - w) / 2
	y := (dh - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return saveImage(path, fb.ToImage())
}

// SaveImage encodes img to path, choosing WebP or PNG by extension.
func SaveImage(path string, img image.Image) error {
	return saveImage(path, img)
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return f.Close()
}
