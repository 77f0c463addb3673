package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// indexTexture returns a texture whose texel (x, y) has R=x and G=y.
func indexTexture(w, h int) *Texture {
	tex := NewTexture(w, h)
	for y := range h {
		for x := range w {
			tex.SetPixel(x, y, RGB(uint8(x), uint8(y), 0))
		}
	}
	return tex
}

func TestTextureSample(t *testing.T) {
	tex := indexTexture(4, 4)

	tests := []struct {
		name         string
		u, v         float64
		wantX, wantY int
	}{
		{"origin", 0, 0, 0, 0},
		{"row zero is v zero", 0.3, 0.1, 1, 0},
		{"last texel", 0.999, 0.999, 3, 3},
		{"wraps above one", 1.25, 2.5, 1, 2},
		{"wraps below zero", -0.75, -0.01, 1, 3},
		{"exact one wraps to zero", 1, 1, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tex.Sample(tc.u, tc.v)
			if int(got.R) != tc.wantX || int(got.G) != tc.wantY {
				t.Errorf("Sample(%v, %v) = texel (%d, %d), want (%d, %d)", tc.u, tc.v, got.R, got.G, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	img.SetNRGBA(10, 10, color.NRGBA{200, 100, 50, 128})
	img.SetNRGBA(11, 10, color.NRGBA{255, 255, 255, 0})

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", tex.Width, tex.Height)
	}

	half := tex.GetPixel(0, 0)
	if half.A != 128 {
		t.Errorf("alpha = %d, want 128", half.A)
	}
	for _, ch := range []struct {
		got, want uint8
	}{{half.R, 200}, {half.G, 100}, {half.B, 50}} {
		if d := int(ch.got) - int(ch.want); d < -2 || d > 2 {
			t.Errorf("channel = %d, want about %d", ch.got, ch.want)
		}
	}

	if got := tex.GetPixel(1, 0); got != (Color{}) {
		t.Errorf("transparent texel = %v, want zero", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	tests := []struct {
		x, y int
		want Color
	}{
		{0, 0, ColorWhite},
		{1, 1, ColorWhite},
		{2, 0, ColorBlack},
		{0, 2, ColorBlack},
		{3, 3, ColorWhite},
	}
	for _, tc := range tests {
		if got := tex.GetPixel(tc.x, tc.y); got != tc.want {
			t.Errorf("GetPixel(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if got := tex.GetPixel(4, 0); got != (Color{}) {
		t.Errorf("out of bounds = %v, want zero", got)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTextureTable(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "floor.png"), 2, 3, ColorRed)
	writePNG(t, filepath.Join(dir, "wall.png"), 4, 4, ColorGreen)

	var names [MaxTextures]string
	names[0] = "floor.png"
	names[1] = "wall.png"
	names[5] = "missing.png"

	fallbackSlots := make(chan int, MaxTextures)
	fallback := func(slot int) *Texture {
		fallbackSlots <- slot
		return NewCheckerTexture(8, 8, 4, ColorWhite, ColorGray)
	}

	table, err := LoadTextureTable(context.Background(), dir, names, fallback)
	if err != nil {
		t.Fatalf("LoadTextureTable() error = %v", err)
	}

	if tex := table[0]; tex == nil || tex.Width != 2 || tex.Height != 3 || tex.GetPixel(1, 2) != ColorRed {
		t.Errorf("slot 0 = %+v", tex)
	}
	if tex := table[1]; tex == nil || tex.GetPixel(0, 0) != ColorGreen {
		t.Errorf("slot 1 not loaded")
	}
	if tex := table[5]; tex == nil || tex.Width != 8 {
		t.Errorf("slot 5 did not use the fallback")
	}
	if table[2] != nil {
		t.Errorf("unnamed slot 2 = %+v, want nil", table[2])
	}

	close(fallbackSlots)
	var slots []int
	for s := range fallbackSlots {
		slots = append(slots, s)
	}
	if len(slots) != 1 || slots[0] != 5 {
		t.Errorf("fallback called for %v, want [5]", slots)
	}
}

func TestLoadTextureTableErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	blank := func(int) *Texture { return NewTexture(1, 1) }

	tests := []struct {
		name     string
		file     string
		fallback func(int) *Texture
		notExist bool
	}{
		{"missing without fallback", "missing.png", nil, true},
		{"undecodable with fallback", "broken.png", blank, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var names [MaxTextures]string
			names[3] = tc.file

			table, err := LoadTextureTable(context.Background(), dir, names, tc.fallback)
			if err == nil {
				t.Fatalf("LoadTextureTable() = %v, want error", table)
			}
			if got := errors.Is(err, fs.ErrNotExist); got != tc.notExist {
				t.Errorf("errors.Is(err, fs.ErrNotExist) = %v, want %v (err: %v)", got, tc.notExist, err)
			}
		})
	}
}

func BenchmarkTextureSample(b *testing.B) {
	tex := NewCheckerTexture(64, 64, 8, ColorWhite, ColorGray)
	u := 0.0
	for b.Loop() {
		_ = tex.Sample(u, u*0.5)
		u += 0.013
	}
}

func TestLoadTextureTGA(t *testing.T) {
	// 3x3 uncompressed true-color image of red BGR pixels
	data := []byte{
		0, 0, 2, // no id, no color map, true-color
		0, 0, 0, 0, 0, // color map spec
		0, 0, 0, 0, // origin
		3, 0, 3, 0, // 3x3
		24, 0, // bits per pixel, descriptor
	}
	for range 9 {
		data = append(data, 0, 0, 255)
	}
	path := filepath.Join(t.TempDir(), "red.tga")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture() error = %v", err)
	}
	if tex.Width != 3 || tex.Height != 3 {
		t.Fatalf("size = %dx%d, want 3x3", tex.Width, tex.Height)
	}
	for _, p := range [][2]int{{0, 0}, {1, 1}, {2, 2}} {
		if got := tex.GetPixel(p[0], p[1]); got != ColorRed {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
}
