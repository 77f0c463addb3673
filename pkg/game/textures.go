package game

import (
	"fmt"

	"github.com/taigrr/mazevr/pkg/maze"
	"github.com/taigrr/mazevr/pkg/render"
)

// TitleTexture is the slot of the title card shown before the first move.
const TitleTexture uint8 = 14

// TextureNames returns the file name of every texture slot, relative to the
// texture directory.
func TextureNames() [render.MaxTextures]string {
	var names [render.MaxTextures]string
	names[maze.FloorTexture] = "floor.png"
	names[maze.WallTexture] = "wall.png"
	names[maze.CeilingTexture] = "ceiling.png"
	for i := range maze.GameTextures {
		names[int(maze.FirstGameTexture)+i] = fmt.Sprintf("games/%d.png", i)
	}
	names[TitleTexture] = "title.png"
	names[BoardTexture] = "win.png"
	return names
}

// FallbackTexture returns a procedural stand-in for a slot whose file is
// missing, so the game runs without any assets.
func FallbackTexture(slot int) *render.Texture {
	switch uint8(slot) {
	case maze.FloorTexture:
		return render.NewCheckerTexture(32, 32, 8, render.RGB(90, 90, 100), render.RGB(60, 60, 70))
	case maze.WallTexture:
		return brickTexture()
	case maze.CeilingTexture:
		return render.NewCheckerTexture(32, 32, 16, render.RGB(40, 40, 60), render.RGB(30, 30, 45))
	case BoardTexture, TitleTexture:
		return render.NewCheckerTexture(16, 16, 4, render.RGB(255, 215, 0), render.ColorBlack)
	}

	// Game posters get a distinct hue per slot
	hue := uint8(slot * 23)
	return render.NewCheckerTexture(16, 16, 8, render.RGB(hue, 255-hue, 160), render.RGB(hue/2, 80, 255-hue))
}

// brickTexture draws mortar lines over a brick red fill, half a brick
// offset on alternate rows.
func brickTexture() *render.Texture {
	const size, rows = 32, 4
	brick, mortar := render.RGB(150, 60, 40), render.RGB(200, 200, 190)
	tex := render.NewTexture(size, size)
	for y := range size {
		row := y / (size / rows)
		for x := range size {
			c := brick
			if y%(size/rows) == 0 || (x+row*size/4)%(size/2) == 0 {
				c = mortar
			}
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}
