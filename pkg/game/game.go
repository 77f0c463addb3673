// Package game holds the maze walk: grid movement with spring-smoothed
// camera motion, collectibles that flip the world upside down, the exit
// board and an optional autopilot.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/mazevr/pkg/config"
	"github.com/taigrr/mazevr/pkg/math3d"
	"github.com/taigrr/mazevr/pkg/maze"
	"github.com/taigrr/mazevr/pkg/models"
	"github.com/taigrr/mazevr/pkg/render"
)

const (
	// EyeHeight is the camera and collectible height above the floor.
	EyeHeight = maze.WallHeight / 2
	// CollectRadius is how close a collectible must be to the cell entered.
	CollectRadius = 0.5
	// ItemRadius sizes the built-in dodecahedron.
	ItemRadius = 0.5

	// BoardTexture is the texture slot of the exit board.
	BoardTexture uint8 = 15

	// titleDistance keeps the title card inside the start cell.
	titleDistance = 2.0
)

// Spring tuning: frequency 6 settles a move in about half a second,
// damping 1 is critically damped so turns never overshoot.
const (
	springFrequency = 6.0
	springDamping   = 1.0
)

// ErrSceneTooLarge is returned when the maze would not fit one frame.
var ErrSceneTooLarge = errors.New("scene exceeds frame budget")

// Heading is a grid facing: 0 along +Z, then clockwise seen from above.
type Heading int

const (
	HeadingUp    Heading = iota // +Z
	HeadingRight                // +X
	HeadingDown                 // -Z
	HeadingLeft                 // -X
)

// Turn returns the heading q quarter turns clockwise from h.
func (h Heading) Turn(q int) Heading {
	return Heading(((int(h)+q)%4 + 4) % 4)
}

// Direction maps the heading onto the maze grid.
func (h Heading) Direction() maze.Direction {
	return [4]maze.Direction{maze.Up, maze.Right, maze.Down, maze.Left}[h.Turn(0)]
}

func (h Heading) String() string {
	return [4]string{"up", "right", "down", "left"}[h.Turn(0)]
}

// Action is a player command.
type Action int

const (
	Forward Action = iota
	Back           // Turn around
	TurnLeft
	TurnRight
)

// Collectible is a spinning item waiting in a maze cell.
type Collectible struct {
	Cell   maze.Cell
	Pos    math3d.Vec3
	Rot    math3d.Vec3
	Active bool
}

// Game is one walk through one maze.
type Game struct {
	Maze  *maze.Maze
	Items []Collectible
	Won   bool

	cell    maze.Cell
	turns   int // Quarter turns clockwise since the start
	flips   int // Half rolls since the start
	heading Heading

	spring        harmonica.Spring
	dt            float64
	x, xVel       float64
	z, zVel       float64
	yaw, yawVel   float64
	roll, rollVel float64

	static  []render.Triangle
	item    []render.Triangle
	board   []render.Triangle
	title   []render.Triangle
	started bool // Title card hides once the player acts

	autopilot bool
	pilot     pilot
}

// Build generates a maze from cfg and populates it. prop replaces the
// dodecahedron collectibles when non-nil; it should already be fitted to
// about unit size.
func Build(cfg config.Config, prop *models.Mesh, rng *rand.Rand) (*Game, error) {
	m, err := maze.Generate(cfg.Size, cfg.Size, cfg.CellSize, cfg.Persistence, rng)
	if err != nil {
		return nil, fmt.Errorf("build game: %w", err)
	}

	fps := max(cfg.FPS, 1)
	g := &Game{
		Maze:   m,
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		dt:     1 / float64(fps),
		static: m.Faces(rng),
		board:  models.EndBoard().Triangles(BoardTexture, render.ColorWhite),
		title:  models.EndBoard().Triangles(TitleTexture, render.ColorWhite),
	}
	if prop != nil {
		g.item = prop.Triangles(render.NoTexture, render.ColorGray)
	} else {
		g.item = models.Dodecahedron(ItemRadius).Triangles(render.NoTexture, render.ColorGray)
	}

	g.placeItems(max(1, cfg.Size*cfg.Size/30), rng)
	if n := g.FaceCount(); n > render.MaxFaces {
		return nil, fmt.Errorf("build game with %d faces: %w", n, ErrSceneTooLarge)
	}

	g.cell = m.Start
	g.x, g.z = m.Center(m.Start)
	g.SetAutopilot(cfg.Autopilot)

	render.Logger().Info("maze generated",
		"size", cfg.Size,
		"seed", cfg.Seed,
		"faces", len(g.static),
		"items", len(g.Items),
		"start", m.Start,
		"end", m.End,
	)
	return g, nil
}

// placeItems puts up to n collectibles on distinct cells other than the
// start and the end.
func (g *Game) placeItems(n int, rng *rand.Rand) {
	m := g.Maze
	var free []maze.Cell
	for y := range m.H {
		for x := range m.W {
			c := maze.Cell{X: x, Y: y}
			if c != m.Start && c != m.End {
				free = append(free, c)
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	for _, c := range free[:min(n, len(free))] {
		x, z := m.Center(c)
		g.Items = append(g.Items, Collectible{
			Cell:   c,
			Pos:    math3d.V3(x, EyeHeight, z),
			Active: true,
		})
	}
}

// FaceCount returns the most triangles a frame can submit.
func (g *Game) FaceCount() int {
	return len(g.static) + len(g.board) + len(g.title) + len(g.Items)*len(g.item)
}

// Cell returns the cell the player stands in or is moving to.
func (g *Game) Cell() maze.Cell {
	return g.cell
}

// Heading returns the facing the player is turning or turned to.
func (g *Game) Heading() Heading {
	return g.heading
}

// UpsideDown reports whether the roll target leaves the view inverted.
func (g *Game) UpsideDown() bool {
	return g.flips%2 != 0
}

// Apply performs a player action. Manual input takes over from the
// autopilot. Left and right swap while upside down so they keep matching
// the screen.
func (g *Game) Apply(a Action) {
	g.autopilot = false
	g.started = true
	switch a {
	case Forward:
		g.forward()
	case Back:
		g.turn(2)
	case TurnLeft, TurnRight:
		q := 1
		if a == TurnLeft {
			q = -1
		}
		if g.UpsideDown() {
			q = -q
		}
		g.turn(q)
	}
}

func (g *Game) turn(q int) {
	g.turns += q
	g.heading = g.heading.Turn(q)
}

// forward steps one cell if a passage is open and reports whether it moved.
func (g *Game) forward() bool {
	d := g.heading.Direction()
	if !g.Maze.Open(g.cell, d) {
		return false
	}
	g.cell = g.cell.Step(d)
	g.collect()
	if g.cell == g.Maze.End && !g.Won {
		g.Won = true
		render.Logger().Info("maze solved", "cell", g.cell)
	}
	return true
}

// collect takes every active item near the centre of the current cell.
func (g *Game) collect() {
	x, z := g.Maze.Center(g.cell)
	for i := range g.Items {
		it := &g.Items[i]
		if !it.Active || math.Hypot(it.Pos.X-x, it.Pos.Z-z) >= CollectRadius {
			continue
		}
		it.Active = false
		g.flips++
		render.Logger().Debug("item collected", "cell", it.Cell, "upside_down", g.UpsideDown())
	}
}

// Remaining returns how many items are still active.
func (g *Game) Remaining() int {
	n := 0
	for _, it := range g.Items {
		if it.Active {
			n++
		}
	}
	return n
}

// Update advances one frame: items spin, the camera springs toward its
// targets and the autopilot acts once the camera has settled.
func (g *Game) Update() {
	dt := g.dt
	for i := range g.Items {
		switch i % 3 {
		case 0:
			g.Items[i].Rot.X += dt
		case 1:
			g.Items[i].Rot.Y += dt
		default:
			g.Items[i].Rot.Z += dt
		}
	}

	tx, tz := g.Maze.Center(g.cell)
	g.x, g.xVel = g.spring.Update(g.x, g.xVel, tx)
	g.z, g.zVel = g.spring.Update(g.z, g.zVel, tz)
	g.yaw, g.yawVel = g.spring.Update(g.yaw, g.yawVel, g.yawTarget())
	g.roll, g.rollVel = g.spring.Update(g.roll, g.rollVel, g.rollTarget())

	if g.autopilot && !g.Won && g.Settled() {
		g.started = true
		g.pilotStep()
	}
}

func (g *Game) yawTarget() float64 {
	return float64(g.turns) * math.Pi / 2
}

func (g *Game) rollTarget() float64 {
	return float64(g.flips) * math.Pi
}

// Settled reports whether the camera has all but reached its targets.
func (g *Game) Settled() bool {
	const eps = 0.05
	tx, tz := g.Maze.Center(g.cell)
	return math.Abs(g.x-tx) < eps*g.Maze.CellSize &&
		math.Abs(g.z-tz) < eps*g.Maze.CellSize &&
		math.Abs(g.yaw-g.yawTarget()) < eps &&
		math.Abs(g.roll-g.rollTarget()) < eps
}

// Settle jumps the camera to its targets.
func (g *Game) Settle() {
	g.x, g.z = g.Maze.Center(g.cell)
	g.yaw, g.roll = g.yawTarget(), g.rollTarget()
	g.xVel, g.zVel, g.yawVel, g.rollVel = 0, 0, 0, 0
}

// Pose returns the current camera.
func (g *Game) Pose() render.Pose {
	return render.Pose{
		Position: math3d.V3(g.x, EyeHeight, g.z),
		Yaw:      g.yaw,
		Roll:     g.roll,
	}
}

// Started reports whether the player or autopilot has acted yet.
func (g *Game) Started() bool {
	return g.started
}

// AppendFaces appends this frame's world triangles to dst: the title card
// until the first action, active items at their spin, the exit board turned
// toward the camera, then the maze.
func (g *Game) AppendFaces(dst []render.Triangle) []render.Triangle {
	pose := g.Pose()
	facing := math3d.V3(pose.Pitch, pose.Yaw, 0)

	if !g.started {
		at := pose.Position.Add(pose.Forward().Scale(titleDistance))
		dst = render.PlaceAll(dst, g.title, at, facing)
	}

	for _, it := range g.Items {
		if it.Active {
			dst = render.PlaceAll(dst, g.item, it.Pos, it.Rot)
		}
	}

	ex, ez := g.Maze.Center(g.Maze.End)
	dst = render.PlaceAll(dst, g.board, math3d.V3(ex, EyeHeight, ez), facing)

	return append(dst, g.static...)
}

// Validate checks every face the game can submit against the texture table.
func (g *Game) Validate(textures *render.TextureTable) error {
	for _, set := range [][]render.Triangle{g.static, g.item, g.board, g.title} {
		for i, t := range set {
			if err := render.ValidateTriangle(t, textures); err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
		}
	}
	return nil
}
