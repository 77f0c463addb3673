// Package maze generates perfect mazes with a persistent random walk and
// turns them into wall segments and renderable faces.
//
// Cells are addressed (x, y) with y growing "up" the map. In world space a
// cell's x maps to world X and its y maps to world Z.
package maze

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

// Direction is a passage flag on a cell.
type Direction uint8

const (
	Left  Direction = 1 << iota // x-1
	Up                          // y+1
	Right                       // x+1
	Down                        // y-1
)

// Directions lists every direction in flag order.
var Directions = [4]Direction{Left, Up, Right, Down}

// visited marks cells during generation. It is cleared before Generate
// returns.
const visited uint8 = 0x80

var (
	// ErrInvalidSize is returned for non-positive maze or cell dimensions.
	ErrInvalidSize = errors.New("invalid maze size")
	// ErrInvalidPersistence is returned for a persistence below one, which
	// would never let the walk take a step.
	ErrInvalidPersistence = errors.New("persistence must be at least 1")
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	}
	return d
}

// Delta returns the cell offset of a step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	}
	return 0, 0
}

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Step returns the neighbouring cell in direction d. The result may lie
// outside the maze.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{c.X + dx, c.Y + dy}
}

// Maze is a rectangular grid of cells whose flags record open passages.
type Maze struct {
	W, H       int
	CellSize   float64 // World units per cell
	Start, End Cell

	cells []uint8
}

// Generate builds a w x h perfect maze with the persistent walk.
//
// The walk starts on a random cell. Each time the current cell has an
// unvisited neighbour, persistence is added to a budget and directions are
// tried in random order, each try spending one unit of budget. Leftover
// fractional budget carries over. When no step is taken the walk restarts
// from a random visited cell that still has unvisited neighbours. Higher
// persistence gives longer corridors.
//
// End is set to the cell farthest from Start.
func Generate(w, h int, cellSize, persistence float64, rng *rand.Rand) (*Maze, error) {
	if w < 1 || h < 1 || !(cellSize > 0) {
		return nil, fmt.Errorf("generate %dx%d cell %v: %w", w, h, cellSize, ErrInvalidSize)
	}
	if !(persistence >= 1) || math.IsInf(persistence, 0) {
		return nil, fmt.Errorf("generate with persistence %v: %w", persistence, ErrInvalidPersistence)
	}

	m := &Maze{
		W:        w,
		H:        h,
		CellSize: cellSize,
		cells:    make([]uint8, w*h),
	}

	cur := Cell{rng.IntN(w), rng.IntN(h)}
	m.Start = cur
	m.cells[m.index(cur)] = visited
	frontier := []int{m.index(cur)}
	budget := 0.0

	for len(frontier) > 0 {
		moved := false
		if m.hasUnvisitedNeighbour(cur) {
			budget += persistence
			order := rng.Perm(len(Directions))
			for i := 0; i < len(order); i++ {
				affordable := budget >= 1
				budget--
				if !affordable || moved {
					break
				}
				d := Directions[order[i]]
				next := cur.Step(d)
				if m.Contains(next) && m.cells[m.index(next)]&visited == 0 {
					m.cells[m.index(cur)] |= uint8(d)
					m.cells[m.index(next)] |= uint8(d.Opposite())
					cur = next
					moved = true
				}
			}
			budget = math.Mod(budget, 1)
		}

		if moved {
			m.cells[m.index(cur)] |= visited
			frontier = append(frontier, m.index(cur))
			continue
		}

		// Dead end: resume from a random visited cell, dropping exhausted ones
		for len(frontier) > 0 {
			k := rng.IntN(len(frontier))
			cur = m.cellAt(frontier[k])
			if m.hasUnvisitedNeighbour(cur) {
				break
			}
			frontier = slices.Delete(frontier, k, k+1)
		}
	}

	for i := range m.cells {
		m.cells[i] &^= visited
	}
	m.Solve()
	return m, nil
}

func (m *Maze) index(c Cell) int {
	return c.Y*m.W + c.X
}

func (m *Maze) cellAt(i int) Cell {
	return Cell{i % m.W, i / m.W}
}

// Contains reports whether c lies inside the maze.
func (m *Maze) Contains(c Cell) bool {
	return c.X >= 0 && c.X < m.W && c.Y >= 0 && c.Y < m.H
}

func (m *Maze) hasUnvisitedNeighbour(c Cell) bool {
	for _, d := range Directions {
		n := c.Step(d)
		if m.Contains(n) && m.cells[m.index(n)]&visited == 0 {
			return true
		}
	}
	return false
}

// Open reports whether a passage leads from c in direction d. Steps off the
// grid are never open.
func (m *Maze) Open(c Cell, d Direction) bool {
	if !m.Contains(c) || !m.Contains(c.Step(d)) {
		return false
	}
	return m.cells[m.index(c)]&uint8(d) != 0
}

// Flags returns the passage flags of c.
func (m *Maze) Flags(c Cell) Direction {
	if !m.Contains(c) {
		return 0
	}
	return Direction(m.cells[m.index(c)])
}

// Center returns the world X and Z of the middle of c.
func (m *Maze) Center(c Cell) (x, z float64) {
	return (float64(c.X) + 0.5) * m.CellSize, (float64(c.Y) + 0.5) * m.CellSize
}

// CellAt returns the cell containing world position (x, z).
func (m *Maze) CellAt(x, z float64) Cell {
	return Cell{int(math.Floor(x / m.CellSize)), int(math.Floor(z / m.CellSize))}
}

// Solve labels every cell with its path distance from Start and moves End to
// the farthest one. It returns the distances, indexed y*W+x, and the
// maximum.
func (m *Maze) Solve() ([]int, int) {
	dist := make([]int, len(m.cells))
	for i := range dist {
		dist[i] = math.MaxInt
	}

	// Explore right, left, up, down so the farthest cell matches the
	// classic ordering.
	order := [4]Direction{Right, Left, Up, Down}

	cur := m.Start
	dist[m.index(cur)] = 0
	stack := []Cell{cur}
	best := 0
	m.End = cur

	for len(stack) > 0 {
		d := dist[m.index(cur)]
		if d > best {
			best = d
			m.End = cur
		}

		advanced := false
		for _, dir := range order {
			next := cur.Step(dir)
			if !m.Open(cur, dir) || dist[m.index(next)] <= d+1 {
				continue
			}
			dist[m.index(next)] = d + 1
			stack = append(stack, next)
			cur = next
			advanced = true
			break
		}
		if advanced {
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			cur = stack[len(stack)-1]
		}
	}
	return dist, best
}

// String draws the maze as text with the top row (largest y) first. S marks
// the start and E the end.
func (m *Maze) String() string {
	var b strings.Builder
	for y := m.H - 1; y >= 0; y-- {
		for x := range m.W {
			b.WriteByte('+')
			if m.Open(Cell{x, y}, Up) {
				b.WriteString("  ")
			} else {
				b.WriteString("--")
			}
		}
		b.WriteString("+\n")

		for x := range m.W {
			c := Cell{x, y}
			if m.Open(c, Left) {
				b.WriteByte(' ')
			} else {
				b.WriteByte('|')
			}
			switch c {
			case m.Start:
				b.WriteString("S ")
			case m.End:
				b.WriteString("E ")
			default:
				b.WriteString("  ")
			}
		}
		b.WriteString("|\n")
	}
	for range m.W {
		b.WriteString("+--")
	}
	b.WriteString("+\n")
	return b.String()
}
