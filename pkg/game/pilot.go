package game

import "github.com/taigrr/mazevr/pkg/maze"

// pilot walks the maze depth first, keeping the wall on its right where it
// can and retracing its steps from dead ends.
type pilot struct {
	visited []bool
	stack   []maze.Cell // Path from where the pilot took over to the current cell
	ahead   bool        // Turned toward the next cell, step next
}

// SetAutopilot switches the autopilot. Enabling it starts a fresh walk from
// the current cell.
func (g *Game) SetAutopilot(on bool) {
	g.autopilot = on
	if !on {
		return
	}
	g.pilot = pilot{
		visited: make([]bool, g.Maze.W*g.Maze.H),
		stack:   []maze.Cell{g.cell},
	}
}

// Autopilot reports whether the autopilot is driving.
func (g *Game) Autopilot() bool {
	return g.autopilot
}

// pilotStep takes one turn or one step.
func (g *Game) pilotStep() {
	p := &g.pilot
	m := g.Maze
	p.visited[g.cell.Y*m.W+g.cell.X] = true

	if p.ahead {
		p.ahead = false
		g.pilotForward()
		return
	}

	// Right, straight, left, behind
	for _, q := range [4]int{1, 0, -1, 2} {
		d := g.heading.Turn(q).Direction()
		next := g.cell.Step(d)
		if m.Open(g.cell, d) && !p.visited[next.Y*m.W+next.X] {
			g.pilotTurn(q)
			return
		}
	}

	if len(p.stack) < 2 {
		return
	}
	back := p.stack[len(p.stack)-2]
	for _, q := range [4]int{0, 1, -1, 2} {
		if g.cell.Step(g.heading.Turn(q).Direction()) == back {
			g.pilotTurn(q)
			return
		}
	}
}

// pilotTurn faces q quarter turns clockwise, or steps if q is zero.
func (g *Game) pilotTurn(q int) {
	if q == 0 {
		g.pilotForward()
		return
	}
	g.turn(q)
	g.pilot.ahead = true
}

func (g *Game) pilotForward() {
	if !g.forward() {
		return
	}
	p := &g.pilot
	if n := len(p.stack); n >= 2 && p.stack[n-2] == g.cell {
		p.stack = p.stack[:n-1]
	} else {
		p.stack = append(p.stack, g.cell)
	}
}
