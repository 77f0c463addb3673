package main

import (
	"context"
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/mazevr/pkg/config"
	"github.com/taigrr/mazevr/pkg/game"
	"github.com/taigrr/mazevr/pkg/render"
	"golang.org/x/image/draw"
)

// event is a key press translated for the frame loop.
type event int

const (
	evQuit event = iota
	evForward
	evBack
	evLeft
	evRight
	evAutopilot
	evMinimap
	evFPS
	evWireframe
	evNewMaze
)

func keyEvent(ev uv.KeyPressEvent) (event, bool) {
	switch {
	case ev.MatchString("escape", "q", "ctrl+c"):
		return evQuit, true
	case ev.MatchString("w", "up"):
		return evForward, true
	case ev.MatchString("s", "down"):
		return evBack, true
	case ev.MatchString("a", "left"):
		return evLeft, true
	case ev.MatchString("d", "right"):
		return evRight, true
	case ev.MatchString("p"):
		return evAutopilot, true
	case ev.MatchString("m"):
		return evMinimap, true
	case ev.MatchString("f"):
		return evFPS, true
	case ev.MatchString("x"):
		return evWireframe, true
	case ev.MatchString("n"):
		return evNewMaze, true
	}
	return 0, false
}

func play(ctx context.Context, cfg config.Config) error {
	g, err := newGame(cfg)
	if err != nil {
		return err
	}
	textures, err := loadTextures(ctx, cfg)
	if err != nil {
		return err
	}
	if err := g.Validate(textures); err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}

	res := cfg.Screen()
	view := newViewport(res.Width, res.Height, cfg.Near, g.FaceCount())
	view.textures = textures

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The event goroutine only forwards; all game state lives in the loop
	events := make(chan event, 16)
	resize := make(chan uv.WindowSizeEvent, 1)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case <-resize:
				default:
				}
				resize <- ev
			case uv.KeyPressEvent:
				if e, ok := keyEvent(ev); ok {
					select {
					case events <- e:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	display := render.NewFramebuffer(width, height*2)
	hud := newHUD()
	showFPS := false
	targetDuration := time.Second / time.Duration(cfg.FPS)

	for {
		frameStart := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-resize:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				display = render.NewFramebuffer(width, height*2)
			case e := <-events:
				switch e {
				case evQuit:
					return nil
				case evForward:
					g.Apply(game.Forward)
				case evBack:
					g.Apply(game.Back)
				case evLeft:
					g.Apply(game.TurnLeft)
				case evRight:
					g.Apply(game.TurnRight)
				case evAutopilot:
					g.SetAutopilot(!g.Autopilot())
				case evMinimap:
					view.minimap = !view.minimap
				case evFPS:
					showFPS = !showFPS
				case evWireframe:
					view.wireframe = !view.wireframe
				case evNewMaze:
					cfg.Seed++
					next, err := newGame(cfg)
					if err != nil {
						return err
					}
					if err := next.Validate(textures); err != nil {
						return fmt.Errorf("validate scene: %w", err)
					}
					g = next
					view.reserve(g.FaceCount())
				}
			default:
				break drain
			}
		}

		g.Update()
		if err := view.render(g); err != nil {
			return err
		}

		display.Clear(render.ColorBlack)
		view.fb.BlitTo(display, draw.ApproxBiLinear)
		display.Draw(term, uv.Rect(0, 0, width, height))

		hud.update()
		hud.draw(term, width, height, g, showFPS)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// hud draws status lines over the frame.
type hud struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	status lipgloss.Style
	banner lipgloss.Style
}

func newHUD() *hud {
	return &hud{
		fpsTime: time.Now(),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5fff87")).
			Background(lipgloss.Color("#000000")).
			Padding(0, 1),
		banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd700")).
			Padding(0, 2),
	}
}

// update counts a frame, refreshing the rate once a second.
func (h *hud) update() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) draw(scr uv.Screen, width, height int, g *game.Game, showFPS bool) {
	if showFPS {
		line := fmt.Sprintf("%.0f FPS  %d left", h.fps, g.Remaining())
		if g.Autopilot() {
			line += "  autopilot"
		}
		uv.NewStyledString(h.status.Render(line)).Draw(scr, uv.Rect(0, 0, width, 1))
	}

	var msg string
	switch {
	case g.Won:
		msg = "You found the exit!  N: new maze  Q: quit"
	case !g.Started():
		msg = "W: forward  A/D: turn  S: turn around  P: autopilot  M: map"
	default:
		return
	}
	text := h.banner.Render(msg)
	col := max((width-lipgloss.Width(text))/2, 0)
	uv.NewStyledString(text).Draw(scr, uv.Rect(col, height-1, width-col, 1))
}
