// Package window runs a game in a desktop window using ebiten.
package window

import (
	"errors"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/platform/tui"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

// Options configures the window.
type Options struct {
	Title string
	Scale float64 // Window pixels per world unit; zero means 1
}

// keyboard reports the input state for one update.
type keyboard interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
	MouseDown() bool
}

type ebitenKeyboard struct{}

func (ebitenKeyboard) Pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenKeyboard) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeyboard) MouseDown() bool               { return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) }

// readInput builds the input for one tick. Thrust is held, not toggled: player 1
// uses space, W or the mouse; in versus mode player 2 uses up or K.
func readInput(kb keyboard, versus bool) core.MultiInputFrame {
	in := core.NewMultiInputFrame()

	p1 := kb.Pressed(ebiten.KeySpace) || kb.Pressed(ebiten.KeyW) || kb.MouseDown()
	p2 := kb.Pressed(ebiten.KeyArrowUp) || kb.Pressed(ebiten.KeyK)
	if !versus {
		p1 = p1 || p2
		p2 = false
	}

	var f1, f2 core.InputFrame
	if p1 {
		f1.Set(core.ActionThrust)
	}
	if p2 {
		f2.Set(core.ActionThrust)
	}
	if kb.JustPressed(ebiten.KeyP) {
		f1.Set(core.ActionPause)
	}
	if kb.JustPressed(ebiten.KeyR) {
		f1.Set(core.ActionRestart)
	}
	if kb.JustPressed(ebiten.KeyEscape) || kb.JustPressed(ebiten.KeyQ) {
		f1.Set(core.ActionQuit)
	}

	in.SetPlayer(multiplayer.Player1, f1)
	in.SetPlayer(multiplayer.Player2, f2)
	return in
}

// adapter implements ebiten.Game for a registry game.
type adapter struct {
	game     registry.Game
	multi    multiplayer.MultiGame
	env      tui.Env
	config   core.RuntimeConfig
	keys     keyboard
	versus   bool
	white    *ebiten.Image
	state    core.GameState
	frame    int
	recorded bool
	footer   string
}

func newAdapter(game registry.Game, env tui.Env, cfg core.RuntimeConfig, keys keyboard) *adapter {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	a := &adapter{game: game, env: env, config: cfg, keys: keys}
	if mg, ok := game.(multiplayer.MultiGame); ok {
		a.multi = mg
		a.versus = mg.Mode() == multiplayer.MatchModeLocalVersus
	}
	game.Reset(cfg)
	a.state = game.State()
	return a
}

// Update advances the game by one tick.
func (a *adapter) Update() error {
	in := readInput(a.keys, a.versus)
	p1 := in.Player1()

	if p1.Has(core.ActionQuit) {
		return ebiten.Termination
	}
	if p1.Has(core.ActionRestart) && a.state.GameOver {
		a.game.Reset(a.config)
		a.state = a.game.State()
		a.recorded = false
		a.footer = ""
		return nil
	}

	a.step(in)
	return nil
}

func (a *adapter) step(in core.MultiInputFrame) {
	var result core.StepResult
	if a.multi != nil {
		result = a.multi.StepMulti(in)
	} else {
		result = a.game.Step(in.Player1())
	}
	a.state = result.State

	for _, e := range result.Events {
		if e.Player == multiplayer.Player1 && (e.Kind == core.EventWon || e.Kind == core.EventLost) {
			a.frame = e.Frame
		}
	}

	if a.state.GameOver && !a.recorded {
		a.recorded = true
		if a.env.Profiles == nil {
			return
		}
		reward, err := tui.Record(a.env, a.game, a.state, a.frame)
		if err != nil {
			a.env.Logger.Error("could not record run", "user", a.env.Username, "error", err)
			a.footer = "run not saved"
			return
		}
		a.footer = tui.RewardLine(reward)
	}
}

// Draw renders the game and the reward line.
func (a *adapter) Draw(screen *ebiten.Image) {
	if a.white == nil {
		a.white = ebiten.NewImage(1, 1)
		a.white.Fill(color.White)
	}
	w, h := a.game.Viewport()
	c := NewCanvas(screen, a.white, w, h)
	a.game.Render(c)
	if a.footer != "" {
		c.Text(core.Point{X: 8, Y: h - 20}, a.footer, core.Paint{Color: core.ColorBrightYellow})
	}
}

// Layout keeps the logical screen at the game's world size; ebiten scales it to the window.
func (a *adapter) Layout(int, int) (int, int) {
	w, h := a.game.Viewport()
	return int(w), int(h)
}

// Run opens a window and plays game until the player quits or closes it.
func Run(game registry.Game, env tui.Env, cfg core.RuntimeConfig, opts Options) error {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	title := opts.Title
	if title == "" {
		title = game.Title()
	}

	w, h := game.Viewport()
	ebiten.SetWindowSize(int(w*scale), int(h*scale))
	ebiten.SetWindowTitle(title)
	if cfg.TickRate > 0 {
		ebiten.SetTPS(cfg.TickRate)
	}

	err := ebiten.RunGame(newAdapter(game, env, cfg, ebitenKeyboard{}))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
