package dash

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

// Registry IDs.
const (
	GameID = "dash"
	DuelID = "dash_duel"
)

// ErrUnknownSkin is returned when the requested skin is not configured.
var ErrUnknownSkin = errors.New("dash: unknown skin")

// setup is the resolved form of registry.Settings shared by Game and Duel.
type setup struct {
	cfg   config.DashConfig
	level Level
	skin  config.SkinSpec
	mods  Modifiers
}

// resolve validates settings and turns them into a setup. Nothing past this
// point needs to handle bad configuration.
func resolve(s registry.Settings) (setup, error) {
	if err := config.Validate(&s.Config); err != nil {
		return setup{}, err
	}
	level, err := LevelByID(&s.Config, s.Level)
	if err != nil {
		return setup{}, err
	}

	skin := s.Config.DefaultSkin()
	if s.Skin != "" {
		var ok bool
		if skin, ok = s.Config.Skin(s.Skin); !ok {
			return setup{}, fmt.Errorf("%w: %q", ErrUnknownSkin, s.Skin)
		}
	}

	if s.Speed < 0 || math.IsNaN(s.Speed) || math.IsInf(s.Speed, 0) {
		return setup{}, fmt.Errorf("%w: speed multiplier %v", ErrInvalidLevel, s.Speed)
	}

	return setup{
		cfg:   s.Config,
		level: level,
		skin:  skin,
		mods: Modifiers{
			NoFail: s.God,
			God:    s.God,
			Fly:    s.Fly || skin.Fly,
			Speed:  s.Speed,
		},
	}, nil
}

// layoutFor generates the layout of one attempt. The setup is already valid.
func (s *setup) layoutFor(seed int64) Layout {
	layout, err := Generate(s.level, s.cfg.Generator, s.cfg.Track.FloorY, rand.New(rand.NewSource(seed)))
	if err != nil {
		return NewLayout(s.level.Length)
	}
	return layout
}

// Game is the single-player mode: one run, pause and restart.
type Game struct {
	setup
	runtime  core.RuntimeConfig
	attempt  int64
	seed     int64 // Layout seed of the current attempt
	run      *Run
	renderer *Renderer
	paused   bool
}

// New creates a game for the given settings. Reset must be called before Step.
func New(s registry.Settings) (*Game, error) {
	st, err := resolve(s)
	if err != nil {
		return nil, err
	}
	g := &Game{setup: st}
	g.Reset(core.DefaultConfig())
	g.attempt = 0
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Dash"
}

// Reset starts a new attempt. Each attempt after the first derives the next
// layout seed, so a restart plays a fresh layout.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.seed = runtime.Seed + g.attempt
	g.attempt++

	g.run = NewRun(g.level, g.layoutFor(g.seed), &g.cfg, g.mods, core.Player1)
	g.renderer = NewRenderer(g.cfg.Track, g.skin, g.seed)
	g.paused = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.run.Outcome().Terminal() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	events := g.run.Step(in.Has(core.ActionThrust))
	return core.StepResult{State: g.State(), Events: events}
}

// Render draws the current frame.
func (g *Game) Render(dst core.Canvas) {
	dst.Clear(paintBackground)
	g.renderer.DrawLane(dst, g.run, g.skin.Name)

	switch {
	case g.paused:
		g.renderer.DrawBanner(dst, "PAUSED", "Press P to resume")
	case g.run.Outcome() == core.OutcomeWon:
		g.renderer.DrawBanner(dst, "LEVEL COMPLETE", fmt.Sprintf("◆ %d  |  R replay  Q quit", g.run.Pickups()))
	case g.run.Outcome() == core.OutcomeLost:
		g.renderer.DrawBanner(dst, "CRASHED", fmt.Sprintf("%.0f%%  |  R retry  Q quit", g.run.Progress()))
	}
}

// Viewport returns the world size of one lane.
func (g *Game) Viewport() (float64, float64) {
	return g.cfg.Track.ViewWidth, g.cfg.Track.ViewHeight
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.run.Pickups(),
		Progress: g.run.Progress(),
		Outcome:  g.run.Outcome(),
		GameOver: g.run.Outcome().Terminal(),
		Paused:   g.paused,
	}
}

// Run returns the current attempt.
func (g *Game) Run() *Run { return g.run }

// Seed returns the layout seed of the current attempt.
func (g *Game) Seed() int64 { return g.seed }

// Skin returns the skin in use.
func (g *Game) Skin() config.SkinSpec { return g.skin }

// Register the game with the registry
func init() {
	registry.Register(GameID, "Dash", func(s registry.Settings) (registry.Game, error) {
		g, err := New(s)
		if err != nil {
			return nil, err
		}
		return g, nil
	})
	registry.Register(DuelID, "Dash Duel", func(s registry.Settings) (registry.Game, error) {
		d, err := NewDuel(s)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
