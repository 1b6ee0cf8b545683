package dash

import (
	"fmt"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

// Duel plays two independent runs over the same layout, stacked in two lanes.
// The bodies never interact. Player 2 is a bot unless versus mode is on.
type Duel struct {
	setup
	versus  bool
	runtime core.RuntimeConfig
	attempt int64
	seed    int64

	p1, p2 *Run
	bot    *Opponent
	r1, r2 *Renderer
	paused bool
	result multiplayer.Result
}

// NewDuel creates a duel for the given settings.
func NewDuel(s registry.Settings) (*Duel, error) {
	st, err := resolve(s)
	if err != nil {
		return nil, err
	}
	d := &Duel{setup: st, versus: s.Versus}
	d.Reset(core.DefaultConfig())
	d.attempt = 0
	return d, nil
}

// ID returns the unique identifier for this game.
func (d *Duel) ID() string {
	return DuelID
}

// Title returns the display name for this game.
func (d *Duel) Title() string {
	return "Dash Duel"
}

// Mode reports whether player 2 is a bot or a local human.
func (d *Duel) Mode() multiplayer.MatchMode {
	if d.versus {
		return multiplayer.MatchModeLocalVersus
	}
	return multiplayer.MatchModeVsBot
}

// Reset starts a new attempt for both sides on a fresh shared layout.
func (d *Duel) Reset(runtime core.RuntimeConfig) {
	d.runtime = runtime
	d.seed = runtime.Seed + d.attempt
	d.attempt++

	layout := d.layoutFor(d.seed)
	d.p1 = NewRun(d.level, layout, &d.cfg, d.mods, core.Player1)

	if d.versus {
		d.p2 = NewRun(d.level, layout, &d.cfg, d.mods, core.Player2)
		d.bot = nil
	} else {
		d.p2 = NewRun(d.level, layout, &d.cfg, BotModifiers(d.cfg.Opponent, d.mods.Speed), core.Player2)
		d.bot = NewOpponent(d.p2, d.cfg.Opponent, d.seed+1)
	}

	d.r1 = NewRenderer(d.cfg.Track, d.skin, d.seed)
	d.r2 = NewRenderer(d.cfg.Track, d.cfg.DefaultSkin(), d.seed+1)
	d.paused = false
	d.result = multiplayer.Result{}
}

// Step advances the duel with player 1 input only.
func (d *Duel) Step(in core.InputFrame) core.StepResult {
	m := core.NewMultiInputFrame()
	m.SetPlayer(core.Player1, in)
	return d.StepMulti(m)
}

// StepMulti advances both sides by one tick.
func (d *Duel) StepMulti(in core.MultiInputFrame) core.StepResult {
	if d.result.Over {
		return core.StepResult{State: d.State()}
	}

	if in.Player1().Has(core.ActionPause) {
		d.paused = !d.paused
	}
	if d.paused {
		return core.StepResult{State: d.State()}
	}

	events := d.p1.Step(in.Player1().Has(core.ActionThrust))
	if d.bot != nil {
		events = append(events, d.bot.Step()...)
	} else {
		events = append(events, d.p2.Step(in.Player2().Has(core.ActionThrust))...)
	}

	if d.over() {
		d.result = multiplayer.Result{
			Over:   true,
			Winner: multiplayer.Decide(side(d.p1), side(d.p2)),
		}
	}
	return core.StepResult{State: d.State(), Events: events}
}

// over ends versus matches when both runs are done, bot matches when the player is.
func (d *Duel) over() bool {
	if d.versus {
		return d.p1.Outcome().Terminal() && d.p2.Outcome().Terminal()
	}
	return d.p1.Outcome().Terminal()
}

func side(r *Run) multiplayer.Side {
	return multiplayer.Side{
		Outcome:  r.Outcome(),
		Progress: r.Progress(),
		Pickups:  r.Pickups(),
		Frames:   r.Frame(),
	}
}

// Render draws player 1 in the top lane and player 2 below.
func (d *Duel) Render(dst core.Canvas) {
	dst.Clear(paintBackground)
	d.r1.DrawLane(dst, d.p1, "P1")
	label := "BOT"
	if d.versus {
		label = "P2"
	}
	d.r2.DrawLane(core.Offset(dst, 0, d.cfg.Track.ViewHeight), d.p2, label)

	switch {
	case d.paused:
		d.r1.DrawBanner(dst, "PAUSED", "Press P to resume")
	case d.result.Over:
		d.r1.DrawBanner(dst, d.headline(), fmt.Sprintf("%.0f%% vs %.0f%%  |  R rematch  Q quit",
			d.p1.Progress(), d.p2.Progress()))
	}
}

func (d *Duel) headline() string {
	switch d.result.Winner {
	case core.Player1:
		return "P1 WINS"
	case core.Player2:
		if d.versus {
			return "P2 WINS"
		}
		return "BOT WINS"
	default:
		return "DRAW"
	}
}

// Viewport returns the world size of both lanes.
func (d *Duel) Viewport() (float64, float64) {
	return d.cfg.Track.ViewWidth, 2 * d.cfg.Track.ViewHeight
}

// State reports player 1's run; GameOver follows the match.
func (d *Duel) State() core.GameState {
	return core.GameState{
		Score:    d.p1.Pickups(),
		Progress: d.p1.Progress(),
		Outcome:  d.p1.Outcome(),
		GameOver: d.result.Over,
		Paused:   d.paused,
	}
}

// Result returns the match result. Winner is meaningful once Over is set.
func (d *Duel) Result() multiplayer.Result { return d.result }

// Sides summarizes both runs.
func (d *Duel) Sides() (p1, p2 multiplayer.Side) { return side(d.p1), side(d.p2) }

// Runs returns both sides.
func (d *Duel) Runs() (p1, p2 *Run) { return d.p1, d.p2 }

// Seed returns the layout seed of the current attempt.
func (d *Duel) Seed() int64 { return d.seed }

var _ multiplayer.MultiGame = (*Duel)(nil)
