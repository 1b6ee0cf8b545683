package dash

import (
	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Modifiers change how a run plays without changing its level.
type Modifiers struct {
	NoFail bool    // Fatal obstacles are ignored
	God    bool    // The player asked for NoFail; the HUD shows it
	Fly    bool    // Fly physics instead of jumping
	Speed  float64 // Debug scroll multiplier; zero means 1
}

// Run is one attempt at a level: a body, a world cursor and an outcome.
// A run never changes its layout. Stepping a terminal run is a no-op.
type Run struct {
	level    Level
	layout   Layout
	player   core.PlayerID
	mods     Modifiers
	integ    Integrator
	detector Detector
	playerX  float64
	speed    float64 // World units per frame
	gemValue int

	body      Body
	start     Body
	cursor    float64
	progress  float64
	collected map[int]bool
	pickups   int
	outcome   core.Outcome
	frame     int
	prevHeld  bool
}

// NewRun creates a run positioned at the start of the layout.
func NewRun(level Level, layout Layout, cfg *config.DashConfig, mods Modifiers, player core.PlayerID) *Run {
	speedMul := mods.Speed
	if speedMul <= 0 {
		speedMul = 1
	}

	r := &Run{
		level:  level,
		layout: layout,
		player: player,
		mods:   mods,
		integ: Integrator{
			Physics:    cfg.Physics,
			FloorY:     cfg.Track.FloorY,
			Multiplier: level.Multiplier,
		},
		detector: Detector{
			ViewWidth:   cfg.Track.ViewWidth,
			HitboxInset: cfg.Player.HitboxInset,
		},
		playerX:  cfg.Track.PlayerX,
		speed:    cfg.Track.BaseSpeed * level.Multiplier * speedMul,
		gemValue: cfg.Rewards.GemValue,
		start:    NewBody(cfg.Player, cfg.Track.FloorY),
	}
	r.Restart()
	return r
}

// Restart puts the body and cursor back to their initial values and clears
// collected gems. The layout is kept; callers that want a new layout build a new Run.
func (r *Run) Restart() {
	r.body = r.start
	r.cursor = 0
	r.progress = 0
	r.collected = make(map[int]bool)
	r.pickups = 0
	r.outcome = core.OutcomeInProgress
	r.frame = 0
	r.prevHeld = false
}

// Step advances the run by one frame with the given thrust state.
// Order: integrate, scroll, progress, win check, collision.
func (r *Run) Step(held bool) []core.Event {
	if r.outcome.Terminal() {
		return nil
	}
	r.frame++

	rising := held && !r.prevHeld
	r.prevHeld = held
	r.integ.Step(&r.body, Control{Held: held, Rising: rising, Flying: r.mods.Fly})

	r.cursor += r.speed
	r.progress = core.ClampF(r.cursor/r.level.Length*100, 0, 100)

	if r.progress >= 100 {
		r.outcome = core.OutcomeWon
		return []core.Event{r.event(core.EventWon)}
	}

	return r.collide()
}

// Fail ends an in-progress run as lost. Used by opponents whose failures are
// decided outside the geometry.
func (r *Run) Fail() []core.Event {
	if r.outcome.Terminal() {
		return nil
	}
	r.outcome = core.OutcomeLost
	return []core.Event{r.event(core.EventLost)}
}

func (r *Run) event(kind core.EventKind) core.Event {
	return core.Event{
		Kind:     kind,
		Player:   r.player,
		Pickups:  r.pickups,
		Progress: r.progress,
		Frame:    r.frame,
	}
}

// PlayerBox returns the full player bounds in track space.
func (r *Run) PlayerBox() core.Box {
	return core.NewBox(r.cursor+r.playerX, r.body.Y, r.body.W, r.body.H)
}

// Level returns the level being played.
func (r *Run) Level() Level { return r.level }

// Layout returns the obstacle layout.
func (r *Run) Layout() Layout { return r.layout }

// Player returns the side this run belongs to.
func (r *Run) Player() core.PlayerID { return r.player }

// Modifiers returns the run modifiers.
func (r *Run) Modifiers() Modifiers { return r.mods }

// Body returns a copy of the current body.
func (r *Run) Body() Body { return r.body }

// Cursor returns the scrolled distance.
func (r *Run) Cursor() float64 { return r.cursor }

// PlayerX returns the fixed horizontal view position of the body.
func (r *Run) PlayerX() float64 { return r.playerX }

// Progress returns the completion percentage in [0, 100].
func (r *Run) Progress() float64 { return r.progress }

// Pickups returns the pickup counter.
func (r *Run) Pickups() int { return r.pickups }

// Collected reports whether the i-th obstacle was picked up in this run.
func (r *Run) Collected(i int) bool { return r.collected[i] }

// Outcome returns the run outcome.
func (r *Run) Outcome() core.Outcome { return r.outcome }

// Frame returns the number of frames stepped.
func (r *Run) Frame() int { return r.frame }
