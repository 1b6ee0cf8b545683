package dash

import (
	"math/rand"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Opponent drives a run with a probabilistic jump heuristic.
//
// With the coinflip model the bot's crashes ignore geometry: every fatal
// obstacle that reaches the bot is judged once and ends the run with
// CrashChance. The run must be built with NoFail so the geometry pass only
// collects gems; BotModifiers does that. With the geometry model the bot
// crashes exactly like the player.
type Opponent struct {
	run    *Run
	cfg    config.DashOpponent
	rng    *rand.Rand
	ahead  int // First obstacle not yet fully behind the bot
	judged int // First obstacle not yet judged by the coinflip model
}

// BotModifiers returns run modifiers matching the opponent model.
func BotModifiers(oc config.DashOpponent, speed float64) Modifiers {
	return Modifiers{NoFail: oc.Model == config.OpponentCoinflip, Speed: speed}
}

// NewOpponent attaches a bot to a run. seed only feeds the bot's decisions.
func NewOpponent(run *Run, oc config.DashOpponent, seed int64) *Opponent {
	return &Opponent{
		run: run,
		cfg: oc,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Run returns the run the bot plays.
func (o *Opponent) Run() *Run { return o.run }

// Step decides the bot's input and advances its run by one frame.
func (o *Opponent) Step() []core.Event {
	if o.run.Outcome().Terminal() {
		return nil
	}

	events := o.run.Step(o.wantsJump())
	if o.cfg.Model == config.OpponentCoinflip && !o.run.Outcome().Terminal() {
		events = append(events, o.judge()...)
	}
	return events
}

// wantsJump rolls the jump chance while grounded with a fatal obstacle in the lookahead window.
func (o *Opponent) wantsJump() bool {
	if !o.run.Body().Grounded {
		return false
	}
	if _, ok := o.nextFatal(o.cfg.Lookahead); !ok {
		return false
	}
	return o.rng.Float64() < o.cfg.JumpChance
}

// nextFatal returns the distance from the bot's front edge to the nearest
// fatal obstacle not yet passed, if it is within reach.
func (o *Opponent) nextFatal(reach float64) (float64, bool) {
	box := o.run.PlayerBox()
	layout := o.run.Layout()
	for o.ahead < layout.Len() && layout.At(o.ahead).Box().Right() < box.X {
		o.ahead++
	}
	for i := o.ahead; i < layout.Len(); i++ {
		ob := layout.At(i)
		dist := ob.X - box.Right()
		if dist > reach {
			return 0, false
		}
		if ob.Kind.Fatal() {
			return dist, true
		}
	}
	return 0, false
}

// judge flips the crash coin for every fatal obstacle that reached the bot this frame.
func (o *Opponent) judge() []core.Event {
	front := o.run.PlayerBox().Right()
	layout := o.run.Layout()
	for o.judged < layout.Len() && layout.At(o.judged).X <= front {
		ob := layout.At(o.judged)
		o.judged++
		if ob.Kind.Fatal() && o.rng.Float64() < o.cfg.CrashChance {
			return o.run.Fail()
		}
	}
	return nil
}

// Autopilot plays a run without randomness: it jumps a fixed number of frames
// before reaching the next fatal obstacle, or hovers when flying.
// Used for headless simulation.
type Autopilot struct {
	run    *Run
	lead   float64 // Frames of lead before contact
	hoverY float64 // Body top to hold while flying
	speed  float64
	ahead  int
}

// Default autopilot tuning.
const (
	autopilotLead  = 12
	autopilotHover = 150
)

// NewAutopilot attaches a deterministic driver to a run.
func NewAutopilot(run *Run, cfg *config.DashConfig) *Autopilot {
	speed := run.speed
	if speed <= 0 {
		speed = cfg.Track.BaseSpeed
	}
	return &Autopilot{
		run:    run,
		lead:   autopilotLead,
		hoverY: cfg.Track.FloorY - autopilotHover,
		speed:  speed,
	}
}

// Held returns the thrust state for the next frame.
func (a *Autopilot) Held() bool {
	b := a.run.Body()
	if a.run.Modifiers().Fly {
		return b.Y > a.hoverY
	}
	if !b.Grounded {
		return false
	}

	box := a.run.PlayerBox()
	layout := a.run.Layout()
	for a.ahead < layout.Len() && layout.At(a.ahead).Box().Right() < box.X {
		a.ahead++
	}
	for i := a.ahead; i < layout.Len(); i++ {
		ob := layout.At(i)
		if !ob.Kind.Fatal() {
			continue
		}
		return ob.X-box.Right() <= a.lead*a.speed
	}
	return false
}

// Step advances the run by one frame.
func (a *Autopilot) Step() []core.Event {
	return a.run.Step(a.Held())
}
