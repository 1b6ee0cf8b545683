package dash

import (
	"math"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

// Summary is the result of a finished headless run.
type Summary struct {
	Level    Level
	Seed     int64
	Outcome  core.Outcome
	Progress float64
	Pickups  int
	Frames   int
	Events   []core.Event
}

// Simulate plays a level to its end with the autopilot. The result depends only
// on the settings and seed.
func Simulate(s registry.Settings, seed int64) (Summary, error) {
	st, err := resolve(s)
	if err != nil {
		return Summary{}, err
	}

	run := NewRun(st.level, st.layoutFor(seed), &st.cfg, st.mods, core.Player1)
	pilot := NewAutopilot(run, &st.cfg)

	// The cursor advances every frame, so the level always ends by this bound.
	limit := int(math.Ceil(st.level.Length/run.speed)) + 1

	var events []core.Event
	for i := 0; i < limit && !run.Outcome().Terminal(); i++ {
		events = append(events, pilot.Step()...)
	}

	return Summary{
		Level:    st.level,
		Seed:     seed,
		Outcome:  run.Outcome(),
		Progress: run.Progress(),
		Pickups:  run.Pickups(),
		Frames:   run.Frame(),
		Events:   events,
	}, nil
}
