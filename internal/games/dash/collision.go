package dash

import (
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Detector finds overlaps between a player box and the visible part of a layout.
type Detector struct {
	ViewWidth   float64
	HitboxInset float64
}

// Overlaps returns, in layout order, the indices of obstacles inside the visible
// window [cursor-W, cursor+ViewWidth] whose box overlaps the inset player box.
// player is in track space.
func (d Detector) Overlaps(layout Layout, cursor float64, player core.Box) []int {
	hit := player.Inset(d.HitboxInset)
	var out []int
	for i, o := range layout.obstacles {
		if o.X > cursor+d.ViewWidth {
			break
		}
		if o.X < cursor-o.W {
			continue
		}
		if hit.Intersects(o.Box()) {
			out = append(out, i)
		}
	}
	return out
}

// collide resolves this frame's overlaps. Gems are collected once each; the
// first fatal obstacle ends the run unless fails are disabled.
func (r *Run) collide() []core.Event {
	var events []core.Event
	for _, i := range r.detector.Overlaps(r.layout, r.cursor, r.PlayerBox()) {
		o := r.layout.obstacles[i]
		if o.Kind == KindGem {
			if r.collected[i] {
				continue
			}
			r.collected[i] = true
			r.pickups += r.gemValue
			events = append(events, r.event(core.EventPickup))
			continue
		}
		if r.mods.NoFail {
			continue
		}
		r.outcome = core.OutcomeLost
		events = append(events, r.event(core.EventLost))
		break
	}
	return events
}
