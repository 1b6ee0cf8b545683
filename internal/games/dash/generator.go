package dash

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Kind is an obstacle variant.
type Kind int

const (
	KindSpike Kind = iota
	KindBlock
	KindGem
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindSpike:
		return "spike"
	case KindBlock:
		return "block"
	case KindGem:
		return "gem"
	default:
		return "unknown"
	}
}

// Fatal reports whether touching the obstacle ends the run.
func (k Kind) Fatal() bool {
	return k == KindSpike || k == KindBlock
}

// Obstacle is a single track element. X is a track position; Y is the top edge.
type Obstacle struct {
	X, Y float64
	W, H float64
	Kind Kind
}

// Box returns the obstacle bounds in track space.
func (o Obstacle) Box() core.Box {
	return core.NewBox(o.X, o.Y, o.W, o.H)
}

// Layout is the ordered obstacle list of one attempt. It is never mutated after
// generation; per-run state such as collected gems lives on the Run.
type Layout struct {
	obstacles []Obstacle
	length    float64
}

// Len returns the number of obstacles.
func (l Layout) Len() int { return len(l.obstacles) }

// At returns the i-th obstacle.
func (l Layout) At(i int) Obstacle { return l.obstacles[i] }

// Length returns the track length the layout was generated for.
func (l Layout) Length() float64 { return l.length }

// Obstacles returns a copy of the obstacle list.
func (l Layout) Obstacles() []Obstacle {
	out := make([]Obstacle, len(l.obstacles))
	copy(out, l.obstacles)
	return out
}

// NewLayout builds a layout from explicit obstacles, sorted or not.
// Used by tests and hand-authored tracks.
func NewLayout(length float64, obstacles ...Obstacle) Layout {
	out := make([]Obstacle, len(obstacles))
	copy(out, obstacles)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].X < out[j-1].X; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return Layout{obstacles: out, length: length}
}

// Generate lays out obstacles for a level.
// The first slot is at StartOffset; each following slot is SpacingBase divided by
// the level multiplier plus a jitter in [0, Jitter] further along. Generation
// stops before the tail margin. Equal seeds give equal layouts.
func Generate(level Level, g config.DashGenerator, floorY float64, rng *rand.Rand) (Layout, error) {
	if err := level.Validate(); err != nil {
		return Layout{}, err
	}
	if !(g.SpacingBase > 0) || g.Jitter < 0 || g.Weights.Total() <= 0 {
		return Layout{}, fmt.Errorf("%w: generator spacing %v jitter %d weights %+v",
			ErrInvalidLevel, g.SpacingBase, g.Jitter, g.Weights)
	}

	if slots := g.Slots(level.Length, level.Multiplier); slots > config.MaxObstacles {
		return Layout{}, fmt.Errorf("%w: level %d needs %v obstacle slots, max %d",
			ErrInvalidLevel, level.ID, slots, config.MaxObstacles)
	}

	end := level.Length - g.TailMargin
	step := g.SpacingBase / level.Multiplier

	var obstacles []Obstacle
	for x := g.StartOffset; x < end; {
		obstacles = append(obstacles, place(pickKind(g.Weights, rng), x, g, floorY))
		next := x + step + float64(rng.Intn(g.Jitter+1))
		if next <= x {
			return Layout{}, fmt.Errorf("%w: level %d spacing %v does not advance past %v",
				ErrInvalidLevel, level.ID, step, x)
		}
		x = next
	}

	return Layout{obstacles: obstacles, length: level.Length}, nil
}

// pickKind draws a variant by weight.
func pickKind(w config.KindWeights, rng *rand.Rand) Kind {
	r := rng.Intn(w.Total())
	switch {
	case r < w.Spike:
		return KindSpike
	case r < w.Spike+w.Block:
		return KindBlock
	default:
		return KindGem
	}
}

// place sizes and positions an obstacle of the given kind at track position x.
func place(kind Kind, x float64, g config.DashGenerator, floorY float64) Obstacle {
	switch kind {
	case KindBlock:
		return Obstacle{X: x, Y: floorY - g.BlockSize, W: g.BlockSize, H: g.BlockSize, Kind: kind}
	case KindGem:
		return Obstacle{X: x, Y: floorY - g.GemLift - g.GemSize, W: g.GemSize, H: g.GemSize, Kind: kind}
	default:
		return Obstacle{X: x, Y: floorY - g.SpikeSize, W: g.SpikeSize, H: g.SpikeSize, Kind: KindSpike}
	}
}
