package dash

import (
	"math"

	"github.com/vovakirdan/tui-dash/internal/config"
)

// Body is the player's vertical state. Y is the top edge, downward positive.
type Body struct {
	Y, VY    float64
	Rotation float64 // Degrees
	W, H     float64
	Grounded bool
}

// NewBody returns a body resting on the floor.
func NewBody(p config.DashPlayer, floorY float64) Body {
	return Body{
		Y:        floorY - p.Height,
		W:        p.Width,
		H:        p.Height,
		Grounded: true,
	}
}

// Control is the per-frame input to the integrator.
type Control struct {
	Held   bool // Thrust is down this frame
	Rising bool // Thrust went down this frame
	Flying bool // Fly physics are active
}

// Integrator advances a Body by one fixed frame.
type Integrator struct {
	Physics    config.DashPhysics
	FloorY     float64
	Multiplier float64
}

// Step applies one frame of jump, thrust, gravity, integration and floor contact.
// A jump frame skips gravity.
func (in Integrator) Step(b *Body, c Control) {
	p := in.Physics

	// The jump frame leaves with exactly the impulse; gravity starts next frame.
	jumped := c.Rising && b.Grounded && !c.Flying
	if jumped {
		b.VY = p.JumpImpulse
		b.Grounded = false
	}
	if c.Flying && c.Held {
		b.VY += p.FlyThrust
	}

	if !jumped {
		b.VY += p.Gravity
	}
	if c.Flying {
		b.VY = math.Max(-p.FlyMaxSpeed, math.Min(p.FlyMaxSpeed, b.VY))
	}

	b.Y += b.VY
	if c.Flying && b.Y < 0 {
		b.Y = 0
		if b.VY < 0 {
			b.VY = 0
		}
	}

	if b.Y+b.H >= in.FloorY {
		b.Y = in.FloorY - b.H
		b.VY = 0
		b.Grounded = true
		b.Rotation = quantize(b.Rotation)
		return
	}

	b.Grounded = false
	if !c.Flying {
		b.Rotation = math.Mod(b.Rotation+p.RotationRate*in.Multiplier, 360)
	}
}

// quantize snaps an angle to the nearest right angle in [0, 360).
func quantize(deg float64) float64 {
	q := math.Mod(math.Round(deg/90)*90, 360)
	if q < 0 {
		q += 360
	}
	return q
}
