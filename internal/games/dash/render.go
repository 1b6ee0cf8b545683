package dash

import (
	"fmt"
	"math/rand"
	"unicode/utf8"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Paints for the scene. Glyphs are used by the terminal backend only.
var (
	paintBackground = core.Paint{Color: core.ColorDefault, Glyph: ' '}
	paintGround     = core.Paint{Color: core.ColorGreen, Glyph: '═'}
	paintSpike      = core.Paint{Color: core.ColorRed, Glyph: '▲'}
	paintBlock      = core.Paint{Color: core.ColorGray, Glyph: '█'}
	paintGem        = core.Paint{Color: core.ColorYellow, Glyph: '◆'}
	paintHUD        = core.Paint{Color: core.ColorBrightWhite}
	paintDim        = core.Paint{Color: core.ColorGray}
	paintPanel      = core.Paint{Color: core.ColorDefault, Glyph: ' '}
)

// Glitch effect tuning.
const (
	glitchChance = 0.2 // Per-shape chance of a perturbation in a glitched frame
	glitchShake  = 6.0 // Max position jitter in world units
)

// Renderer draws runs onto a canvas. It reads simulation state and never
// writes it; the glitch effect draws from the renderer's own RNG.
type Renderer struct {
	track  config.DashTrack
	player core.Paint
	glitch bool
	rng    *rand.Rand
}

// NewRenderer creates a renderer for the given skin. seed only feeds the glitch effect.
func NewRenderer(track config.DashTrack, skin config.SkinSpec, seed int64) *Renderer {
	return &Renderer{
		track:  track,
		player: SkinPaint(skin),
		glitch: skin.Glitch,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SkinPaint returns the paint for a skin, falling back to cyan and a square.
func SkinPaint(skin config.SkinSpec) core.Paint {
	p := core.Paint{Color: core.ColorBrightCyan, Glyph: '■'}
	if c, ok := core.ParseColor(skin.Color); ok {
		p.Color = c
	}
	if r, _ := utf8.DecodeRuneInString(skin.Glyph); r != utf8.RuneError {
		p.Glyph = r
	}
	return p
}

// DrawLane draws one run: ground, visible obstacles, the player and a HUD line.
// The lane occupies [0, ViewWidth]×[0, ViewHeight] of c.
func (r *Renderer) DrawLane(c core.Canvas, run *Run, label string) {
	t := r.track
	c.FillRect(core.NewBox(0, t.FloorY, t.ViewWidth, t.ViewHeight-t.FloorY), paintGround)

	cursor := run.Cursor()
	layout := run.Layout()
	for i := 0; i < layout.Len(); i++ {
		o := layout.At(i)
		x := o.X - cursor
		if x > t.ViewWidth {
			break
		}
		if x+o.W < 0 {
			continue
		}
		if o.Kind == KindGem && run.Collected(i) {
			continue
		}
		r.drawObstacle(c, o, x)
	}

	b := run.Body()
	box := core.NewBox(run.PlayerX()+r.shake(), b.Y+r.shake(), b.W, b.H)
	core.FillQuad(c, core.RotatedSquare(box, b.Rotation), r.perturb(r.player))

	hud := fmt.Sprintf("%s  L%d %s  %3.0f%%  ◆ %d", label, run.Level().ID, run.Level().Name, run.Progress(), run.Pickups())
	c.Text(core.Point{X: 10, Y: 12}, hud, paintHUD)
	if run.Modifiers().God {
		c.Text(core.Point{X: t.ViewWidth - 80, Y: 12}, "GOD", paintDim)
	}
}

func (r *Renderer) drawObstacle(c core.Canvas, o Obstacle, x float64) {
	x += r.shake()
	y := o.Y + r.shake()
	switch o.Kind {
	case KindSpike:
		c.FillTriangle(
			core.Point{X: x, Y: y + o.H},
			core.Point{X: x + o.W/2, Y: y},
			core.Point{X: x + o.W, Y: y + o.H},
			r.perturb(paintSpike),
		)
	case KindBlock:
		c.FillRect(core.NewBox(x, y, o.W, o.H), r.perturb(paintBlock))
	case KindGem:
		c.FillCircle(core.Point{X: x + o.W/2, Y: y + o.H/2}, o.W/2, r.perturb(paintGem))
	}
}

// DrawBanner draws a centered two-line message panel.
func (r *Renderer) DrawBanner(c core.Canvas, title, subtitle string) {
	w, h := c.Bounds()
	panel := core.NewBox(w/2-200, h/2-50, 400, 100)
	c.FillRect(panel, paintPanel)
	c.Text(core.Point{X: panel.X + 20, Y: panel.Y + 20}, title, paintHUD)
	c.Text(core.Point{X: panel.X + 20, Y: panel.Y + 60}, subtitle, paintDim)
}

// shake returns a position jitter, zero unless glitching.
func (r *Renderer) shake() float64 {
	if !r.glitch || r.rng.Float64() >= glitchChance {
		return 0
	}
	return (r.rng.Float64()*2 - 1) * glitchShake
}

// perturb occasionally swaps a paint's color while glitching.
func (r *Renderer) perturb(p core.Paint) core.Paint {
	if !r.glitch || r.rng.Float64() >= glitchChance {
		return p
	}
	p.Color = core.Color(1 + r.rng.Intn(core.ColorCount()-1))
	return p
}
