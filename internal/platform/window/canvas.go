package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/tui-dash/internal/core"
)

var (
	backgroundColor = color.RGBA{0x14, 0x14, 0x1e, 0xff}
	panelColor      = color.RGBA{0x24, 0x24, 0x34, 0xff}
)

// Canvas draws world units onto an ebiten image, scaling them to its pixel size.
type Canvas struct {
	dst    *ebiten.Image
	white  *ebiten.Image
	w, h   float64
	sx, sy float64
}

// NewCanvas wraps dst for a world of size w×h. white is a 1x1 white image used
// as the source for triangle fills.
func NewCanvas(dst, white *ebiten.Image, w, h float64) *Canvas {
	b := dst.Bounds()
	sx, sy := scaleFor(b.Dx(), b.Dy(), w, h)
	return &Canvas{dst: dst, white: white, w: w, h: h, sx: sx, sy: sy}
}

// scaleFor returns the pixels per world unit on each axis.
func scaleFor(pixW, pixH int, w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(pixW) / w, float64(pixH) / h
}

// fillColor maps a paint to a pixel color. Blank cells in the terminal
// (a space glyph) become the window background.
func fillColor(p core.Paint) color.RGBA {
	if p.Glyph == ' ' && p.Color == core.ColorDefault {
		return panelColor
	}
	return p.Color.RGBA()
}

// Bounds returns the world size.
func (c *Canvas) Bounds() (float64, float64) { return c.w, c.h }

// Clear fills the whole image with the background.
func (c *Canvas) Clear(core.Paint) {
	c.dst.Fill(backgroundColor)
}

// FillRect fills an axis-aligned box.
func (c *Canvas) FillRect(b core.Box, p core.Paint) {
	vector.DrawFilledRect(c.dst,
		float32(b.X*c.sx), float32(b.Y*c.sy),
		float32(b.W*c.sx), float32(b.H*c.sy),
		fillColor(p), false)
}

// FillTriangle fills a triangle.
func (c *Canvas) FillTriangle(a, b, d core.Point, p core.Paint) {
	clr := fillColor(p)
	vertex := func(pt core.Point) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(pt.X * c.sx),
			DstY:   float32(pt.Y * c.sy),
			ColorR: float32(clr.R) / 255,
			ColorG: float32(clr.G) / 255,
			ColorB: float32(clr.B) / 255,
			ColorA: float32(clr.A) / 255,
		}
	}
	vertices := []ebiten.Vertex{vertex(a), vertex(b), vertex(d)}
	c.dst.DrawTriangles(vertices, []uint16{0, 1, 2}, c.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// FillCircle fills a circle. The radius follows the horizontal scale.
func (c *Canvas) FillCircle(center core.Point, r float64, p core.Paint) {
	vector.DrawFilledCircle(c.dst,
		float32(center.X*c.sx), float32(center.Y*c.sy),
		float32(r*c.sx), fillColor(p), true)
}

// Text prints s with the debug font. The color is ignored.
func (c *Canvas) Text(at core.Point, s string, _ core.Paint) {
	ebitenutil.DebugPrintAt(c.dst, s, int(at.X*c.sx), int(at.Y*c.sy))
}

var _ core.Canvas = (*Canvas)(nil)
