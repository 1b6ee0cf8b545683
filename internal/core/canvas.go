package core

import "math"

// Point is a position in world units.
type Point struct {
	X, Y float64
}

// Paint describes how a shape is filled. Glyph is used by character backends;
// pixel backends only look at Color.
type Paint struct {
	Color Color
	Glyph rune
}

// Canvas is a 2D drawing surface in world units.
// Games render through it so the same frame can go to a terminal or a window.
type Canvas interface {
	// Bounds returns the logical size of the surface in world units.
	Bounds() (w, h float64)
	Clear(p Paint)
	FillRect(b Box, p Paint)
	FillTriangle(a, b, c Point, p Paint)
	FillCircle(center Point, r float64, p Paint)
	Text(at Point, s string, p Paint)
}

// FillQuad fills a convex quadrilateral as two triangles.
func FillQuad(c Canvas, q [4]Point, p Paint) {
	c.FillTriangle(q[0], q[1], q[2], p)
	c.FillTriangle(q[0], q[2], q[3], p)
}

// RotatedSquare returns the corners of a w×h box rotated by deg around its center.
func RotatedSquare(b Box, deg float64) [4]Point {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	hw, hh := b.W/2, b.H/2
	sin, cos := math.Sincos(deg * math.Pi / 180)

	corners := [4]Point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, p := range corners {
		corners[i] = Point{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
	return corners
}

// DrawOp identifies a recorded drawing command.
type DrawOp int

const (
	OpClear DrawOp = iota
	OpRect
	OpTriangle
	OpCircle
	OpText
)

// DrawCmd is one recorded drawing command.
type DrawCmd struct {
	Op     DrawOp
	Box    Box
	Points [3]Point
	Radius float64
	Text   string
	Paint  Paint
}

// DrawList is a Canvas that records commands instead of drawing them.
// Used by tests and by headless callers that need the frame as data.
type DrawList struct {
	W, H float64
	Cmds []DrawCmd
}

// NewDrawList creates an empty recorder with the given logical size.
func NewDrawList(w, h float64) *DrawList {
	return &DrawList{W: w, H: h}
}

// Bounds implements Canvas.
func (d *DrawList) Bounds() (float64, float64) { return d.W, d.H }

// Clear implements Canvas. It also drops previously recorded commands.
func (d *DrawList) Clear(p Paint) {
	d.Cmds = append(d.Cmds[:0], DrawCmd{Op: OpClear, Paint: p})
}

// FillRect implements Canvas.
func (d *DrawList) FillRect(b Box, p Paint) {
	d.Cmds = append(d.Cmds, DrawCmd{Op: OpRect, Box: b, Paint: p})
}

// FillTriangle implements Canvas.
func (d *DrawList) FillTriangle(a, b, c Point, p Paint) {
	d.Cmds = append(d.Cmds, DrawCmd{Op: OpTriangle, Points: [3]Point{a, b, c}, Paint: p})
}

// FillCircle implements Canvas.
func (d *DrawList) FillCircle(center Point, r float64, p Paint) {
	d.Cmds = append(d.Cmds, DrawCmd{Op: OpCircle, Points: [3]Point{center}, Radius: r, Paint: p})
}

// Text implements Canvas.
func (d *DrawList) Text(at Point, s string, p Paint) {
	d.Cmds = append(d.Cmds, DrawCmd{Op: OpText, Points: [3]Point{at}, Text: s, Paint: p})
}

// Count returns how many commands of the given op were recorded.
func (d *DrawList) Count(op DrawOp) int {
	n := 0
	for _, c := range d.Cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Raster is a Canvas that rasterises world-space shapes onto a character Screen.
// A cell is filled when its center lies inside the shape; shapes too small to
// cover any center still mark the cell under their own center.
type Raster struct {
	screen *Screen
	w, h   float64
	sx, sy float64
}

// NewRaster maps a world of w×h units onto the whole screen.
func NewRaster(screen *Screen, w, h float64) *Raster {
	r := &Raster{screen: screen, w: w, h: h}
	if w > 0 {
		r.sx = float64(screen.Width()) / w
	}
	if h > 0 {
		r.sy = float64(screen.Height()) / h
	}
	return r
}

// Bounds implements Canvas.
func (r *Raster) Bounds() (float64, float64) { return r.w, r.h }

// Clear implements Canvas.
func (r *Raster) Clear(p Paint) {
	glyph := p.Glyph
	if glyph == 0 {
		glyph = ' '
	}
	for y := 0; y < r.screen.Height(); y++ {
		for x := 0; x < r.screen.Width(); x++ {
			r.screen.SetColored(x, y, glyph, p.Color)
		}
	}
}

// cellCenter returns the world position of a cell's center.
func (r *Raster) cellCenter(cx, cy int) Point {
	return Point{X: (float64(cx) + 0.5) / r.sx, Y: (float64(cy) + 0.5) / r.sy}
}

// toCell returns the cell containing a world point.
func (r *Raster) toCell(p Point) (int, int) {
	return int(math.Floor(p.X * r.sx)), int(math.Floor(p.Y * r.sy))
}

// fill scans the cells covering the world bounding box and paints those inside.
func (r *Raster) fill(minX, minY, maxX, maxY float64, inside func(Point) bool, p Paint) {
	if r.sx == 0 || r.sy == 0 {
		return
	}
	x0, y0 := r.toCell(Point{minX, minY})
	x1, y1 := r.toCell(Point{maxX, maxY})
	x0, y0 = Max(x0, 0), Max(y0, 0)
	x1, y1 = Min(x1, r.screen.Width()-1), Min(y1, r.screen.Height()-1)

	painted := false
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if inside(r.cellCenter(cx, cy)) {
				r.screen.SetColored(cx, cy, p.Glyph, p.Color)
				painted = true
			}
		}
	}
	if !painted {
		cx, cy := r.toCell(Point{(minX + maxX) / 2, (minY + maxY) / 2})
		r.screen.SetColored(cx, cy, p.Glyph, p.Color)
	}
}

// FillRect implements Canvas.
func (r *Raster) FillRect(b Box, p Paint) {
	r.fill(b.X, b.Y, b.Right(), b.Bottom(), func(pt Point) bool {
		return pt.X >= b.X && pt.X < b.Right() && pt.Y >= b.Y && pt.Y < b.Bottom()
	}, p)
}

// FillTriangle implements Canvas.
func (r *Raster) FillTriangle(a, b, c Point, p Paint) {
	minX := math.Min(a.X, math.Min(b.X, c.X))
	maxX := math.Max(a.X, math.Max(b.X, c.X))
	minY := math.Min(a.Y, math.Min(b.Y, c.Y))
	maxY := math.Max(a.Y, math.Max(b.Y, c.Y))
	r.fill(minX, minY, maxX, maxY, func(pt Point) bool {
		return pointInTriangle(pt, a, b, c)
	}, p)
}

// FillCircle implements Canvas.
func (r *Raster) FillCircle(center Point, radius float64, p Paint) {
	r.fill(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius, func(pt Point) bool {
		dx, dy := pt.X-center.X, pt.Y-center.Y
		return dx*dx+dy*dy <= radius*radius
	}, p)
}

// Text implements Canvas. Text keeps one rune per cell regardless of scale.
func (r *Raster) Text(at Point, s string, p Paint) {
	if r.sx == 0 || r.sy == 0 {
		return
	}
	cx, cy := r.toCell(at)
	r.screen.DrawTextColored(cx, cy, s, p.Color)
}

func pointInTriangle(p, a, b, c Point) bool {
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross(p, a, b Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// Offset returns a Canvas that translates every shape by (dx, dy) before
// drawing on c. Clear is forwarded unchanged.
func Offset(c Canvas, dx, dy float64) Canvas {
	return offsetCanvas{c: c, dx: dx, dy: dy}
}

type offsetCanvas struct {
	c      Canvas
	dx, dy float64
}

func (o offsetCanvas) Bounds() (float64, float64) { return o.c.Bounds() }

func (o offsetCanvas) Clear(p Paint) { o.c.Clear(p) }

func (o offsetCanvas) FillRect(b Box, p Paint) { o.c.FillRect(b.Translate(o.dx, o.dy), p) }

func (o offsetCanvas) FillTriangle(a, b, c Point, p Paint) {
	o.c.FillTriangle(o.move(a), o.move(b), o.move(c), p)
}

func (o offsetCanvas) FillCircle(center Point, r float64, p Paint) {
	o.c.FillCircle(o.move(center), r, p)
}

func (o offsetCanvas) Text(at Point, s string, p Paint) { o.c.Text(o.move(at), s, p) }

func (o offsetCanvas) move(p Point) Point {
	return Point{X: p.X + o.dx, Y: p.Y + o.dy}
}
