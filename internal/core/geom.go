// Package core provides fundamental types and utilities for the dash platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Box is an axis-aligned bounding box in world units.
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// NewBox creates a new box with the given position and dimensions.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Intersects reports AABB overlap. Touching edges do not overlap.
func (b Box) Intersects(other Box) bool {
	if b.X >= other.Right() || other.X >= b.Right() {
		return false
	}
	if b.Y >= other.Bottom() || other.Y >= b.Bottom() {
		return false
	}
	return true
}

// Inset shrinks the box by d on every side. A box never inverts;
// an inset larger than half a side collapses it to its center line.
func (b Box) Inset(d float64) Box {
	w := math.Max(0, b.W-2*d)
	h := math.Max(0, b.H-2*d)
	return Box{
		X: b.X + (b.W-w)/2,
		Y: b.Y + (b.H-h)/2,
		W: w,
		H: h,
	}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
