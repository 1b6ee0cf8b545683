package core

import (
	"strings"
)

// Cell is one character position on a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blankCell = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D character buffer for rendering game graphics.
// It decouples game rendering from the terminal, allowing games to draw
// using simple rune operations while the platform handles actual display.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  Max(width, 0),
		height: Max(height, 0),
	}
	s.cells = make([]Cell, s.width*s.height)
	s.Clear()
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	old := s.cells
	oldW := s.width
	copyW := Min(oldW, width)
	copyH := Min(s.height, height)

	s.width = Max(width, 0)
	s.height = Max(height, 0)
	s.cells = make([]Cell, s.width*s.height)
	s.Clear()

	for y := 0; y < copyH; y++ {
		copy(s.cells[y*s.width:y*s.width+copyW], old[y*oldW:y*oldW+copyW])
	}
}

// Clear fills the entire screen with uncolored spaces.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blankCell
	}
}

// Fill fills the entire screen with the given rune.
func (s *Screen) Fill(r rune) {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: r}
	}
}

// Set places a rune at the given position with the default color.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r})
}

// SetColored places a rune with a color at the given position.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	s.SetCell(x, y, Cell{Rune: r, Color: c})
}

// SetCell writes a full cell. Out-of-bounds coordinates are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y*s.width+x] = c
}

// GetCell returns the cell at the given position, or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blankCell
	}
	return s.cells[y*s.width+x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored writes a colored string horizontally starting at (x, y).
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColored(x+i, y, r, c)
		i++
	}
}

// String converts the screen buffer to plain text, rows joined by newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(s.Row(y))
	}
	return sb.String()
}

// Row returns a copy of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x := 0; x < s.width; x++ {
		runes[x] = s.cells[y*s.width+x].Rune
	}
	return string(runes)
}
