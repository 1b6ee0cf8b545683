package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.GetCell(5, 5).Rune != 'X' {
		t.Errorf("GetCell(5, 5) = %q, expected 'X'", s.GetCell(5, 5).Rune)
	}

	// Out of bounds writes are ignored
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.GetCell(-1, 0).Rune != ' ' || s.GetCell(100, 0).Rune != ' ' {
		t.Error("out of bounds GetCell should return a blank cell")
	}
}

func TestScreenColoredCells(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColored(1, 1, '▲', ColorRed)

	c := s.GetCell(1, 1)
	if c.Rune != '▲' || c.Color != ColorRed {
		t.Errorf("GetCell = %+v, expected red spike", c)
	}

	// Plain Set resets the color
	s.Set(1, 1, 'x')
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Set should write the default color")
	}

	s.SetColored(0, 0, '#', ColorCyan)
	s.Clear()
	if s.GetCell(0, 0) != blankCell {
		t.Error("Clear should reset rune and color")
	}
}

func TestScreenDrawTextClipped(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	if !strings.HasPrefix(s.Row(1)[2:], "Hello") {
		t.Errorf("row 1 = %q", s.Row(1))
	}

	s.DrawText(18, 0, "Hello")
	if s.GetCell(18, 0).Rune != 'H' || s.GetCell(19, 0).Rune != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextColored(0, 0, "◆x", ColorBrightCyan)

	if s.GetCell(0, 0).Rune != '◆' || s.GetCell(1, 0).Rune != 'x' {
		t.Errorf("row = %q, expected runes at consecutive cells", s.Row(0))
	}
	if s.GetCell(1, 0).Color != ColorBrightCyan {
		t.Error("DrawTextColored should color every cell")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	expected := "AAAAA\nBBBBB\nCCCCC"
	if got := s.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResizePreservesCells(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorGreen)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, expected 8x4", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("row 0 = %q, expected content preserved", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("row 0 = %q after enlarging", s.Row(0))
	}
	if s.GetCell(0, 0).Color != ColorGreen {
		t.Error("colors should survive resize")
	}
	if s.Row(-1) != strings.Repeat(" ", 15) {
		t.Error("out of bounds row should be spaces")
	}
}
