package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetCellOutOfBounds(t *testing.T) {
	s := NewScreen(4, 4)

	s.SetColored(2, 1, 'A', ColorRed)
	c := s.GetCell(2, 1)
	if c.Rune != 'A' || c.FG != ColorRed {
		t.Errorf("GetCell(2, 1) = %+v, expected red 'A'", c)
	}

	// Out of bounds writes are ignored and reads return a blank cell
	s.SetCell(-1, 0, Cell{Rune: 'X'})
	s.SetCell(0, 10, Cell{Rune: 'X'})
	if got := s.GetCell(-1, 0); got.Rune != ' ' {
		t.Errorf("GetCell(-1, 0) = %q, expected space", got.Rune)
	}
}

func TestScreenDrawColoredText(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawColoredText(1, 0, "héllo", ColorCyan)

	if got := s.Row(0); got != " héllo    " {
		t.Errorf("Row(0) = %q", got)
	}
	// Multi-byte runes occupy one cell each
	if s.GetCell(3, 0).Rune != 'l' || s.GetCell(3, 0).FG != ColorCyan {
		t.Errorf("GetCell(3, 0) = %+v, expected cyan 'l'", s.GetCell(3, 0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawBox(NewRect(0, 0, 5, 3), ColorGray)

	expected := strings.Join([]string{
		"┌───┐",
		"│   │",
		"└───┘",
	}, "\n")
	if got := s.String(); got != expected {
		t.Errorf("DrawBox produced:\n%s\nexpected:\n%s", got, expected)
	}
	if s.GetCell(0, 0).FG != ColorGray {
		t.Error("box corner should carry the box color")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "abcd")
	s.Resize(2, 3)

	if s.Width() != 2 || s.Height() != 3 {
		t.Fatalf("size after Resize = %dx%d", s.Width(), s.Height())
	}
	if s.Row(0) != "ab" {
		t.Errorf("Row(0) after shrink = %q, expected \"ab\"", s.Row(0))
	}
	if s.Row(2) != "  " {
		t.Errorf("new row should be blank, got %q", s.Row(2))
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(3, 1)
	s.SetColored(1, 0, '*', ColorYellow)
	s.Clear()
	if c := s.GetCell(1, 0); c != (Cell{Rune: ' '}) {
		t.Errorf("cell after Clear = %+v, expected blank", c)
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name     string
		in       RGB
		lowPass  int
		expected RGB
	}{
		{"gray becomes white", RGB{0x40, 0x40, 0x40}, 0x20, ColorWhite},
		{"pure red stays red", RGB{0xFF, 0, 0}, 0x10, RGB{0xFF, 0x0F, 0x0F}},
		{"dark red stretches", RGB{0x76, 0x35, 0x35}, 0x20, RGB{0xDF, 0x1F, 0x1F}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeColor(tc.in, tc.lowPass); got != tc.expected {
				t.Errorf("NormalizeColor(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#76a5ff")
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if c != (RGB{0x76, 0xa5, 0xff}) {
		t.Errorf("ParseHex = %v", c)
	}
	if c.Hex() != "#76a5ff" {
		t.Errorf("Hex() = %q", c.Hex())
	}
	if _, err := ParseHex("#123"); err == nil {
		t.Error("expected error for short color")
	}
}
