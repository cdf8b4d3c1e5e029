package core

import (
	"fmt"
	"math"
	"strconv"
)

// RGB is a 24-bit color used for ships, shields and the HUD.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsZero reports whether the color is unset (black).
func (c RGB) IsZero() bool {
	return c == RGB{}
}

// Dim returns the color scaled towards black by factor f in [0, 1].
func (c RGB) Dim(f float64) RGB {
	f = ClampF(f, 0, 1)
	return RGB{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
	}
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var c RGB
	if len(s) != 6 {
		return c, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// NormalizeColor shifts the weakest channel to zero and stretches the
// channel spread, then quantizes every channel to the top of its lowPass
// bucket so that nearly identical colors collapse to the same value.
// Grays become white.
func NormalizeColor(c RGB, lowPass int) RGB {
	if lowPass <= 0 {
		lowPass = 0x10
	}
	r, g, b := float64(c.R)/0xFF, float64(c.G)/0xFF, float64(c.B)/0xFF
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	if math.Abs(hi-lo) < 1e-6 {
		return ColorWhite
	}
	factor := (1 - lo) / (hi - lo)
	quant := func(v float64) uint8 {
		v = (v - lo) * factor
		q := math.Floor(v*0xFF/float64(lowPass))*float64(lowPass) + float64(lowPass) - 1
		return uint8(ClampF(q, 0, 0xFF))
	}
	return RGB{R: quant(r), G: quant(g), B: quant(b)}
}

// Predefined colors for HUD elements.
var (
	ColorWhite  = RGB{0xFF, 0xFF, 0xFF}
	ColorGray   = RGB{0x8A, 0x8A, 0x8A}
	ColorDark   = RGB{0x3A, 0x3A, 0x3A}
	ColorRed    = RGB{0xFF, 0x3F, 0x3F}
	ColorYellow = RGB{0xFF, 0xDF, 0x3F}
	ColorOrange = RGB{0xFF, 0x8F, 0x1F}
	ColorCyan   = RGB{0x3F, 0xDF, 0xFF}
)

// SecondaryPalette holds the alternate colors handed out when two ships of
// the same body type normalize to the same primary color.
var SecondaryPalette = []RGB{
	{0xFF, 0xFF, 0x00},
	{0x00, 0xFF, 0xFF},
	{0xFF, 0x00, 0xFF},
	{0x00, 0xFF, 0x00},
	{0xFF, 0x80, 0x00},
	{0x80, 0x80, 0xFF},
}
