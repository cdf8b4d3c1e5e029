// Package core provides fundamental types and utilities shared by the
// simulation and the terminal platform. It contains no external dependencies
// (especially no Bubble Tea) to keep simulation logic pure and testable.
package core

import "math"

// Vec2 is a 2D vector in arena units.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// SqrLength returns the squared magnitude of v.
func (v Vec2) SqrLength() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.SqrLength())
}

// Normalized returns the unit vector in the direction of v.
// The zero vector stays zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// WithMagnitude returns v scaled to the given length.
func (v Vec2) WithMagnitude(m float64) Vec2 {
	return v.Normalized().Scale(m)
}

// Rotate rotates v counter-clockwise by the given angle in radians.
func (v Vec2) Rotate(radians float64) Vec2 {
	sin, cos := math.Sincos(radians)
	return Vec2{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
	}
}

// Angle returns the angle between v and the positive X axis in degrees,
// in the range (-180, 180]. Positive is counter-clockwise.
func (v Vec2) Angle() float64 {
	return wrapHalfTurn(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

// AngleTo returns the signed angle from axis to v in degrees,
// in the range (-180, 180]. Positive means v is counter-clockwise of axis.
func (v Vec2) AngleTo(axis Vec2) float64 {
	return wrapHalfTurn(v.Angle() - axis.Angle())
}

// FromDegrees returns the unit vector pointing at the given angle.
func FromDegrees(deg float64) Vec2 {
	return Vec2{X: 1}.Rotate(deg * math.Pi / 180)
}

func wrapHalfTurn(deg float64) float64 {
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// WrapDegrees maps any angle to [0, 360).
func WrapDegrees(deg float64) float64 {
	deg = Mod(deg, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Mod returns x modulo m, never negative for positive m.
func Mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// ModInt returns x modulo m, never negative for positive m.
func ModInt(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: Max(0, r.W-2*n), H: Max(0, r.H-2*n)}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
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
