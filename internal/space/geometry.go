package space

import (
	"math"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// CheckCollision reports whether a and b overlap on the arena torus.
// An axis offset at least extent-(ra+rb) long is measured across the seam
// instead. A shot never collides with the ship that fired it.
func CheckCollision(arena Arena, a, b SpaceObject) bool {
	if a == nil || b == nil {
		return false
	}
	if id, ok := shooterOf(a); ok && id == b.handle() {
		return false
	}
	if id, ok := shooterOf(b); ok && id == a.handle() {
		return false
	}

	rSum := a.Radius() + b.Radius()
	pa, pb := a.Position(), b.Position()
	pa.X, pb.X = unwrapPair(pa.X, pb.X, arena.Width, arena.Width-rSum)
	pa.Y, pb.Y = unwrapPair(pa.Y, pb.Y, arena.Height, arena.Height-rSum)

	return pb.Sub(pa).SqrLength() <= rSum*rSum
}

// unwrapPair moves whichever coordinate sits on the far side of the seam so
// both end up on the same side. It is symmetric in (a, b).
func unwrapPair(a, b, extent, threshold float64) (float64, float64) {
	diff := b - a
	if math.Abs(diff) < threshold {
		return a, b
	}
	if diff < 0 {
		a -= extent
	} else {
		b -= extent
	}
	return a, b
}

// ClosestRelativePosition returns the shortest vector from a to b on the
// arena torus. An axis offset at least half the extent long wraps the other way.
func ClosestRelativePosition(arena Arena, a, b SpaceObject) core.Vec2 {
	if a == nil || b == nil {
		return core.Vec2{}
	}
	return ClosestOffset(arena, a.Position(), b.Position())
}

// ClosestOffset is ClosestRelativePosition for bare points.
func ClosestOffset(arena Arena, from, to core.Vec2) core.Vec2 {
	return core.V(
		wrapAxis(to.X-from.X, arena.Width),
		wrapAxis(to.Y-from.Y, arena.Height),
	)
}

func wrapAxis(diff, extent float64) float64 {
	if math.Abs(diff) < extent/2 {
		return diff
	}
	if diff < 0 {
		return diff + extent
	}
	return diff - extent
}
