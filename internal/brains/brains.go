// Package brains provides the decision policies that fly ships: the bot
// roster, a keyboard-driven player and Lua-scripted pilots.
//
// Brains only ever see read-only views. They answer with one action per
// tick and never touch the registry.
package brains

import (
	"math"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// aimTolerance is the half-angle, in degrees, inside which a target counts
// as dead ahead.
const aimTolerance = 10

// bearing returns the signed angle from self's nose to obj, positive when
// obj is to the left.
func bearing(self space.Spaceship, obj space.SpaceObject) float64 {
	return self.ClosestRelativePosition(obj).AngleTo(self.Forward())
}

// distance is the shortest toroidal distance from self to obj.
func distance(self space.Spaceship, obj space.SpaceObject) float64 {
	return self.ClosestRelativePosition(obj).Length()
}

// steer turns toward a bearing, or returns ahead when already on target.
func steer(angle float64, ahead space.Action) space.Action {
	switch {
	case angle >= aimTolerance:
		return space.TurnLeft
	case angle <= -aimTolerance:
		return space.TurnRight
	default:
		return ahead
	}
}

// fireOr shoots when the gun is ready and falls back otherwise.
func fireOr(self space.Spaceship, otherwise space.Action) space.Action {
	if self.CanShoot() {
		return space.Shoot
	}
	return otherwise
}

// nearestShip returns the closest live ship other than self and those
// rejected by skip.
func nearestShip(self space.Spaceship, ships []space.Spaceship, skip func(space.Spaceship) bool) (space.Spaceship, bool) {
	var best space.Spaceship
	bestDist := math.MaxFloat64
	found := false
	for _, s := range ships {
		if !s.IsAlive() || s.Is(self) || (skip != nil && skip(s)) {
			continue
		}
		if d := distance(self, s); !found || d < bestDist {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

// nearestHostileShot returns the closest live shot that is not flying
// roughly parallel to self. Shots within limit degrees of self's heading
// are assumed to be its own.
func nearestHostileShot(self space.Spaceship, shots []space.Shot, limit float64) (space.Shot, bool) {
	var best space.Shot
	bestDist := math.MaxFloat64
	found := false
	for _, s := range shots {
		if !s.IsAlive() {
			continue
		}
		if a := s.Forward().AngleTo(self.Forward()); a >= -limit && a <= limit {
			continue
		}
		if d := distance(self, s); !found || d < bestDist {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

// underFire reports whether a hostile shot is within safe of self.
func underFire(self space.Spaceship, view space.View, safe, limit float64) bool {
	shot, ok := nearestHostileShot(self, view.Shots(), limit)
	return ok && distance(self, shot) <= safe
}

func rgb(r, g, b uint8) core.RGB {
	return core.RGB{R: r, G: g, B: b}
}
