package space

import (
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/pool"
)

// SpaceObject is the read-only contract shared by everything placed in space.
// Position, Rotation and Forward report zero values for dead objects.
type SpaceObject interface {
	IsAlive() bool
	Radius() float64
	Position() core.Vec2
	Rotation() float64
	Forward() core.Vec2
	Name() string

	handle() objectID
}

type objectKind uint8

const (
	kindShip objectKind = iota + 1
	kindShot
)

// objectID identifies an object across both pools.
type objectID struct {
	kind objectKind
	h    pool.Handle
}

// shooterOf returns the shooter handle when o is a shot.
func shooterOf(o SpaceObject) (objectID, bool) {
	if s, ok := o.(Shot); ok && s.valid() {
		return objectID{kind: kindShip, h: s.rec.shooter}, true
	}
	return objectID{}, false
}
