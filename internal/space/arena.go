// Package space holds the simulation state of a match: the toroidal arena,
// pooled spaceships and shots, the read-only views handed to brains and the
// controllers that alone may change entity state.
package space

import (
	"github.com/vovakirdan/tui-starwars/internal/core"
)

// Arena is the toroidal play area centered on the origin.
// Positions live in [-Width/2, Width/2) x [-Height/2, Height/2).
type Arena struct {
	Width  float64
	Height float64
}

// Size returns the full arena extent.
func (a Arena) Size() core.Vec2 {
	return core.V(a.Width, a.Height)
}

// Half returns the arena half-extent.
func (a Arena) Half() core.Vec2 {
	return core.V(a.Width/2, a.Height/2)
}

// Corners returns the four arena corners.
func (a Arena) Corners() [4]core.Vec2 {
	h := a.Half()
	return [4]core.Vec2{
		core.V(-h.X, -h.Y),
		core.V(h.X, -h.Y),
		core.V(-h.X, h.Y),
		core.V(h.X, h.Y),
	}
}

// Wrap translates p back into the arena when it crossed an edge
// by at most one arena extent.
func (a Arena) Wrap(p core.Vec2) core.Vec2 {
	h := a.Half()
	if p.X < -h.X {
		p.X += a.Width
	}
	if p.X >= h.X {
		p.X -= a.Width
	}
	if p.Y < -h.Y {
		p.Y += a.Height
	}
	if p.Y >= h.Y {
		p.Y -= a.Height
	}
	return p
}

// Body carries the position and rotation of one entity.
// Rotation is in degrees, kept in [0, 360). Visible is the only flag the
// renderer reads; the simulation never reads anything back from it.
type Body struct {
	Position core.Vec2
	Rotation float64
	Visible  bool
}

// Forward returns the unit vector the body is facing.
func (b *Body) Forward() core.Vec2 {
	return core.FromDegrees(b.Rotation)
}

// SetRotation stores the rotation wrapped into [0, 360).
func (b *Body) SetRotation(deg float64) {
	b.Rotation = core.WrapDegrees(deg)
}

// FixPosition re-wraps the position into the arena bounds.
func (b *Body) FixPosition(a Arena) {
	b.Position = a.Wrap(b.Position)
}

// MoveForward translates the body along its forward vector and re-wraps it.
func (b *Body) MoveForward(distance float64, a Arena) {
	b.Position = b.Position.Add(b.Forward().WithMagnitude(distance))
	b.FixPosition(a)
}

// BodyType selects the hull a ship is drawn with.
type BodyType uint8

const (
	XWing BodyType = iota
	TieFighter
)

func (t BodyType) String() string {
	switch t {
	case XWing:
		return "xwing"
	case TieFighter:
		return "tie"
	default:
		return "unknown"
	}
}

// Rules are the per-match tuning constants for ships and shots.
type Rules struct {
	InitialHealth     int
	MaxEnergy         int
	ShotCooldown      int
	RespawnCooldown   int
	RotationPerAction float64
	ShipSpeed         float64
	ShipRadius        float64
	ShieldUpCost      int
	ShieldUpkeep      int
	EnergyReplenish   int

	ShotDamage   int
	ShotSpeed    float64
	ShotLifetime int
	ShotRadius   float64
}

// DefaultRules returns the standard ship and shot constants.
func DefaultRules() Rules {
	return Rules{
		InitialHealth:     100,
		MaxEnergy:         400,
		ShotCooldown:      30,
		RespawnCooldown:   50,
		RotationPerAction: 5,
		ShipSpeed:         0.1,
		ShipRadius:        0.6,
		ShieldUpCost:      100,
		ShieldUpkeep:      3,
		EnergyReplenish:   4,

		ShotDamage:   100,
		ShotSpeed:    0.3,
		ShotLifetime: 40,
		ShotRadius:   0.5,
	}
}

// ShieldReserve is the energy a ship must exceed to raise its shield:
// the raise cost plus five turns of upkeep.
func (r Rules) ShieldReserve() int {
	return r.ShieldUpCost + 5*r.ShieldUpkeep
}
