package space

import (
	"fmt"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/pool"
)

type shotRecord struct {
	id  pool.Handle
	reg *Registry

	body        Body
	name        string
	shooter     pool.Handle
	turnsToLive int
	bornTick    uint64
}

// Shot is the read-only view of a shot in flight.
type Shot struct {
	rec *shotRecord
	id  pool.Handle
}

func (s Shot) valid() bool {
	return s.rec != nil && s.rec.id == s.id
}

func (s Shot) handle() objectID {
	return objectID{kind: kindShot, h: s.id}
}

func (s Shot) ID() pool.Handle { return s.id }
func (s Shot) IsZero() bool    { return s.rec == nil }

func (s Shot) IsAlive() bool {
	return s.valid() && s.rec.turnsToLive > 0
}

func (s Shot) Radius() float64 {
	if !s.valid() {
		return 0
	}
	return s.rec.reg.rules.ShotRadius
}

func (s Shot) Position() core.Vec2 {
	if !s.IsAlive() {
		return core.Vec2{}
	}
	return s.rec.body.Position
}

func (s Shot) Rotation() float64 {
	if !s.IsAlive() {
		return 0
	}
	return s.rec.body.Rotation
}

func (s Shot) Forward() core.Vec2 {
	if !s.IsAlive() {
		return core.Vec2{}
	}
	return s.rec.body.Forward()
}

func (s Shot) Name() string {
	if !s.valid() {
		return ""
	}
	return s.rec.name
}

func (s Shot) TurnsToLive() int {
	if !s.valid() {
		return 0
	}
	return s.rec.turnsToLive
}

// Shooter returns the ship that fired s. The view reports dead once that
// ship has left the match.
func (s Shot) Shooter() Spaceship {
	if !s.valid() {
		return Spaceship{}
	}
	rec, ok := s.rec.reg.ships.Get(s.rec.shooter)
	if !ok {
		return Spaceship{}
	}
	return Spaceship{rec: rec, id: s.rec.shooter}
}

// FiredBy reports whether ship fired s.
func (s Shot) FiredBy(ship Spaceship) bool {
	return s.valid() && !ship.IsZero() && s.rec.shooter == ship.id
}

func (s Shot) CheckCollision(other SpaceObject) bool {
	if !s.valid() {
		return false
	}
	return CheckCollision(s.rec.reg.arena, s, other)
}

func (s Shot) ClosestRelativePosition(other SpaceObject) core.Vec2 {
	if !s.valid() {
		return core.Vec2{}
	}
	return ClosestRelativePosition(s.rec.reg.arena, s, other)
}

func (s Shot) String() string {
	if !s.valid() {
		return "shot(stale)"
	}
	return fmt.Sprintf("shot(%s ttl=%d)", s.rec.name, s.rec.turnsToLive)
}

// ShotController is the only writer of a shot's state.
type ShotController struct {
	rec *shotRecord
	id  pool.Handle
}

func (c ShotController) valid() bool {
	return c.rec != nil && c.rec.id == c.id
}

func (c ShotController) View() Shot {
	return Shot{rec: c.rec, id: c.id}
}

func (c ShotController) IsAlive() bool { return c.View().IsAlive() }

// IsDetached reports whether the shot's slot has been recycled.
func (c ShotController) IsDetached() bool { return !c.valid() }

func (c ShotController) Body() *Body {
	if !c.valid() {
		return nil
	}
	return &c.rec.body
}

// Kill ends the shot's flight.
func (c ShotController) Kill() {
	if !c.valid() {
		return
	}
	c.rec.turnsToLive = 0
	c.rec.body.Visible = false
}

// DoTurn advances a live shot one step and counts down its lifetime.
// Shots fired during the current tick hold still until the next one.
func (c ShotController) DoTurn() {
	if !c.IsAlive() || c.rec.bornTick == c.rec.reg.tick {
		return
	}
	c.rec.body.MoveForward(c.rec.reg.rules.ShotSpeed, c.rec.reg.arena)
	c.rec.turnsToLive--
	if c.rec.turnsToLive <= 0 {
		c.rec.body.Visible = false
	}
}
