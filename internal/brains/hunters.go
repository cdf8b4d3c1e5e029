package brains

import (
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Hunter locks onto the first live ship it finds and chases it until it
// dies, firing whenever the target is ahead.
type Hunter struct {
	target space.Spaceship
}

func (*Hunter) DefaultName() string      { return "Hunter" }
func (*Hunter) PrimaryColor() core.RGB   { return rgb(0x76, 0x35, 0x35) }
func (*Hunter) BodyType() space.BodyType { return space.XWing }

func (h *Hunter) Reset(int64) { h.target = space.Spaceship{} }

func (h *Hunter) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	if !h.target.IsAlive() {
		h.target = space.Spaceship{}
		for _, s := range view.Ships() {
			if s.IsAlive() && !s.Is(self) {
				h.target = s
				break
			}
		}
	}
	if h.target.IsAlive() {
		if a := steer(bearing(self, h.target), space.DoNothing); a != space.DoNothing {
			return a, nil
		}
	}
	return fireOr(self, space.DoNothing), nil
}

// Defender shields up when a ship is bearing down on it and otherwise
// snipes at the closest ship.
type Defender struct{}

// defenderAlert is the distance at which a chaser triggers the shield.
const defenderAlert = 6

func (Defender) DefaultName() string      { return "Defender" }
func (Defender) PrimaryColor() core.RGB   { return rgb(0x38, 0x49, 0xFF) }
func (Defender) BodyType() space.BodyType { return space.TieFighter }

func (Defender) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	var target, chaser space.Spaceship
	closest := -1.0
	for _, s := range view.Ships() {
		if !s.IsAlive() || s.Is(self) {
			continue
		}
		if d := distance(self, s); closest < 0 || d < closest {
			target, closest = s, d
		}
		if a := s.ClosestRelativePosition(self).AngleTo(s.Forward()); a > -aimTolerance && a < aimTolerance {
			chaser = s
		}
	}

	if chaser.IsAlive() && !self.IsShieldUp() && distance(self, chaser) < defenderAlert {
		if self.CanRaiseShield() {
			return space.ShieldUp, nil
		}
		return space.TurnRight, nil
	}

	if target.IsAlive() {
		if a := steer(bearing(self, target), space.DoNothing); a != space.DoNothing {
			return a, nil
		}
		if closest < 20 && (!target.IsShieldUp() || target.Energy() < 3) {
			return fireOr(self, space.DoNothing), nil
		}
	}
	return space.DoNothing, nil
}

// DarthShip shields against incoming fire, drops the shield on a timer and
// hunts the nearest ship in between.
type DarthShip struct {
	timer int
}

const (
	darthSafeDistance = 3
	darthShieldTime   = 20
	darthShotLimit    = 30
)

func (*DarthShip) DefaultName() string      { return "DarthShip" }
func (*DarthShip) PrimaryColor() core.RGB   { return rgb(0xAA, 0xEE, 0xBB) }
func (*DarthShip) BodyType() space.BodyType { return space.XWing }

func (d *DarthShip) Reset(int64) { d.timer = 0 }

func (d *DarthShip) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	if underFire(self, view, darthSafeDistance, darthShotLimit) {
		switch {
		case self.CanRaiseShield():
			d.timer = darthShieldTime
			return space.ShieldUp, nil
		case self.CanShoot():
			return space.Shoot, nil
		default:
			return space.TurnRight, nil
		}
	}
	if self.IsShieldUp() {
		d.timer--
		if d.timer <= 0 {
			return space.ShieldDown, nil
		}
	}

	nearest, ok := nearestShip(self, view.Ships(), nil)
	if !ok {
		return space.DoNothing, nil
	}
	if a := steer(bearing(self, nearest), space.DoNothing); a != space.DoNothing {
		return a, nil
	}
	switch {
	case self.CanShoot():
		return space.Shoot, nil
	case !self.IsShieldUp() && self.CanRaiseShield() && distance(self, nearest) <= darthSafeDistance:
		d.timer = darthShieldTime
		return space.ShieldUp, nil
	default:
		return space.TurnLeft, nil
	}
}

// CyberShip runs from shielded ships, rams unshielded ones behind its own
// shield and shoots anything in range.
type CyberShip struct {
	timer int
}

const (
	cyberSafeDistance  = 3
	cyberShootDistance = 6
	cyberShieldTime    = 10
	cyberShotLimit     = 25
)

func (*CyberShip) DefaultName() string      { return "CyberShip" }
func (*CyberShip) PrimaryColor() core.RGB   { return rgb(0xFF, 0x00, 0x00) }
func (*CyberShip) BodyType() space.BodyType { return space.TieFighter }

func (c *CyberShip) Reset(int64) { c.timer = 0 }

func (c *CyberShip) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	if underFire(self, view, cyberSafeDistance, cyberShotLimit) {
		if self.CanRaiseShield() {
			c.timer = cyberShieldTime
			return space.ShieldUp, nil
		}
		return space.TurnRight, nil
	}
	if self.IsShieldUp() {
		c.timer--
		if c.timer <= 0 {
			return space.ShieldDown, nil
		}
	}

	nearest, ok := nearestShip(self, view.Ships(), nil)
	if !ok {
		return space.DoNothing, nil
	}
	angle := bearing(self, nearest)
	dist := distance(self, nearest)

	// Turn away from a ship that is ready for us.
	if nearest.IsShieldUp() {
		switch {
		case angle >= aimTolerance:
			return space.TurnRight, nil
		case angle <= -aimTolerance:
			return space.TurnLeft, nil
		}
	}

	switch {
	case dist <= cyberSafeDistance && !self.IsShieldUp() && self.CanRaiseShield():
		c.timer = cyberShieldTime
		return space.ShieldUp, nil
	case !nearest.IsShieldUp() && self.CanShoot() && dist < cyberShootDistance:
		return space.Shoot, nil
	default:
		return steer(angle, space.DoNothing), nil
	}
}
