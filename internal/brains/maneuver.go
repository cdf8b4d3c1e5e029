package brains

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Twister spins right and fires every time the gun is ready.
type Twister struct{}

func (Twister) DefaultName() string      { return "Twister" }
func (Twister) PrimaryColor() core.RGB   { return rgb(0xF9, 0x6C, 0xC6) }
func (Twister) BodyType() space.BodyType { return space.TieFighter }

func (Twister) NextAction(self space.Spaceship, _ space.View) (space.Action, error) {
	return fireOr(self, space.TurnRight), nil
}

// Idle drifts forward and does nothing else.
type Idle struct{}

func (Idle) DefaultName() string      { return "Idle" }
func (Idle) PrimaryColor() core.RGB   { return core.ColorGray }
func (Idle) BodyType() space.BodyType { return space.XWing }

func (Idle) NextAction(space.Spaceship, space.View) (space.Action, error) {
	return space.DoNothing, nil
}

// Snake flies along the axes, makes sharp random quarter turns and fires
// whenever it can.
type Snake struct {
	// TurnChance is the per-tick probability of starting a new turn.
	TurnChance float64

	rng  *rand.Rand
	turn space.Action
}

const snakeTurnChance = 0.03

// NewSnake returns a Snake seeded for reproducible turns.
func NewSnake(seed int64) *Snake {
	s := &Snake{TurnChance: snakeTurnChance}
	s.Reset(seed)
	return s
}

func (*Snake) DefaultName() string      { return "Snake" }
func (*Snake) PrimaryColor() core.RGB   { return rgb(0x00, 0xFF, 0xFF) }
func (*Snake) BodyType() space.BodyType { return space.TieFighter }

func (s *Snake) Reset(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
	s.chooseTurn()
}

func (s *Snake) chooseTurn() {
	if s.rng.Float64() > 0.5 {
		s.turn = space.TurnLeft
	} else {
		s.turn = space.TurnRight
	}
}

func (s *Snake) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	if s.rng == nil {
		s.Reset(1)
	}
	// Keep turning until the heading is within one step of an axis.
	off := core.Mod(self.Rotation(), 90)
	if off > 45 {
		off = 90 - off
	}
	if off >= view.Rules().RotationPerAction*0.7 {
		return s.turn, nil
	}
	if s.rng.Float64() < s.TurnChance {
		s.chooseTurn()
		return s.turn, nil
	}
	return fireOr(self, space.DoNothing), nil
}

// Evader scores the threat posed by every ship and shot in four sectors
// around itself and steers toward the safest one.
type Evader struct{}

const (
	evaderAheadHalf  = 45.0
	evaderBehindHalf = 170.0
	evaderBleed      = 0.2
)

func (Evader) DefaultName() string      { return "Evader" }
func (Evader) PrimaryColor() core.RGB   { return rgb(0x38, 0x76, 0x35) }
func (Evader) BodyType() space.BodyType { return space.TieFighter }

type sectors struct {
	ahead, behind, left, right float64
}

// add files a threat at offset pos and bearing angle. It reports whether the
// threat is ahead and inside shooting range.
func (s *sectors) add(pos core.Vec2, angle, maxScore, shootRange float64) bool {
	score := maxScore - pos.SqrLength()
	switch {
	case angle > -evaderAheadHalf && angle < evaderAheadHalf:
		s.ahead += score
		if angle < 0 {
			s.right += score * evaderBleed
		} else {
			s.left += score * evaderBleed
		}
		return pos.SqrLength() <= shootRange
	case angle >= evaderAheadHalf && angle < evaderBehindHalf:
		s.left += score
		if angle < 90 {
			s.ahead += score * evaderBleed
		} else {
			s.behind += score * evaderBleed
		}
	case angle > -evaderBehindHalf && angle <= -evaderAheadHalf:
		s.right += score
		if angle > -90 {
			s.ahead += score * evaderBleed
		} else {
			s.behind += score * evaderBleed
		}
	default:
		s.behind += score
		if angle < 0 {
			s.right += score * evaderBleed
		} else {
			s.left += score * evaderBleed
		}
	}
	return false
}

func (Evader) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	maxScore := view.Arena().Half().SqrLength()
	rules := view.Rules()
	reach := rules.ShotSpeed * float64(rules.ShotLifetime+5)
	shootRange := reach * reach

	var sec sectors
	shouldShoot := false
	for _, s := range view.Ships() {
		if !s.IsAlive() || s.Is(self) {
			continue
		}
		pos := self.ClosestRelativePosition(s)
		if sec.add(pos, pos.AngleTo(self.Forward()), maxScore, shootRange) {
			shouldShoot = true
		}
	}
	for _, s := range view.Shots() {
		if !s.IsAlive() {
			continue
		}
		pos := self.ClosestRelativePosition(s)
		sec.add(pos, pos.AngleTo(self.Forward()), maxScore, shootRange)
	}

	safest := math.Min(math.Min(sec.ahead, sec.behind), math.Min(sec.left, sec.right))
	if approxEqual(safest, sec.ahead) {
		if shouldShoot && self.CanShoot() {
			return space.Shoot, nil
		}
		if sec.behind > maxScore*0.8 {
			if self.CanRaiseShield() {
				return space.ShieldUp, nil
			}
		} else if self.IsShieldUp() {
			return space.ShieldDown, nil
		}
		return space.DoNothing, nil
	}
	if sec.right < sec.left {
		return space.TurnRight, nil
	}
	return space.TurnLeft, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// PaperTiger shoots at whoever is nearest until someone turns on it, then
// runs for a while toward a third ship hoping to shake the chaser off.
type PaperTiger struct {
	running int
}

const (
	tigerSafeDistance = 2
	tigerShotLimit    = 30
	tigerRunTurns     = 40
	tigerFacing       = 20
)

func (*PaperTiger) DefaultName() string      { return "PaperTiger" }
func (*PaperTiger) PrimaryColor() core.RGB   { return rgb(0xFF, 0xFF, 0x00) }
func (*PaperTiger) BodyType() space.BodyType { return space.XWing }

func (p *PaperTiger) Reset(int64) { p.running = 0 }

// dodge always turns, left when the bearing is inside the tolerance.
func dodge(angle float64) space.Action {
	return steer(angle, space.TurnLeft)
}

func (p *PaperTiger) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	ships := view.Ships()
	nearest, ok := nearestShip(self, ships, nil)
	if !ok {
		return fireOr(self, space.DoNothing), nil
	}
	fromNearest := nearest.ClosestRelativePosition(self)

	run := false
	if underFire(self, view, tigerSafeDistance, tigerShotLimit) {
		if self.CanRaiseShield() {
			return space.ShieldUp, nil
		}
		run = true
		p.running = 0
	}
	if fromNearest.Length() <= tigerSafeDistance && self.CanRaiseShield() {
		return space.ShieldUp, nil
	}
	if math.Abs(fromNearest.AngleTo(nearest.Forward())) <= tigerFacing {
		run = true
		p.running = 0
	}

	if run || p.running < tigerRunTurns {
		p.running++
		second, ok := nearestShip(self, ships, func(s space.Spaceship) bool { return s.Is(nearest) })
		if ok {
			goal := self.ClosestRelativePosition(second).Add(second.Forward())
			return dodge(goal.AngleTo(self.Forward())), nil
		}
		return dodge(fromNearest.AngleTo(self.Forward())), nil
	}

	if self.CanShoot() {
		return space.Shoot, nil
	}
	return dodge(bearing(self, nearest)), nil
}
