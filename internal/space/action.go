package space

import (
	"fmt"
	"strings"
)

// Action is one of the fixed commands a brain may return each tick.
type Action uint8

const (
	DoNothing Action = iota
	ShieldUp
	ShieldDown
	Shoot
	TurnLeft
	TurnRight

	actionCount
)

var actionNames = [actionCount]string{
	DoNothing:  "DoNothing",
	ShieldUp:   "ShieldUp",
	ShieldDown: "ShieldDown",
	Shoot:      "Shoot",
	TurnLeft:   "TurnLeft",
	TurnRight:  "TurnRight",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Actions returns every valid action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := DoNothing; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAction resolves a case-insensitive action name.
func ParseAction(name string) (Action, error) {
	for a := DoNothing; a < actionCount; a++ {
		if strings.EqualFold(actionNames[a], name) {
			return a, nil
		}
	}
	return DoNothing, fmt.Errorf("space: unknown action %q", name)
}

// CanDo reports whether ship may perform a right now. Unknown values never pass.
func (a Action) CanDo(ship Spaceship) bool {
	switch a {
	case DoNothing:
		return true
	case ShieldUp:
		return ship.CanRaiseShield()
	case ShieldDown:
		return ship.IsShieldUp()
	case Shoot:
		return ship.CanShoot()
	case TurnLeft, TurnRight:
		return ship.IsAlive()
	default:
		return false
	}
}

// Do applies a through c. Callers check CanDo first.
func (a Action) Do(c ShipController) {
	if !c.valid() {
		return
	}
	rules := c.rec.reg.rules
	switch a {
	case ShieldUp:
		c.RaiseShield()
	case ShieldDown:
		c.LowerShield()
	case Shoot:
		c.Fire()
	case TurnLeft:
		c.Rotate(rules.RotationPerAction)
	case TurnRight:
		c.Rotate(-rules.RotationPerAction)
	}
}
