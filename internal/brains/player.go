package brains

import (
	"sync"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Player turns keyboard intents into actions. Input arrives from the UI
// goroutine through Press. Each press is latched until the next tick
// consumes it; the shield toggle persists until toggled again.
type Player struct {
	mu         sync.Mutex
	name       string
	pressed    map[core.Action]bool
	wantShield bool
}

// NewPlayer creates a player brain. An empty name falls back to "Player".
func NewPlayer(name string) *Player {
	if name == "" {
		name = "Player"
	}
	return &Player{name: name, pressed: make(map[core.Action]bool)}
}

func (p *Player) DefaultName() string      { return p.name }
func (p *Player) PrimaryColor() core.RGB   { return core.ColorWhite }
func (p *Player) BodyType() space.BodyType { return space.XWing }

// Press latches an intent for the next tick.
func (p *Player) Press(a core.Action) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch a {
	case core.ActionToggleShield:
		p.wantShield = !p.wantShield
	case core.ActionTurnLeft, core.ActionTurnRight, core.ActionFire:
		p.pressed[a] = true
	}
}

// Apply latches every intent of an input frame.
func (p *Player) Apply(in core.InputFrame) {
	for _, a := range []core.Action{core.ActionTurnLeft, core.ActionTurnRight, core.ActionFire, core.ActionToggleShield} {
		if in.Has(a) {
			p.Press(a)
		}
	}
}

// WantsShield reports the current shield toggle.
func (p *Player) WantsShield() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wantShield
}

func (p *Player) Reset(int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.pressed)
	p.wantShield = false
}

func (p *Player) NextAction(self space.Spaceship, _ space.View) (space.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pressed := p.pressed
	defer clear(pressed)

	switch {
	case p.wantShield && self.CanRaiseShield():
		return space.ShieldUp, nil
	case !p.wantShield && self.IsShieldUp():
		return space.ShieldDown, nil
	case pressed[core.ActionTurnRight]:
		return space.TurnRight, nil
	case pressed[core.ActionTurnLeft]:
		return space.TurnLeft, nil
	case pressed[core.ActionFire] && self.CanShoot():
		return space.Shoot, nil
	default:
		return space.DoNothing, nil
	}
}
