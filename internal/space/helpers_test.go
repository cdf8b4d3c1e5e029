package space

import (
	"github.com/vovakirdan/tui-starwars/internal/core"
)

// stubBrain returns a fixed action, error or panic.
type stubBrain struct {
	action Action
	err    error
	panics string
	calls  int
}

func (b *stubBrain) NextAction(Spaceship, View) (Action, error) {
	b.calls++
	if b.panics != "" {
		panic(b.panics)
	}
	return b.action, b.err
}

func (b *stubBrain) DefaultName() string    { return "Stub" }
func (b *stubBrain) PrimaryColor() core.RGB { return core.ColorWhite }
func (b *stubBrain) BodyType() BodyType     { return XWing }

// funcBrain adapts a closure.
type funcBrain func(self Spaceship, view View) Action

func (f funcBrain) NextAction(self Spaceship, view View) (Action, error) {
	return f(self, view), nil
}

func (f funcBrain) DefaultName() string    { return "Func" }
func (f funcBrain) PrimaryColor() core.RGB { return core.ColorCyan }
func (f funcBrain) BodyType() BodyType     { return TieFighter }

func newTestRegistry() *Registry {
	return NewRegistry(DefaultOptions())
}

func addShip(r *Registry, name string, x, y, rot float64) ShipController {
	return r.RegisterSpaceship(
		Body{Position: core.V(x, y), Rotation: rot, Visible: true},
		&stubBrain{},
		Appearance{Name: name},
	)
}
