package space

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// Brain is a ship's decision policy. NextAction is polled once per tick for
// live ships with read-only views only; the returned action is queued and
// applied after every ship has chosen.
type Brain interface {
	NextAction(self Spaceship, space View) (Action, error)
	DefaultName() string
	PrimaryColor() core.RGB
	BodyType() BodyType
}

// Resetter is implemented by brains that keep state between ticks. Reset
// is called at match start with a seed derived from the match seed.
type Resetter interface {
	Reset(seed int64)
}

// View is the read-only window onto the registry a brain receives.
// Slices are fresh copies owned by the caller.
type View interface {
	Ships() []Spaceship
	Shots() []Shot
	Arena() Arena
	Rules() Rules
	Tick() uint64
}

// ErrNoBrain is reported for a ship registered without a decision policy.
var ErrNoBrain = errors.New("space: ship has no brain")

// BrainFaultError wraps an error or panic raised by a brain.
type BrainFaultError struct {
	Ship  string
	Cause error
}

func (e *BrainFaultError) Error() string {
	return fmt.Sprintf("space: brain of %s failed: %v", e.Ship, e.Cause)
}

func (e *BrainFaultError) Unwrap() error { return e.Cause }
