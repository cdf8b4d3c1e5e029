package space

import "github.com/vovakirdan/tui-starwars/internal/core"

// EventKind tags something observable that happened during a tick.
type EventKind uint8

const (
	EventShot EventKind = iota + 1
	EventShieldUp
	EventShieldBurnShip
	EventShieldBurnShot
	EventCollision
	EventKill
	EventRespawn
	EventIllegalMove
	EventBrainFault
	EventPaused
)

func (k EventKind) String() string {
	switch k {
	case EventShot:
		return "shot"
	case EventShieldUp:
		return "shield-up"
	case EventShieldBurnShip:
		return "shield-burn-ship"
	case EventShieldBurnShot:
		return "shield-burn-shot"
	case EventCollision:
		return "collision"
	case EventKill:
		return "kill"
	case EventRespawn:
		return "respawn"
	case EventIllegalMove:
		return "illegal-move"
	case EventBrainFault:
		return "brain-fault"
	case EventPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Event is one entry of a tick's event log. Ship is the subject; Other is
// the counterpart (killer, victim or shooter) when there is one.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Ship     string
	Other    string
	Position core.Vec2
	Body     BodyType
	Err      error
}
