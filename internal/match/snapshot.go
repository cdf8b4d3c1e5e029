package match

import (
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// ShipState is a frozen copy of one ship.
type ShipState struct {
	Name           string
	Body           space.BodyType
	Primary        core.RGB
	Secondary      core.RGB
	Position       core.Vec2
	Rotation       float64
	Health         int
	Energy         int
	ShotCooldown   int
	TurnsToRespawn int
	ShieldUp       bool
	Alive          bool
	Visible        bool
}

// ShotState is a frozen copy of one shot.
type ShotState struct {
	Name        string
	Shooter     string
	Position    core.Vec2
	Rotation    float64
	TurnsToLive int
}

// Snapshot is the whole match at the end of a tick. It shares no memory
// with the registry.
type Snapshot struct {
	Tick   uint64
	Arena  space.Arena
	Ships  []ShipState
	Shots  []ShotState
	Deaths int
	Paused PauseReason
}

// Snapshot captures every ship in registration order and every live shot.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   m.reg.Tick(),
		Arena:  m.reg.Arena(),
		Deaths: m.deaths,
		Paused: m.paused,
	}
	ships := m.reg.Ships()
	s.Ships = make([]ShipState, 0, len(ships))
	for _, c := range ships {
		v := c.View()
		primary, secondary := v.Colors()
		s.Ships = append(s.Ships, ShipState{
			Name:           v.Name(),
			Body:           v.BodyType(),
			Primary:        primary,
			Secondary:      secondary,
			Position:       v.Position(),
			Rotation:       v.Rotation(),
			Health:         v.Health(),
			Energy:         v.Energy(),
			ShotCooldown:   v.ShotCooldown(),
			TurnsToRespawn: v.TurnsToRespawn(),
			ShieldUp:       v.IsShieldUp(),
			Alive:          v.IsAlive(),
			Visible:        v.Visible(),
		})
	}
	shots := m.reg.LiveShots()
	s.Shots = make([]ShotState, 0, len(shots))
	for _, v := range shots {
		if !v.IsAlive() {
			continue
		}
		s.Shots = append(s.Shots, ShotState{
			Name:        v.Name(),
			Shooter:     v.Shooter().Name(),
			Position:    v.Position(),
			Rotation:    v.Rotation(),
			TurnsToLive: v.TurnsToLive(),
		})
	}
	return s
}

// Ship returns the state of the named ship.
func (s Snapshot) Ship(name string) (ShipState, bool) {
	for _, ship := range s.Ships {
		if ship.Name == name {
			return ship, true
		}
	}
	return ShipState{}, false
}
