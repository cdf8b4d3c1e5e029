package match

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Sound names a sound effect the audio adapter may play.
type Sound uint8

const (
	SoundShotXWing Sound = iota + 1
	SoundShotTie
	SoundShieldUp
	SoundShieldBurnShip
	SoundShieldBurnShot
	SoundCollision
	SoundKill
	SoundRespawn
)

func (s Sound) String() string {
	switch s {
	case SoundShotXWing:
		return "shot-xwing"
	case SoundShotTie:
		return "shot-tie"
	case SoundShieldUp:
		return "shield-up"
	case SoundShieldBurnShip:
		return "shield-burn-ship"
	case SoundShieldBurnShot:
		return "shield-burn-shot"
	case SoundCollision:
		return "collision"
	case SoundKill:
		return "kill"
	case SoundRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// SoundFor maps a simulation event to its sound effect.
func SoundFor(e space.Event) (Sound, bool) {
	switch e.Kind {
	case space.EventShot:
		if e.Body == space.TieFighter {
			return SoundShotTie, true
		}
		return SoundShotXWing, true
	case space.EventShieldUp:
		return SoundShieldUp, true
	case space.EventShieldBurnShip:
		return SoundShieldBurnShip, true
	case space.EventShieldBurnShot:
		return SoundShieldBurnShot, true
	case space.EventCollision:
		return SoundCollision, true
	case space.EventKill:
		return SoundKill, true
	case space.EventRespawn:
		return SoundRespawn, true
	default:
		return 0, false
	}
}

// Audio receives fire-and-forget sound notifications.
type Audio interface {
	Play(sound Sound, tick uint64)
}

// Scoreboard receives pilot registrations and score changes.
type Scoreboard interface {
	Add(name string, primary, secondary core.RGB)
	AddScore(name string, delta int)
}

// sinks fans out to external adapters. A panicking adapter is logged and
// never aborts the tick.
type sinks struct {
	logger *log.Logger
	audio  []Audio
	boards []Scoreboard
}

func (s *sinks) guard(adapter string) {
	if r := recover(); r != nil {
		s.logger.Error("adapter panicked", "adapter", adapter, "panic", r)
	}
}

func (s *sinks) play(sound Sound, tick uint64) {
	for _, a := range s.audio {
		func() {
			defer s.guard("audio")
			a.Play(sound, tick)
		}()
	}
}

func (s *sinks) add(name string, primary, secondary core.RGB) {
	for _, b := range s.boards {
		func() {
			defer s.guard("scoreboard")
			b.Add(name, primary, secondary)
		}()
	}
}

func (s *sinks) addScore(name string, delta int) {
	for _, b := range s.boards {
		func() {
			defer s.guard("scoreboard")
			b.AddScore(name, delta)
		}()
	}
}
