// Package tui runs matches in the terminal with Bubble Tea: the tick loop,
// input mapping, the styled arena view, the live scoreboard, the results
// browser and the SSH spectator server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Tick rate bounds for the time-scale keys.
const (
	MinTickRate     = 5
	MaxTickRate     = 200
	DefaultTickRate = 50
)

// TickMsg is sent to trigger a match simulation tick. Loop identifies the
// model that scheduled it, so a stale tick never starts a second chain.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loops atomic.Uint64

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}

// ScaleTickRate doubles or halves the rate within [MinTickRate, MaxTickRate].
func ScaleTickRate(rate int, faster bool) int {
	if faster {
		rate *= 2
	} else {
		rate /= 2
	}
	return max(MinTickRate, min(rate, MaxTickRate))
}
