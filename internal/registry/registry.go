// Package registry keeps the game modes the platform can launch. Modes
// register themselves in init() so the CLI, the TUI and the SSH server can
// list and start them without importing each one.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// Game is a playable or watchable mode driven by the platform loop.
// Games hold no terminal state; the platform maps keys to InputFrames,
// owns the clock and paints the Screen.
type Game interface {
	// ID is the mode identifier used on the command line ("melee", "duel").
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh match sized to the screen.
	Reset(cfg core.RuntimeConfig)

	// Step runs one simulation tick with the player's input for that tick.
	Step(in core.InputFrame) core.StepResult

	// Render paints the current match into dst. dst is cleared first.
	Render(dst *core.Screen)

	// State reports the current tick, score and pause state.
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
	About string
	// Interactive modes seat a keyboard pilot.
	Interactive bool
}

// Factory creates a fresh instance of a mode.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a mode. Registering the same id twice panics.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	id := strings.ToLower(info.ID)
	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	if info.Title == "" {
		info.Title = f().Title()
	}
	info.ID = id
	entries[id] = entry{info: info, factory: f}
}

// List returns every registered mode sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the metadata of a mode.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[strings.ToLower(id)]
	return e.info, ok
}

// Create instantiates a mode by id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[strings.ToLower(id)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether a mode is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
