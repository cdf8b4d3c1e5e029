package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// GameKeyMap holds the in-match bindings. It doubles as the help bar.
type GameKeyMap struct {
	TurnLeft  key.Binding
	TurnRight key.Binding
	Fire      key.Binding
	Shield    key.Binding
	Pause     key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Restart   key.Binding
	Board     key.Binding
	Back      key.Binding
	Quit      key.Binding

	// pilot hides the flight keys when spectating.
	pilot bool
}

// DefaultGameKeyMap returns the default bindings.
func DefaultGameKeyMap(pilot bool) GameKeyMap {
	return GameKeyMap{
		TurnLeft: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "turn left"),
		),
		TurnRight: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "turn right"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "w", "up"),
			key.WithHelp("space/w", "fire"),
		),
		Shield: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s", "shield"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Board: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		pilot: pilot,
	}
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	if k.pilot {
		return []key.Binding{k.TurnLeft, k.TurnRight, k.Fire, k.Shield, k.Pause, k.Quit}
	}
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Restart, k.Board, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TurnLeft, k.TurnRight, k.Fire, k.Shield},
		{k.Pause, k.Faster, k.Slower, k.Restart},
		{k.Board, k.Back, k.Quit},
	}
}

// KeyMapper translates Bubble Tea key messages to match actions.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a key mapper over the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap(true)}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.TurnLeft):
		return core.ActionTurnLeft, false
	case key.Matches(msg, k.TurnRight):
		return core.ActionTurnRight, false
	case key.Matches(msg, k.Fire):
		return core.ActionFire, false
	case key.Matches(msg, k.Shield):
		return core.ActionToggleShield, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Faster):
		return core.ActionFaster, false
	case key.Matches(msg, k.Slower):
		return core.ActionSlower, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionPrevPreset
	MenuActionNextPreset
	MenuActionSelect
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionPrevPreset
	case "d", "right", "l":
		return MenuActionNextPreset
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
