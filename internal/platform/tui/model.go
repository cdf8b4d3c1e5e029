package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/match"
	"github.com/vovakirdan/tui-starwars/internal/registry"
	"github.com/vovakirdan/tui-starwars/internal/storage"
)

// Live scoreboard layout
const (
	minWidthForBoard = 100
	boardWidth       = 40
)

// standingsSource is implemented by games that keep a scoreboard.
type standingsSource interface {
	Standings() []match.Standing
}

// ledgerSource is implemented by games whose results can be saved.
type ledgerSource interface {
	Match() *match.Match
	BrainIDs() []string
}

// Options configures a match model.
type Options struct {
	Store  *storage.Store
	Preset string
	Logger *log.Logger
	// Embedded models return to a menu on the back key instead of quitting.
	Embedded bool
	// Spectator models ignore flight keys.
	Spectator bool
}

// Model is the Bubble Tea model for one running match.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	keys       GameKeyMap
	help       help.Model
	board      table.Model
	showBoard  bool
	width      int
	height     int
	quitting   bool
	backToMenu bool
	saved      bool // Whether the current round is in the ledger
	loop       uint64
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	cfg.TickRate = max(MinTickRate, min(cfg.TickRate, MaxTickRate))
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		opts:       opts,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		keys:       DefaultGameKeyMap(!opts.Spectator),
		help:       help.New(),
		board:      newStandingsTable(),
		showBoard:  true,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		loop:       loops.Add(1),
	}
	w, h := m.screenSize()
	m.screen = core.NewScreen(w, h)
	m.config.ScreenW, m.config.ScreenH = w, h
	return m
}

// screenSize leaves room for the help bar and, on wide terminals, the
// scoreboard.
func (m Model) screenSize() (int, int) {
	w, h := m.width, m.height-1
	if m.boardVisible() {
		w -= boardWidth
	}
	return max(w, 1), max(h, 1)
}

func (m Model) boardVisible() bool {
	_, ok := m.game.(standingsSource)
	return ok && m.showBoard && m.width >= minWidthForBoard
}

// Init initializes the model and starts the match.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveResult()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back) && m.opts.Embedded:
		m.saveResult()
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Board):
		m.showBoard = !m.showBoard
		m.resizeScreen()
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	action, _ := m.keyMapper.MapKey(msg)
	switch action {
	case core.ActionFaster, core.ActionSlower:
		m.config.TickRate = ScaleTickRate(m.config.TickRate, action == core.ActionFaster)
	case core.ActionTurnLeft, core.ActionTurnRight, core.ActionFire, core.ActionToggleShield:
		if !m.opts.Spectator {
			m.inputFrame.Set(action)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events. The arena takes its shape
// from the first size; later resizes only rescale the view.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.resizeScreen()

	if m.gameState.Tick == 0 && !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m *Model) resizeScreen() {
	w, h := m.screenSize()
	m.config.ScreenW, m.config.ScreenH = w, h
	m.screen.Resize(w, h)
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) {
		m.saveResult()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.saved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.loop)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if m.gameState.GameOver {
		m.saveResult()
	}
	m.refreshBoard()

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveResult writes the current round to the ledger once.
func (m *Model) saveResult() {
	if m.saved || m.opts.Store == nil {
		return
	}
	src, ok := m.game.(ledgerSource)
	if !ok || src.Match() == nil || src.Match().Ticks() == 0 {
		return
	}
	m.saved = true
	rec := storage.NewMatchRecord(src.Match(), m.opts.Preset, src.BrainIDs())
	id, err := m.opts.Store.SaveMatch(rec)
	if err != nil {
		m.logger.Warn("could not save match", "err", err)
		return
	}
	m.logger.Debug("match saved", "id", id, "ticks", rec.Ticks)
}

func (m *Model) refreshBoard() {
	src, ok := m.game.(standingsSource)
	if !ok {
		return
	}
	m.board.SetRows(standingsRows(src.Standings()))
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".starwars", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	//nolint:errcheck // Best-effort save, the match continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	view := RenderScreen(m.screen)

	if m.boardVisible() {
		boardStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(boardWidth - 2)
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, boardStyle.Render(m.board.View()))
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	speed := fmt.Sprintf("  %d ticks/s", m.config.TickRate)
	return view + "\n" + helpStyle.Render(m.help.View(m.keys)+speed)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Close releases resources held by the game, such as script brains.
func (m Model) Close() {
	if c, ok := m.game.(interface{ Close() }); ok {
		c.Close()
	}
}

// TickRate returns the current simulation rate.
func (m Model) TickRate() int { return m.config.TickRate }

// newStandingsTable builds the live scoreboard table.
func newStandingsTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 2},
		{Title: "Pilot", Width: 14},
		{Title: "Score", Width: 5},
		{Title: "Hit", Width: 3},
		{Title: "Bash", Width: 4},
		{Title: "Dth", Width: 3},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

func standingsRows(standings []match.Standing) []table.Row {
	rows := make([]table.Row, len(standings))
	for i, st := range standings {
		rows[i] = table.Row{
			strconv.Itoa(st.Rank),
			st.Name,
			strconv.Itoa(st.Score),
			strconv.Itoa(st.Hits),
			strconv.Itoa(st.Bashes),
			strconv.Itoa(st.Deaths),
		}
	}
	return rows
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if fm, ok := finalModel.(Model); ok {
		fm.Close()
	} else {
		model.Close()
	}
	return err
}
