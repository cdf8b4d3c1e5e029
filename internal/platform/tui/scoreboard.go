package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-starwars/internal/storage"
)

// Scoreboard layout constants
const (
	maxRows = 100 // Max ledger rows to load per tab
)

// ScoreboardTab selects what the ledger browser shows.
type ScoreboardTab int

const (
	TabPilots ScoreboardTab = iota
	TabMatches
)

func (t ScoreboardTab) String() string {
	if t == TabMatches {
		return "Recent matches"
	}
	return "Pilots"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel browses the match ledger.
type ScoreboardModel struct {
	store     *storage.Store
	tab       ScoreboardTab
	rows      []table.Row
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoreboardModel) columns() []table.Column {
	if m.tab == TabMatches {
		return []table.Column{
			{Title: "Match", Width: 6},
			{Title: "Preset", Width: 12},
			{Title: "Seed", Width: 20},
			{Title: "Ticks", Width: 8},
			{Title: "Winner", Width: 14},
			{Title: "Date", Width: 12},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Pilot", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Wins", Width: 5},
		{Title: "Played", Width: 6},
		{Title: "Best", Width: 5},
		{Title: "Hits", Width: 5},
		{Title: "Bash", Width: 5},
		{Title: "Deaths", Width: 6},
	}
}

// createTable creates a new table with the columns of the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fills the table from the ledger.
func (m *ScoreboardModel) load() {
	m.rows, m.loadErr = nil, nil
	if m.store != nil {
		m.rows, m.loadErr = ledgerRows(m.store, m.tab)
	}
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func ledgerRows(store *storage.Store, tab ScoreboardTab) ([]table.Row, error) {
	if tab == TabMatches {
		matches, err := store.RecentMatches(maxRows)
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, len(matches))
		for i, rec := range matches {
			winner := rec.Winner
			if winner == "" {
				winner = "(tie)"
			}
			rows[i] = table.Row{
				fmt.Sprintf("#%d", rec.ID),
				rec.Preset,
				strconv.FormatInt(rec.Seed, 10),
				strconv.FormatUint(rec.Ticks, 10),
				winner,
				rec.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows, nil
	}

	pilots, err := store.TopPilots(maxRows)
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(pilots))
	for i, p := range pilots {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			p.Name,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.BestScore),
			strconv.Itoa(p.Hits),
			strconv.Itoa(p.Bashes),
			strconv.Itoa(p.Deaths),
		}
	}
	return rows, nil
}

func (m *ScoreboardModel) switchTab(delta int) {
	m.tab = ScoreboardTab((int(m.tab) + delta + 2) % 2)
	m.table = m.createTable()
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("STAR WARS LEDGER - "+m.tab.String(), m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.store == nil:
		return emptyStyle.Render("No ledger database is open.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the ledger:\n" + m.loadErr.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No matches recorded yet.\nFinish a round to fill the ledger!")
	}
	return m.table.View()
}

// Tab returns the tab on display.
func (m ScoreboardModel) Tab() ScoreboardTab { return m.tab }

// Rows returns the rows of the current tab.
func (m ScoreboardModel) Rows() []table.Row { return m.rows }

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
