// Package arena adapts a match to the platform game loop: it seats an
// optional keyboard pilot, feeds input frames to the player brain, ticks
// the match and paints it into a screen buffer.
package arena

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/match"
	"github.com/vovakirdan/tui-starwars/internal/registry"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// PlayerBrainID marks the keyboard pilot in brain id lists.
const PlayerBrainID = "player"

func init() {
	registry.Register(registry.GameInfo{
		ID:    "melee",
		Title: "Melee",
		About: "six bots fight it out, you watch",
	}, func() registry.Game {
		return New("melee", "Melee", WithBrains(brains.DefaultFleet()...))
	})
	registry.Register(registry.GameInfo{
		ID:          "skirmish",
		Title:       "Skirmish",
		About:       "you against four bots",
		Interactive: true,
	}, func() registry.Game {
		return New("skirmish", "Skirmish", WithPilot("Player"), WithBrains("hunter", "evader", "twister", "defender"))
	})
	registry.Register(registry.GameInfo{
		ID:          "duel",
		Title:       "Duel",
		About:       "you against the hunter",
		Interactive: true,
	}, func() registry.Game {
		return New("duel", "Duel", WithPilot("Player"), WithBrains("hunter"))
	})
}

// Option configures a Game.
type Option func(*Game)

// WithBrains sets the bot lineup. Ids ending in .lua are scripts.
func WithBrains(ids ...string) Option {
	return func(g *Game) { g.brainIDs = append([]string(nil), ids...) }
}

// WithPilot seats a keyboard pilot ahead of the bots. An empty name
// leaves the match to the bots.
func WithPilot(name string) Option {
	return func(g *Game) { g.pilot = name }
}

// WithMatchConfig sets the rules and constants of every match.
func WithMatchConfig(cfg config.MatchConfig) Option {
	return func(g *Game) { g.matchCfg = cfg }
}

// WithAudio forwards match sounds to a.
func WithAudio(a match.Audio) Option {
	return func(g *Game) { g.audio = a }
}

// WithLogger sets the match logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// Game runs one match at a time inside the platform loop.
type Game struct {
	id, title string
	brainIDs  []string
	pilot     string
	matchCfg  config.MatchConfig
	audio     match.Audio
	logger    *log.Logger

	m      *match.Match
	fleet  []space.Brain
	player *brains.Player
	err    error
	last   match.TickResult
	// flash counts down frames that highlight the last kill.
	flash int
}

// New creates a game mode. It stays empty until Reset.
func New(id, title string, opts ...Option) *Game {
	g := &Game{
		id:       id,
		title:    title,
		matchCfg: config.DefaultMatchConfig(),
		logger:   log.New(io.Discard),
	}
	g.Configure(opts...)
	return g
}

// Configure applies options. They take effect at the next Reset.
func (g *Game) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(g)
	}
}

func (g *Game) ID() string    { return g.id }
func (g *Game) Title() string { return g.title }

// Reset starts a new match seeded from cfg.Seed. The arena width follows
// the screen: terminal cells are about twice as tall as wide.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.Close()
	g.err = nil
	g.last = match.TickResult{}
	g.flash = 0

	bots, err := brains.Fleet(g.brainIDs)
	if err != nil {
		g.err = err
		return
	}
	fleet := make([]space.Brain, 0, len(bots)+1)
	g.player = nil
	if g.pilot != "" {
		g.player = brains.NewPlayer(g.pilot)
		fleet = append(fleet, g.player)
	}
	fleet = append(fleet, bots...)

	field := fieldRect(cfg.ScreenW, cfg.ScreenH).Inset(1)
	opts := []match.Option{
		match.WithSeed(cfg.Seed),
		match.WithLogger(g.logger),
	}
	if field.W > 0 && field.H > 0 {
		opts = append(opts, match.WithViewport(float64(field.W), float64(field.H)*2))
	}
	if g.audio != nil {
		opts = append(opts, match.WithAudio(g.audio))
	}

	m, err := match.New(g.matchCfg, fleet, opts...)
	if err != nil {
		brains.Close(bots)
		g.err = err
		return
	}
	g.m = m
	g.fleet = fleet
}

// Step feeds the pilot's input, handles pause toggles and runs one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.m == nil {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		if g.m.Paused() == match.NotPaused {
			g.m.Pause()
		} else {
			g.m.Resume()
		}
	}
	if g.player != nil {
		g.player.Apply(in)
	}

	g.last = g.m.Tick()
	if g.flash > 0 {
		g.flash--
	}
	for _, e := range g.last.Events {
		if e.Kind == space.EventKill || e.Kind == space.EventCollision {
			g.flash = flashFrames
		}
	}
	return core.StepResult{State: g.State(), Events: len(g.last.Events)}
}

// State reports the pilot's score, or the leader's when spectating. A
// death or score pause ends the round.
func (g *Game) State() core.GameState {
	if g.m == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	st := core.GameState{
		Tick:   g.m.Ticks(),
		Paused: g.m.Paused() != match.NotPaused,
	}
	switch g.m.Paused() {
	case match.PauseDeaths, match.PauseScore:
		st.GameOver = true
	}
	if g.player != nil {
		st.Score = g.m.Board().Score(g.player.DefaultName())
	} else if standings := g.m.Standings(); len(standings) > 0 {
		st.Score = standings[0].Score
	}
	return st
}

// Err returns the setup error of the last Reset.
func (g *Game) Err() error { return g.err }

// Match returns the running match, or nil before Reset.
func (g *Game) Match() *match.Match { return g.m }

// Standings returns the live scoreboard.
func (g *Game) Standings() []match.Standing {
	if g.m == nil {
		return nil
	}
	return g.m.Standings()
}

// BrainIDs lists the brain behind every ship in registration order.
func (g *Game) BrainIDs() []string {
	ids := make([]string, 0, len(g.brainIDs)+1)
	if g.pilot != "" {
		ids = append(ids, PlayerBrainID)
	}
	return append(ids, g.brainIDs...)
}

// Interactive reports whether a keyboard pilot is seated.
func (g *Game) Interactive() bool { return g.pilot != "" }

// Close releases script brains of the current match.
func (g *Game) Close() {
	brains.Close(g.fleet)
	g.fleet = nil
	g.m = nil
}
