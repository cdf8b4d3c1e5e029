// Package match drives a space-combat match one fixed tick at a time:
// action selection, execution, shot flight, collision resolution and cleanup,
// with scoring and pause rules on top.
package match

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/pool"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// Score deltas.
const (
	ScoreForBashing  = 1
	ScoreForShooting = 2
	DeathPenalty     = -1
)

var (
	ErrNoShips      = errors.New("match: at least one ship is required")
	ErrTooManyShips = errors.New("match: too many ships")
)

// PauseReason tells why a match stopped ticking.
type PauseReason uint8

const (
	NotPaused PauseReason = iota
	PauseManual
	PauseDeaths
	PauseScore
)

func (r PauseReason) String() string {
	switch r {
	case NotPaused:
		return "running"
	case PauseManual:
		return "paused"
	case PauseDeaths:
		return "death limit reached"
	case PauseScore:
		return "score limit reached"
	default:
		return "unknown"
	}
}

// TickResult reports one tick. Events are in the order they happened.
type TickResult struct {
	Tick   uint64
	Events []space.Event
	Paused PauseReason
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the logger for brain faults, illegal moves and pauses.
func WithLogger(l *log.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithAudio adds an audio sink.
func WithAudio(a Audio) Option {
	return func(m *Match) {
		if a != nil {
			m.sinks.audio = append(m.sinks.audio, a)
		}
	}
}

// WithScoreboard adds a scoreboard sink next to the built-in Board.
func WithScoreboard(s Scoreboard) Option {
	return func(m *Match) {
		if s != nil {
			m.sinks.boards = append(m.sinks.boards, s)
		}
	}
}

// WithSeed fixes the match RNG seed.
func WithSeed(seed int64) Option {
	return func(m *Match) { m.seed = seed }
}

// WithViewport sets the viewport used to derive the arena width when the
// config leaves it open. Width and height are in world proportions.
func WithViewport(w, h float64) Option {
	return func(m *Match) { m.viewW, m.viewH = w, h }
}

// Match owns the registry and is the only code holding ship and shot
// controllers.
type Match struct {
	cfg    config.MatchConfig
	reg    *space.Registry
	board  *Board
	sinks  sinks
	logger *log.Logger

	seed         int64
	rng          *rand.Rand
	viewW, viewH float64

	deaths       int
	deathLimit   int
	scoreToPause int
	paused       PauseReason

	events []space.Event
}

// New validates the fleet and places every ship.
func New(cfg config.MatchConfig, brains []space.Brain, opts ...Option) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(brains) == 0 {
		return nil, ErrNoShips
	}
	if len(brains) > cfg.Rules.MaxShips {
		return nil, fmt.Errorf("%w: %d ships, at most %d allowed", ErrTooManyShips, len(brains), cfg.Rules.MaxShips)
	}

	m := &Match{
		cfg:    cfg,
		board:  NewBoard(),
		logger: log.New(io.Discard),
		seed:   1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sinks.logger = m.logger
	m.sinks.boards = append([]Scoreboard{m.board}, m.sinks.boards...)
	m.rng = rand.New(rand.NewSource(m.seed))

	width, height := cfg.ArenaSize(m.viewW, m.viewH)
	m.reg = space.NewRegistry(space.Options{
		Arena:    space.Arena{Width: width, Height: height},
		Rules:    RulesFrom(cfg),
		ShipPool: pool.Options{Initial: len(brains), Grow: 1, Max: cfg.Rules.MaxShips},
		ShotPool: pool.Options{Initial: cfg.Pools.ShotsInitial, Grow: cfg.Pools.ShotsGrow, Max: cfg.Pools.ShotsMax},
		Rand:     m.rng,
		OnEvent:  m.record,
	})

	m.spawnFleet(brains)
	m.deathLimit = len(brains) * cfg.Rules.DeathsPerShip
	m.scoreToPause = cfg.Rules.ScoreToPause
	return m, nil
}

// RulesFrom converts the config into the entity constants.
func RulesFrom(cfg config.MatchConfig) space.Rules {
	return space.Rules{
		InitialHealth:     cfg.Ship.Health,
		MaxEnergy:         cfg.Ship.MaxEnergy,
		ShotCooldown:      cfg.Ship.ShotCooldown,
		RespawnCooldown:   cfg.Ship.RespawnCooldown,
		RotationPerAction: cfg.Ship.RotationStep,
		ShipSpeed:         cfg.Ship.Speed,
		ShipRadius:        cfg.Ship.Radius,
		ShieldUpCost:      cfg.Ship.ShieldUpCost,
		ShieldUpkeep:      cfg.Ship.ShieldUpkeep,
		EnergyReplenish:   cfg.Ship.EnergyReplenish,
		ShotDamage:        cfg.Shot.Damage,
		ShotSpeed:         cfg.Shot.Speed,
		ShotLifetime:      cfg.Shot.Lifetime,
		ShotRadius:        cfg.Shot.Radius,
	}
}

func (m *Match) spawnFleet(brains []space.Brain) {
	rules := m.reg.Rules()
	steps := int(360 / rules.RotationPerAction)
	taken := make(map[string]bool)
	typeColors := make(map[space.BodyType]map[core.RGB]bool)
	secondaryIndex := 0

	for i, brain := range brains {
		if r, ok := brain.(space.Resetter); ok {
			r.Reset(m.seed + int64(i)*7919)
		}

		spawn := m.reg.GetSpawnPoint()
		angle := float64(1+m.rng.Intn(max(steps-1, 1))) * rules.RotationPerAction

		color := core.NormalizeColor(brain.PrimaryColor(), m.cfg.Rules.ColorLowPass)
		secondary := core.ColorWhite
		seen := typeColors[brain.BodyType()]
		if seen == nil {
			seen = make(map[core.RGB]bool)
			typeColors[brain.BodyType()] = seen
		}
		if seen[color] {
			secondary = core.SecondaryPalette[secondaryIndex%len(core.SecondaryPalette)]
			secondaryIndex++
		} else {
			seen[color] = true
		}

		base := brain.DefaultName()
		name := base
		for n := 2; taken[name]; n++ {
			name = base + " " + strconv.Itoa(n)
		}
		taken[name] = true

		m.reg.RegisterSpaceship(
			space.Body{Position: spawn, Rotation: angle, Visible: true},
			brain,
			space.Appearance{Name: name, Primary: color, Secondary: secondary},
		)
		m.sinks.add(name, color, secondary)
		m.logger.Debug("ship registered", "name", name, "body", brain.BodyType(), "x", spawn.X, "y", spawn.Y, "rotation", angle)
	}
}

func (m *Match) record(e space.Event) {
	m.events = append(m.events, e)
}

// Tick advances the match by one fixed step. A paused match does not move.
func (m *Match) Tick() TickResult {
	if m.paused != NotPaused {
		return TickResult{Tick: m.reg.Tick(), Paused: m.paused}
	}
	tick := m.reg.BeginTick()
	m.events = m.events[:0]
	ships := m.reg.Ships()

	// Every live ship chooses before any ship acts.
	view := m.reg.View()
	var faulted []bool
	for i, c := range ships {
		if !c.IsAlive() {
			continue
		}
		if err := c.SelectAction(view); err != nil {
			m.logger.Warn("brain fault", "ship", c.Name(), "tick", tick, "err", err)
			m.board.count(c.Name(), statFault)
			c.Kill()
			if faulted == nil {
				faulted = make([]bool, len(ships))
			}
			faulted[i] = true
			m.record(space.Event{Kind: space.EventBrainFault, Tick: tick, Ship: c.Name(), Err: err})
		}
	}

	for i, c := range ships {
		// A faulted ship counts down from the next tick, as after an illegal move.
		if faulted != nil && faulted[i] {
			continue
		}
		if c.DoTurn() == space.TurnIllegal {
			m.logger.Warn("illegal move", "ship", c.Name(), "tick", tick, "action", c.QueuedAction())
			m.board.count(c.Name(), statFault)
			m.record(space.Event{Kind: space.EventIllegalMove, Tick: tick, Ship: c.Name()})
		}
	}

	shots := m.reg.Shots()
	for _, s := range shots {
		s.DoTurn()
	}

	m.resolveShipCollisions(ships)
	m.resolveShotHits(ships, shots)
	m.cleanup()

	for _, e := range m.events {
		if sound, ok := SoundFor(e); ok {
			m.sinks.play(sound, tick)
		}
	}
	return TickResult{Tick: tick, Events: slices.Clone(m.events), Paused: m.paused}
}

// resolveShipCollisions tests live ship pairs in registration order. A
// shield mismatch burns the unshielded ship; equal shields destroy both.
func (m *Match) resolveShipCollisions(ships []space.ShipController) {
	for i := 0; i < len(ships)-1; i++ {
		a := ships[i]
		if !a.IsAlive() {
			continue
		}
		for j := i + 1; j < len(ships); j++ {
			b := ships[j]
			if !b.IsAlive() || !a.View().CheckCollision(b.View()) {
				continue
			}
			m.logger.Debug("ships collided", "ship", a.Name(), "other", b.Name())

			av, bv := a.View(), b.View()
			if av.IsShieldUp() != bv.IsShieldUp() {
				killer, dead := a, b
				if bv.IsShieldUp() {
					killer, dead = b, a
				}
				pos := dead.View().Position()
				m.credit(killer.Name(), ScoreForBashing, statBash)
				m.shipKilled(dead)
				m.record(space.Event{Kind: space.EventShieldBurnShip, Tick: m.reg.Tick(), Ship: dead.Name(), Other: killer.Name(), Position: pos})
				if dead == a {
					break
				}
				continue
			}

			pos := av.Position()
			m.shipKilled(b)
			m.shipKilled(a)
			m.record(space.Event{Kind: space.EventCollision, Tick: m.reg.Tick(), Ship: a.Name(), Other: b.Name(), Position: pos})
			break
		}
	}
}

// resolveShotHits lets every live ship take at most one shot per tick.
func (m *Match) resolveShotHits(ships []space.ShipController, shots []space.ShotController) {
	for _, c := range ships {
		if !c.IsAlive() {
			continue
		}
		for _, s := range shots {
			sv := s.View()
			if !sv.IsAlive() || !sv.CheckCollision(c.View()) {
				continue
			}
			m.logger.Debug("ship hit by shot", "ship", c.Name(), "shot", sv.Name())

			pos := c.View().Position()
			if c.View().IsShieldUp() {
				m.record(space.Event{Kind: space.EventShieldBurnShot, Tick: m.reg.Tick(), Ship: c.Name(), Position: pos})
			} else if dmg := m.reg.Rules().ShotDamage; c.View().Health() <= dmg {
				shooter := sv.Shooter().Name()
				m.credit(shooter, ScoreForShooting, statHit)
				m.shipKilled(c)
				m.record(space.Event{Kind: space.EventKill, Tick: m.reg.Tick(), Ship: c.Name(), Other: shooter, Position: pos})
			} else {
				c.ApplyDamage(dmg)
			}
			s.Kill()
			break
		}
	}
}

// cleanup drops dead ships from the live list and returns dead shots to
// the pool. A missing entity is a broken invariant.
func (m *Match) cleanup() {
	for _, c := range m.reg.LiveShipControllers() {
		if !c.IsAlive() {
			if err := m.reg.RemoveSpaceship(c); err != nil {
				panic(err)
			}
		}
	}
	for _, s := range slices.Clone(m.reg.Shots()) {
		if !s.IsAlive() {
			if err := m.reg.RemoveShot(s); err != nil {
				panic(err)
			}
		}
	}
}

func (m *Match) shipKilled(c space.ShipController) {
	m.credit(c.Name(), DeathPenalty, statDeath)
	c.Kill()
	m.deaths++
	if m.deathLimit > 0 && m.deaths == m.deathLimit && m.paused == NotPaused {
		m.pause(PauseDeaths)
	}
}

func (m *Match) credit(name string, delta int, s stat) {
	m.board.count(name, s)
	m.sinks.addScore(name, delta)
	if m.scoreToPause > 0 && m.board.Score(name) >= m.scoreToPause {
		m.scoreToPause += m.cfg.Rules.ScoreStep
		if m.paused == NotPaused {
			m.pause(PauseScore)
		}
	}
}

func (m *Match) pause(reason PauseReason) {
	m.paused = reason
	m.logger.Info("match paused", "reason", reason, "tick", m.reg.Tick(), "deaths", m.deaths)
	m.record(space.Event{Kind: space.EventPaused, Tick: m.reg.Tick()})
}

// Pause stops the match until Resume.
func (m *Match) Pause() {
	if m.paused == NotPaused {
		m.pause(PauseManual)
	}
}

// Resume continues a paused match.
func (m *Match) Resume() {
	if m.paused != NotPaused {
		m.logger.Info("match resumed", "tick", m.reg.Tick())
	}
	m.paused = NotPaused
}

// Paused returns why the match is paused, or NotPaused.
func (m *Match) Paused() PauseReason { return m.paused }

// Ticks returns the number of ticks run.
func (m *Match) Ticks() uint64 { return m.reg.Tick() }

// Deaths returns the number of ships destroyed in combat.
func (m *Match) Deaths() int { return m.deaths }

// DeathLimit returns the combat deaths that pause the match, 0 for none.
func (m *Match) DeathLimit() int { return m.deathLimit }

func (m *Match) Seed() int64        { return m.seed }
func (m *Match) Arena() space.Arena { return m.reg.Arena() }
func (m *Match) Rules() space.Rules { return m.reg.Rules() }

// Config returns the validated configuration the match was built from.
func (m *Match) Config() config.MatchConfig { return m.cfg }

// Board returns the built-in scoreboard.
func (m *Match) Board() *Board { return m.board }

// Standings returns the ranked scoreboard rows.
func (m *Match) Standings() []Standing { return m.board.Standings() }
