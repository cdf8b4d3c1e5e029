package match

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// testBrain runs a closure and records the ticks it was polled on.
type testBrain struct {
	name  string
	color core.RGB
	body  space.BodyType
	next  func(self space.Spaceship, view space.View) (space.Action, error)
	polls []uint64
}

func (b *testBrain) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	b.polls = append(b.polls, view.Tick())
	if b.next == nil {
		return space.DoNothing, nil
	}
	return b.next(self, view)
}

func (b *testBrain) DefaultName() string    { return b.name }
func (b *testBrain) PrimaryColor() core.RGB { return b.color }
func (b *testBrain) BodyType() space.BodyType {
	return b.body
}

func idle(name string) *testBrain {
	return &testBrain{name: name, color: core.ColorCyan}
}

func onTick(tick uint64, a space.Action) func(space.Spaceship, space.View) (space.Action, error) {
	return func(_ space.Spaceship, v space.View) (space.Action, error) {
		if v.Tick() == tick {
			return a, nil
		}
		return space.DoNothing, nil
	}
}

func shieldFirst(self space.Spaceship, _ space.View) (space.Action, error) {
	if !self.IsShieldUp() {
		return space.ShieldUp, nil
	}
	return space.DoNothing, nil
}

func squareConfig() config.MatchConfig {
	cfg := config.DefaultMatchConfig()
	cfg.Arena.Width = 20
	cfg.Arena.Height = 20
	return cfg
}

func newMatch(t *testing.T, cfg config.MatchConfig, brains ...*testBrain) *Match {
	t.Helper()
	list := make([]space.Brain, len(brains))
	for i, b := range brains {
		list[i] = b
	}
	m, err := New(cfg, list, WithSeed(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return m
}

func place(m *Match, i int, x, y, rot float64) {
	c := m.reg.Ships()[i]
	c.SetPosition(core.V(x, y))
	c.SetRotation(rot)
}

func run(m *Match, ticks int) []space.Event {
	var events []space.Event
	for range ticks {
		events = append(events, m.Tick().Events...)
	}
	return events
}

func hasEvent(events []space.Event, kind space.EventKind, ship string) (space.Event, bool) {
	for _, e := range events {
		if e.Kind == kind && e.Ship == ship {
			return e, true
		}
	}
	return space.Event{}, false
}

func TestNewValidatesFleet(t *testing.T) {
	cfg := config.DefaultMatchConfig()

	if _, err := New(cfg, nil); !errors.Is(err, ErrNoShips) {
		t.Errorf("New(no ships) = %v, expected ErrNoShips", err)
	}

	seven := make([]space.Brain, 7)
	for i := range seven {
		seven[i] = idle("Idle")
	}
	if _, err := New(cfg, seven); !errors.Is(err, ErrTooManyShips) {
		t.Errorf("New(7 ships) = %v, expected ErrTooManyShips", err)
	}

	cfg.Rules.MaxShips = 2
	if _, err := New(cfg, seven[:3]); !errors.Is(err, ErrTooManyShips) {
		t.Errorf("New(3 ships, max 2) = %v, expected ErrTooManyShips", err)
	}

	cfg.Arena.Height = 0
	if _, err := New(cfg, seven[:1]); err == nil {
		t.Error("expected an invalid config to be rejected")
	}
}

func TestNewNamesAndColors(t *testing.T) {
	red := func() *testBrain { return &testBrain{name: "Hunter", color: core.ColorRed, body: space.XWing} }
	tie := &testBrain{name: "Hunter", color: core.ColorRed, body: space.TieFighter}
	m := newMatch(t, config.DefaultMatchConfig(), red(), red(), tie, red())

	primary := core.NormalizeColor(core.ColorRed, 0x20)
	tests := []struct {
		name      string
		secondary core.RGB
	}{
		{"Hunter", core.ColorWhite},
		{"Hunter 2", core.SecondaryPalette[0]},
		{"Hunter 3", core.ColorWhite},
		{"Hunter 4", core.SecondaryPalette[1]},
	}

	snap := m.Snapshot()
	if len(snap.Ships) != len(tests) {
		t.Fatalf("got %d ships, expected %d", len(snap.Ships), len(tests))
	}
	for i, tc := range tests {
		s := snap.Ships[i]
		if s.Name != tc.name {
			t.Errorf("ship %d name = %q, expected %q", i, s.Name, tc.name)
		}
		if s.Primary != primary || s.Secondary != tc.secondary {
			t.Errorf("%s colors = %v/%v, expected %v/%v", s.Name, s.Primary, s.Secondary, primary, tc.secondary)
		}
		if deg := int(s.Rotation); s.Rotation != float64(deg) || deg%5 != 0 || deg < 5 || deg > 355 {
			t.Errorf("%s rotation = %v, expected a multiple of 5 in [5, 355]", s.Name, s.Rotation)
		}
		if !s.Alive || s.Health != 100 || s.Energy != 400 {
			t.Errorf("%s starts as %+v", s.Name, s)
		}
	}
	if m.Board().Len() != 4 {
		t.Errorf("board has %d pilots, expected 4", m.Board().Len())
	}
}

func TestNewNamesStayUnique(t *testing.T) {
	tests := []struct {
		name     string
		defaults []string
		expected []string
	}{
		{"numbered default", []string{"Hunter", "Hunter", "Hunter 2"}, []string{"Hunter", "Hunter 2", "Hunter 2 2"}},
		{"numbered first", []string{"Hunter 2", "Hunter", "Hunter"}, []string{"Hunter 2", "Hunter", "Hunter 3"}},
		{"distinct", []string{"Red", "Gold"}, []string{"Red", "Gold"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			brains := make([]*testBrain, len(tc.defaults))
			for i, n := range tc.defaults {
				brains[i] = idle(n)
			}
			m := newMatch(t, config.DefaultMatchConfig(), brains...)

			var names []string
			for _, s := range m.Snapshot().Ships {
				names = append(names, s.Name)
			}
			if !reflect.DeepEqual(names, tc.expected) {
				t.Errorf("names = %q, expected %q", names, tc.expected)
			}
			if m.Board().Len() != len(tc.defaults) {
				t.Errorf("board has %d pilots, expected %d", m.Board().Len(), len(tc.defaults))
			}
		})
	}
}

func TestDeterministicReplay(t *testing.T) {
	busy := func(name string) *testBrain {
		return &testBrain{name: name, color: core.ColorYellow, next: func(self space.Spaceship, v space.View) (space.Action, error) {
			switch n := v.Tick(); {
			case self.CanShoot() && n%7 == 0:
				return space.Shoot, nil
			case self.CanRaiseShield() && n%11 == 0:
				return space.ShieldUp, nil
			case self.IsShieldUp() && n%13 == 0:
				return space.ShieldDown, nil
			case n%3 == 0:
				return space.TurnLeft, nil
			}
			return space.DoNothing, nil
		}}
	}
	play := func(seed int64) (Snapshot, int) {
		brains := []space.Brain{busy("A"), busy("B"), busy("C"), busy("D")}
		m, err := New(config.DefaultMatchConfig(), brains, WithSeed(seed))
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		events := 0
		for range 500 {
			events += len(m.Tick().Events)
		}
		return m.Snapshot(), events
	}

	first, firstEvents := play(42)
	second, secondEvents := play(42)
	if !reflect.DeepEqual(first, second) || firstEvents != secondEvents {
		t.Errorf("same seed diverged:\n%+v\n%+v", first, second)
	}
	if first.Tick == 0 || firstEvents == 0 {
		t.Errorf("match did not run: tick %d, %d events", first.Tick, firstEvents)
	}

	other, _ := play(43)
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds produced identical matches")
	}
}

func TestIllegalMoveKills(t *testing.T) {
	b := &testBrain{name: "Rookie", next: onTick(1, space.ShieldDown)}
	m := newMatch(t, squareConfig(), b)

	res := m.Tick()
	if _, ok := hasEvent(res.Events, space.EventIllegalMove, "Rookie"); !ok {
		t.Fatalf("expected an illegal-move event, got %+v", res.Events)
	}
	s, _ := m.Snapshot().Ship("Rookie")
	if s.Alive || s.TurnsToRespawn != 50 {
		t.Errorf("after illegal move ship = %+v, expected dead with 50 turns to respawn", s)
	}
	if m.Board().Score("Rookie") != 0 || m.Deaths() != 0 {
		t.Errorf("illegal move changed score %d or deaths %d", m.Board().Score("Rookie"), m.Deaths())
	}
	if got := len(m.reg.View().Ships()); got != 0 {
		t.Errorf("dead ship still in the live list: %d ships", got)
	}
}

func TestBrainFaultKills(t *testing.T) {
	tests := []struct {
		name string
		next func(space.Spaceship, space.View) (space.Action, error)
	}{
		{"error", func(space.Spaceship, space.View) (space.Action, error) {
			return space.DoNothing, errors.New("lost signal")
		}},
		{"panic", func(space.Spaceship, space.View) (space.Action, error) {
			panic("reactor breach")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newMatch(t, squareConfig(), &testBrain{name: "Faulty", next: tc.next}, idle("Calm"))
			res := m.Tick()

			e, ok := hasEvent(res.Events, space.EventBrainFault, "Faulty")
			if !ok {
				t.Fatalf("expected a brain-fault event, got %+v", res.Events)
			}
			var fault *space.BrainFaultError
			if !errors.As(e.Err, &fault) || fault.Ship != "Faulty" {
				t.Errorf("event error = %v, expected a BrainFaultError", e.Err)
			}
			snap := m.Snapshot()
			if s, _ := snap.Ship("Faulty"); s.Alive || s.TurnsToRespawn != 50 {
				t.Errorf("faulty ship = %+v, expected dead with 50 turns to respawn", s)
			}
			if s, _ := snap.Ship("Calm"); !s.Alive {
				t.Error("healthy ship was affected")
			}
			if got := m.Standings()[1].Faults + m.Standings()[0].Faults; got != 1 {
				t.Errorf("faults = %d, expected 1", got)
			}

			events := run(m, 49)
			if _, ok := hasEvent(events, space.EventRespawn, "Faulty"); ok {
				t.Fatalf("faulty ship respawned before tick 51: %+v", events)
			}
			res = m.Tick()
			if _, ok := hasEvent(res.Events, space.EventRespawn, "Faulty"); !ok || res.Tick != 51 {
				t.Errorf("expected a respawn on tick 51, got tick %d %+v", res.Tick, res.Events)
			}
		})
	}
}

func TestHeadOnCollision(t *testing.T) {
	m := newMatch(t, squareConfig(), idle("Left"), idle("Right"))
	place(m, 0, -2.55, 0, 0)
	place(m, 1, 2.55, 0, 180)

	events := run(m, 19)
	if m.Deaths() != 0 {
		t.Fatalf("ships collided early: %+v", events)
	}

	res := m.Tick()
	if _, ok := hasEvent(res.Events, space.EventCollision, "Left"); !ok {
		t.Fatalf("expected a collision on tick 20, got %+v", res.Events)
	}
	snap := m.Snapshot()
	for _, s := range snap.Ships {
		if s.Alive {
			t.Errorf("%s survived a head-on collision", s.Name)
		}
		if score := m.Board().Score(s.Name); score != DeathPenalty {
			t.Errorf("%s score = %d, expected %d", s.Name, score, DeathPenalty)
		}
	}
	if m.Deaths() != 2 {
		t.Errorf("deaths = %d, expected 2", m.Deaths())
	}
}

func TestHeadOnShootout(t *testing.T) {
	trigger := func(self space.Spaceship, _ space.View) (space.Action, error) {
		if self.CanShoot() {
			return space.Shoot, nil
		}
		return space.DoNothing, nil
	}
	m := newMatch(t, squareConfig(), &testBrain{name: "Left", next: trigger}, &testBrain{name: "Right", next: trigger})
	place(m, 0, -2.55, 0, 0)
	place(m, 1, 2.55, 0, 180)

	var res TickResult
	for range 20 {
		if res = m.Tick(); m.Deaths() > 0 {
			break
		}
	}
	if m.Deaths() != 2 || res.Tick != 10 {
		t.Fatalf("deaths = %d by tick %d, expected both ships shot on tick 10: %+v", m.Deaths(), res.Tick, res.Events)
	}
	for _, pair := range [][2]string{{"Left", "Right"}, {"Right", "Left"}} {
		e, ok := hasEvent(res.Events, space.EventKill, pair[0])
		if !ok || e.Other != pair[1] {
			t.Errorf("expected %s shot by %s on tick %d, got %+v", pair[0], pair[1], res.Tick, res.Events)
		}
		if got := m.Board().Score(pair[0]); got != ScoreForShooting+DeathPenalty {
			t.Errorf("%s score = %d, expected %d", pair[0], got, ScoreForShooting+DeathPenalty)
		}
	}
	if _, ok := hasEvent(res.Events, space.EventCollision, "Left"); ok {
		t.Error("shots must land before the ships meet")
	}
	if n := len(m.Snapshot().Shots); n != 0 {
		t.Errorf("%d shots left in flight, expected both consumed", n)
	}
}

func TestSecondShotOutlivesKill(t *testing.T) {
	gunner := func(name string) *testBrain { return &testBrain{name: name, next: onTick(1, space.Shoot)} }
	m := newMatch(t, squareConfig(), gunner("West"), gunner("East"), idle("Target"))
	place(m, 0, -3.05, 0, 0)
	place(m, 1, 3.05, 0, 180)
	place(m, 2, 0, 0, 90)

	var res TickResult
	for range 15 {
		if res = m.Tick(); m.Deaths() > 0 {
			break
		}
	}
	e, ok := hasEvent(res.Events, space.EventKill, "Target")
	if !ok || e.Other != "West" {
		t.Fatalf("expected Target shot by West, got tick %d %+v", res.Tick, res.Events)
	}
	kills := 0
	for _, e := range res.Events {
		if e.Kind == space.EventKill {
			kills++
		}
	}
	if kills != 1 || m.Deaths() != 1 {
		t.Errorf("kills = %d deaths = %d, expected one of each", kills, m.Deaths())
	}
	snap := m.Snapshot()
	if len(snap.Shots) != 1 || snap.Shots[0].Shooter != "East" {
		t.Errorf("shots = %+v, expected East's shot still in flight", snap.Shots)
	}
	if m.Board().Score("West") != ScoreForShooting || m.Board().Score("East") != 0 {
		t.Errorf("scores West=%d East=%d", m.Board().Score("West"), m.Board().Score("East"))
	}
}

func TestCollisionFirstMatch(t *testing.T) {
	tests := []struct {
		name     string
		hub      func(space.Spaceship, space.View) (space.Action, error)
		events   []space.Event
		survivor string
		deaths   int
		hubScore int
	}{
		{
			name: "shield burns every overlap",
			hub:  shieldFirst,
			events: []space.Event{
				{Kind: space.EventShieldBurnShip, Ship: "North", Other: "Hub"},
				{Kind: space.EventShieldBurnShip, Ship: "South", Other: "Hub"},
			},
			survivor: "Hub",
			deaths:   2,
			hubScore: 2 * ScoreForBashing,
		},
		{
			name: "mutual kill stops the scan",
			events: []space.Event{
				{Kind: space.EventCollision, Ship: "Hub", Other: "North"},
			},
			survivor: "South",
			deaths:   2,
			hubScore: DeathPenalty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newMatch(t, squareConfig(), &testBrain{name: "Hub", next: tc.hub}, idle("North"), idle("South"))
			place(m, 0, 0, 0, 0)
			place(m, 1, 0, 0.9, 0)
			place(m, 2, 0, -0.9, 0)

			res := m.Tick()
			var got []space.Event
			for _, e := range res.Events {
				switch e.Kind {
				case space.EventCollision, space.EventShieldBurnShip:
					got = append(got, space.Event{Kind: e.Kind, Ship: e.Ship, Other: e.Other})
				}
			}
			if !reflect.DeepEqual(got, tc.events) {
				t.Errorf("events = %+v, expected %+v", got, tc.events)
			}
			if s, _ := m.Snapshot().Ship(tc.survivor); !s.Alive {
				t.Errorf("%s should survive the tick", tc.survivor)
			}
			if m.Deaths() != tc.deaths {
				t.Errorf("deaths = %d, expected %d", m.Deaths(), tc.deaths)
			}
			if got := m.Board().Score("Hub"); got != tc.hubScore {
				t.Errorf("Hub score = %d, expected %d", got, tc.hubScore)
			}
		})
	}
}

func TestCollisionAcrossSeam(t *testing.T) {
	m := newMatch(t, squareConfig(), idle("East"), idle("West"))
	place(m, 0, 9.8, 3, 90)
	place(m, 1, -9.8, 3, 90)

	res := m.Tick()
	if _, ok := hasEvent(res.Events, space.EventCollision, "East"); !ok {
		t.Errorf("ships 0.4 apart across the seam did not collide: %+v", res.Events)
	}
}

func TestShieldBash(t *testing.T) {
	m := newMatch(t, squareConfig(), &testBrain{name: "Ram", next: shieldFirst}, idle("Victim"))
	place(m, 0, -2.55, 0, 0)
	place(m, 1, 2.55, 0, 180)

	events := run(m, 20)
	e, ok := hasEvent(events, space.EventShieldBurnShip, "Victim")
	if !ok || e.Other != "Ram" || e.Tick != 20 {
		t.Fatalf("expected Victim burned by Ram on tick 20, got %+v", events)
	}
	snap := m.Snapshot()
	if s, _ := snap.Ship("Ram"); !s.Alive || !s.ShieldUp {
		t.Errorf("shielded ship = %+v, expected alive with shield up", s)
	}
	if got := m.Board().Score("Ram"); got != ScoreForBashing {
		t.Errorf("Ram score = %d, expected %d", got, ScoreForBashing)
	}
	if got := m.Board().Score("Victim"); got != DeathPenalty {
		t.Errorf("Victim score = %d, expected %d", got, DeathPenalty)
	}
	if st := m.Standings()[0]; st.Name != "Ram" || st.Bashes != 1 {
		t.Errorf("leader = %+v, expected Ram with one bash", st)
	}
}

func TestShotHits(t *testing.T) {
	tests := []struct {
		name      string
		target    func(space.Spaceship, space.View) (space.Action, error)
		event     space.EventKind
		survives  bool
		shooterSc int
		targetSc  int
	}{
		{"kill", nil, space.EventKill, false, ScoreForShooting, DeathPenalty},
		{"shield absorbs", shieldFirst, space.EventShieldBurnShot, true, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gunner := &testBrain{name: "Gunner", next: onTick(1, space.Shoot)}
			target := &testBrain{name: "Target", next: tc.target}
			m := newMatch(t, squareConfig(), gunner, target)
			place(m, 0, 0, 0, 0)
			place(m, 1, 3.05, 0, 0)

			events := run(m, 8)
			if _, ok := hasEvent(events, tc.event, "Target"); ok {
				t.Fatalf("shot landed before tick 9: %+v", events)
			}
			if len(m.Snapshot().Shots) != 1 {
				t.Fatalf("expected one shot in flight, got %+v", m.Snapshot().Shots)
			}

			res := m.Tick()
			if _, ok := hasEvent(res.Events, tc.event, "Target"); !ok {
				t.Fatalf("expected %s on tick 9, got %+v", tc.event, res.Events)
			}
			snap := m.Snapshot()
			if len(snap.Shots) != 0 {
				t.Errorf("shot survived its hit: %+v", snap.Shots)
			}
			if s, _ := snap.Ship("Target"); s.Alive != tc.survives {
				t.Errorf("target alive = %v, expected %v", s.Alive, tc.survives)
			}
			if got := m.Board().Score("Gunner"); got != tc.shooterSc {
				t.Errorf("Gunner score = %d, expected %d", got, tc.shooterSc)
			}
			if got := m.Board().Score("Target"); got != tc.targetSc {
				t.Errorf("Target score = %d, expected %d", got, tc.targetSc)
			}
		})
	}
}

func TestShotLifetimeAndSelfImmunity(t *testing.T) {
	m := newMatch(t, squareConfig(), &testBrain{name: "Solo", next: onTick(1, space.Shoot)})
	place(m, 0, 0, 0, 0)

	run(m, 40)
	snap := m.Snapshot()
	if len(snap.Shots) != 1 || snap.Shots[0].TurnsToLive != 1 {
		t.Fatalf("after 40 ticks shots = %+v, expected one with 1 turn left", snap.Shots)
	}
	if snap.Shots[0].Shooter != "Solo" {
		t.Errorf("shooter = %q, expected Solo", snap.Shots[0].Shooter)
	}

	m.Tick()
	snap = m.Snapshot()
	if len(snap.Shots) != 0 {
		t.Errorf("shot outlived its lifetime: %+v", snap.Shots)
	}
	if s, _ := snap.Ship("Solo"); !s.Alive {
		t.Error("ship was hit by its own shot")
	}
}

func TestRespawnCycle(t *testing.T) {
	b := &testBrain{name: "Phoenix", next: onTick(1, space.ShieldDown)}
	m := newMatch(t, squareConfig(), b)

	run(m, 50)
	if s, _ := m.Snapshot().Ship("Phoenix"); s.Alive || s.TurnsToRespawn != 1 {
		t.Fatalf("after 50 ticks ship = %+v, expected dead with 1 turn left", s)
	}

	res := m.Tick()
	if _, ok := hasEvent(res.Events, space.EventRespawn, "Phoenix"); !ok || res.Tick != 51 {
		t.Fatalf("expected a respawn on tick 51, got tick %d %+v", res.Tick, res.Events)
	}
	s, _ := m.Snapshot().Ship("Phoenix")
	if !s.Alive || s.Health != 100 || s.Energy != 400 || s.ShieldUp {
		t.Errorf("respawned ship = %+v, expected full health and energy", s)
	}

	m.Tick()
	if !reflect.DeepEqual(b.polls, []uint64{1, 52}) {
		t.Errorf("brain polled on ticks %v, expected [1 52]", b.polls)
	}
}

func TestDeathLimitPauses(t *testing.T) {
	cfg := squareConfig()
	cfg.Rules.DeathsPerShip = 1
	m := newMatch(t, cfg, idle("Left"), idle("Right"))
	place(m, 0, -0.5, 0, 0)
	place(m, 1, 0.5, 0, 180)

	res := m.Tick()
	if res.Paused != PauseDeaths || m.Paused() != PauseDeaths {
		t.Fatalf("paused = %v, expected %v", res.Paused, PauseDeaths)
	}
	if _, ok := hasEvent(res.Events, space.EventPaused, ""); !ok {
		t.Errorf("expected a paused event, got %+v", res.Events)
	}

	frozen := m.Snapshot()
	if again := m.Tick(); again.Tick != res.Tick || len(again.Events) != 0 {
		t.Errorf("paused match ticked: %+v", again)
	}
	if !reflect.DeepEqual(frozen, m.Snapshot()) {
		t.Error("paused match changed state")
	}

	m.Resume()
	if res := m.Tick(); res.Tick != 2 || res.Paused != NotPaused {
		t.Errorf("after Resume() tick = %d paused = %v", res.Tick, res.Paused)
	}
}

func TestScorePauseRaisesThreshold(t *testing.T) {
	cfg := squareConfig()
	cfg.Rules.ScoreToPause = 2
	cfg.Rules.ScoreStep = 5
	gunner := &testBrain{name: "Gunner", next: onTick(1, space.Shoot)}
	m := newMatch(t, cfg, gunner, idle("Target"))
	place(m, 0, 0, 0, 0)
	place(m, 1, 3.05, 0, 0)

	events := run(m, 9)
	if m.Paused() != PauseScore {
		t.Fatalf("paused = %v after a shot kill, expected %v: %+v", m.Paused(), PauseScore, events)
	}
	if m.scoreToPause != 7 {
		t.Errorf("next threshold = %d, expected 7", m.scoreToPause)
	}

	m.Pause()
	if m.Paused() != PauseScore {
		t.Errorf("Pause() replaced reason %v", m.Paused())
	}
	m.Resume()
	m.Tick()
	if m.Paused() != NotPaused {
		t.Errorf("match paused again without reaching 7: %v", m.Paused())
	}
}

type recordingAudio struct{ sounds []Sound }

func (a *recordingAudio) Play(s Sound, _ uint64) { a.sounds = append(a.sounds, s) }

type panickyAudio struct{}

func (panickyAudio) Play(Sound, uint64) { panic("speaker blown") }

type panickyBoard struct{}

func (panickyBoard) Add(string, core.RGB, core.RGB) { panic("board offline") }
func (panickyBoard) AddScore(string, int)           { panic("board offline") }

func TestSinkFailuresDoNotAbortTick(t *testing.T) {
	rec := &recordingAudio{}
	brains := []space.Brain{
		&testBrain{name: "Gunner", next: onTick(1, space.Shoot)},
		&testBrain{name: "Ram", next: shieldFirst, body: space.TieFighter},
	}
	m, err := New(squareConfig(), brains,
		WithAudio(panickyAudio{}),
		WithAudio(rec),
		WithScoreboard(panickyBoard{}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	res := m.Tick()
	if res.Tick != 1 {
		t.Fatalf("tick = %d, expected 1", res.Tick)
	}
	expected := []Sound{SoundShotXWing, SoundShieldUp}
	if !reflect.DeepEqual(rec.sounds, expected) {
		t.Errorf("sounds = %v, expected %v", rec.sounds, expected)
	}
}

func TestSoundFor(t *testing.T) {
	tests := []struct {
		event    space.Event
		expected Sound
		ok       bool
	}{
		{space.Event{Kind: space.EventShot, Body: space.XWing}, SoundShotXWing, true},
		{space.Event{Kind: space.EventShot, Body: space.TieFighter}, SoundShotTie, true},
		{space.Event{Kind: space.EventKill}, SoundKill, true},
		{space.Event{Kind: space.EventRespawn}, SoundRespawn, true},
		{space.Event{Kind: space.EventIllegalMove}, 0, false},
		{space.Event{Kind: space.EventPaused}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.event.Kind.String(), func(t *testing.T) {
			got, ok := SoundFor(tc.event)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("SoundFor(%v) = %v, %v; expected %v, %v", tc.event.Kind, got, ok, tc.expected, tc.ok)
			}
		})
	}
}
