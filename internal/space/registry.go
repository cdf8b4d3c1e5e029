package space

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/vovakirdan/tui-starwars/internal/pool"
)

// ErrNotRegistered is returned when removing an entity that is not in the
// live list. It indicates a broken bookkeeping invariant.
var ErrNotRegistered = errors.New("space: entity not registered")

// Options configures a Registry.
type Options struct {
	Arena    Arena
	Rules    Rules
	ShipPool pool.Options
	ShotPool pool.Options
	Rand     *rand.Rand
	OnEvent  func(Event)
}

// DefaultOptions returns a 20x20 arena with default rules and pool sizes.
func DefaultOptions() Options {
	return Options{
		Arena:    Arena{Width: 20, Height: 20},
		Rules:    DefaultRules(),
		ShipPool: pool.Options{Initial: 6, Grow: 1, Max: 6},
		ShotPool: pool.Options{Initial: 16, Grow: 8, Max: 256},
	}
}

// Registry owns the entity pools and the ordered live lists. It is the
// mutable side of the world and is held only by the orchestrator; brains
// see it through View.
type Registry struct {
	arena Arena
	rules Rules
	rng   *rand.Rand
	emitf func(Event)
	tick  uint64

	ships *pool.Pool[shipRecord]
	shots *pool.Pool[shotRecord]

	allShips  []ShipController
	liveShips []Spaceship
	liveShots []ShotController
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	return &Registry{
		arena: opts.Arena,
		rules: opts.Rules,
		rng:   opts.Rand,
		emitf: opts.OnEvent,
		ships: pool.New[shipRecord](opts.ShipPool, nil),
		shots: pool.New[shotRecord](opts.ShotPool, nil),
	}
}

func (r *Registry) Arena() Arena     { return r.arena }
func (r *Registry) Rules() Rules     { return r.rules }
func (r *Registry) Tick() uint64     { return r.tick }
func (r *Registry) Rand() *rand.Rand { return r.rng }

// BeginTick advances the tick counter stamped on events and new shots.
func (r *Registry) BeginTick() uint64 {
	r.tick++
	return r.tick
}

// SetEventSink replaces the event callback.
func (r *Registry) SetEventSink(fn func(Event)) {
	r.emitf = fn
}

func (r *Registry) emit(e Event) {
	if r.emitf == nil {
		return
	}
	e.Tick = r.tick
	r.emitf(e)
}

// RegisterSpaceship activates a pooled ship with full health and energy and
// appends it to both ship lists.
func (r *Registry) RegisterSpaceship(body Body, brain Brain, look Appearance) ShipController {
	h, rec, evicted := r.ships.Borrow()
	if !evicted.IsZero() {
		r.dropShip(evicted)
	}
	*rec = shipRecord{
		id:        h,
		reg:       r,
		body:      body,
		brain:     brain,
		name:      look.Name,
		primary:   look.Primary,
		secondary: look.Secondary,
	}
	if brain != nil {
		if rec.name == "" {
			rec.name = brain.DefaultName()
		}
		if rec.primary.IsZero() {
			rec.primary = brain.PrimaryColor()
		}
		rec.bodyType = brain.BodyType()
	}
	rec.body.SetRotation(body.Rotation)
	rec.body.FixPosition(r.arena)

	c := ShipController{rec: rec, id: h}
	c.reset()
	r.allShips = append(r.allShips, c)
	r.liveShips = append(r.liveShips, c.View())
	return c
}

// RegisterShot activates a pooled shot at the shooter's position and
// rotation, pre-advanced two steps ahead of its nose.
func (r *Registry) RegisterShot(shooter ShipController) ShotController {
	h, rec, evicted := r.shots.Borrow()
	if !evicted.IsZero() {
		r.liveShots = slices.DeleteFunc(r.liveShots, func(s ShotController) bool { return s.id == evicted })
	}
	*rec = shotRecord{
		id:          h,
		reg:         r,
		turnsToLive: r.rules.ShotLifetime,
		bornTick:    r.tick,
	}
	if shooter.valid() {
		rec.shooter = shooter.id
		rec.name = shooter.rec.name + " shot"
		rec.body = Body{
			Position: shooter.rec.body.Position,
			Rotation: shooter.rec.body.Rotation,
			Visible:  true,
		}
	}
	rec.body.MoveForward(2*r.rules.ShotSpeed, r.arena)

	c := ShotController{rec: rec, id: h}
	r.liveShots = append(r.liveShots, c)
	return c
}

// RemoveSpaceship drops a ship from the live list only. The ship stays dead
// and pending respawn.
func (r *Registry) RemoveSpaceship(c ShipController) error {
	i := slices.IndexFunc(r.liveShips, func(s Spaceship) bool { return s.id == c.id && s.rec == c.rec })
	if i < 0 {
		return fmt.Errorf("%w: ship %s", ErrNotRegistered, c.Name())
	}
	r.liveShips = slices.Delete(r.liveShips, i, i+1)
	return nil
}

// RemoveShot removes a shot from the live list and returns it to the pool.
func (r *Registry) RemoveShot(c ShotController) error {
	i := slices.IndexFunc(r.liveShots, func(s ShotController) bool { return s.id == c.id && s.rec == c.rec })
	if i < 0 {
		return fmt.Errorf("%w: shot", ErrNotRegistered)
	}
	r.liveShots = slices.Delete(r.liveShots, i, i+1)
	if err := r.shots.Return(c.id); err != nil {
		return fmt.Errorf("space: return shot: %w", err)
	}
	return nil
}

// Clear returns every entity to its pool and empties all lists.
func (r *Registry) Clear() {
	r.allShips = nil
	r.liveShips = nil
	r.liveShots = nil
	r.ships.ReturnAll()
	r.shots.ReturnAll()
	r.tick = 0
}

// respawned puts a ship back into the live list.
func (r *Registry) respawned(c ShipController) {
	if slices.ContainsFunc(r.liveShips, func(s Spaceship) bool { return s.id == c.id }) {
		return
	}
	r.liveShips = append(r.liveShips, c.View())
}

func (r *Registry) dropShip(h pool.Handle) {
	r.allShips = slices.DeleteFunc(r.allShips, func(c ShipController) bool { return c.id == h })
	r.liveShips = slices.DeleteFunc(r.liveShips, func(s Spaceship) bool { return s.id == h })
}

// Ships returns every registered ship, dead or alive, in registration order.
// The slice is owned by the registry.
func (r *Registry) Ships() []ShipController { return r.allShips }

// Shots returns the live shot controllers. The slice is owned by the registry.
func (r *Registry) Shots() []ShotController { return r.liveShots }

// LiveShipControllers returns controllers for the live ships in live-list order.
func (r *Registry) LiveShipControllers() []ShipController {
	out := make([]ShipController, len(r.liveShips))
	for i, s := range r.liveShips {
		out[i] = ShipController{rec: s.rec, id: s.id}
	}
	return out
}

// LiveShips returns a copy of the live ship views.
func (r *Registry) LiveShips() []Spaceship { return slices.Clone(r.liveShips) }

// LiveShots returns views of the live shots.
func (r *Registry) LiveShots() []Shot {
	out := make([]Shot, len(r.liveShots))
	for i, c := range r.liveShots {
		out[i] = c.View()
	}
	return out
}

// Pools reports pool usage for diagnostics.
func (r *Registry) Pools() (shipsInUse, shipsCap, shotsInUse, shotsCap int) {
	return r.ships.InUse(), r.ships.Cap(), r.shots.InUse(), r.shots.Cap()
}

// View returns the read-only window handed to brains.
func (r *Registry) View() View { return readOnly{r: r} }

type readOnly struct {
	r *Registry
}

func (v readOnly) Ships() []Spaceship { return v.r.LiveShips() }
func (v readOnly) Shots() []Shot      { return v.r.LiveShots() }
func (v readOnly) Arena() Arena       { return v.r.arena }
func (v readOnly) Rules() Rules       { return v.r.rules }
func (v readOnly) Tick() uint64       { return v.r.tick }
