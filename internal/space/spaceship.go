package space

import (
	"fmt"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/pool"
)

// shipRecord is the pooled state behind one ship. Only ShipController writes it.
type shipRecord struct {
	id  pool.Handle
	reg *Registry

	body      Body
	brain     Brain
	name      string
	primary   core.RGB
	secondary core.RGB
	bodyType  BodyType

	health         int
	energy         int
	shotCooldown   int
	turnsToRespawn int
	shieldUp       bool

	next Action
}

// Appearance is how a ship is introduced to the scoreboard and renderer.
type Appearance struct {
	Name      string
	Primary   core.RGB
	Secondary core.RGB
}

// Spaceship is the read-only view of a ship. It is a small value safe to
// hand to brains; a view held past the ship's removal reports dead.
type Spaceship struct {
	rec *shipRecord
	id  pool.Handle
}

func (s Spaceship) valid() bool {
	return s.rec != nil && s.rec.id == s.id
}

func (s Spaceship) handle() objectID {
	return objectID{kind: kindShip, h: s.id}
}

// ID returns the pool handle the view was created for.
func (s Spaceship) ID() pool.Handle { return s.id }

// IsZero reports whether s refers to no ship at all.
func (s Spaceship) IsZero() bool { return s.rec == nil }

// Is reports whether s and o view the same ship.
func (s Spaceship) Is(o Spaceship) bool {
	return s.rec != nil && s.id == o.id && s.rec == o.rec
}

func (s Spaceship) IsAlive() bool {
	return s.valid() && s.rec.health > 0
}

func (s Spaceship) Radius() float64 {
	if !s.valid() {
		return 0
	}
	return s.rec.reg.rules.ShipRadius
}

func (s Spaceship) Position() core.Vec2 {
	if !s.IsAlive() {
		return core.Vec2{}
	}
	return s.rec.body.Position
}

func (s Spaceship) Rotation() float64 {
	if !s.IsAlive() {
		return 0
	}
	return s.rec.body.Rotation
}

func (s Spaceship) Forward() core.Vec2 {
	if !s.IsAlive() {
		return core.Vec2{}
	}
	return s.rec.body.Forward()
}

func (s Spaceship) Name() string {
	if !s.valid() {
		return ""
	}
	return s.rec.name
}

func (s Spaceship) Health() int {
	if !s.valid() {
		return 0
	}
	return s.rec.health
}

func (s Spaceship) Energy() int {
	if !s.valid() {
		return 0
	}
	return s.rec.energy
}

func (s Spaceship) ShotCooldown() int {
	if !s.valid() {
		return 0
	}
	return s.rec.shotCooldown
}

// TurnsToRespawn is only meaningful while the ship is dead.
func (s Spaceship) TurnsToRespawn() int {
	if !s.valid() {
		return 0
	}
	return s.rec.turnsToRespawn
}

func (s Spaceship) IsShieldUp() bool {
	return s.valid() && s.rec.shieldUp
}

func (s Spaceship) CanShoot() bool {
	return s.IsAlive() && s.rec.shotCooldown <= 0
}

func (s Spaceship) CanRaiseShield() bool {
	return s.IsAlive() && !s.rec.shieldUp && s.rec.energy > s.rec.reg.rules.ShieldReserve()
}

func (s Spaceship) BodyType() BodyType {
	if !s.valid() {
		return XWing
	}
	return s.rec.bodyType
}

func (s Spaceship) PrimaryColor() core.RGB {
	if !s.valid() {
		return core.RGB{}
	}
	return s.rec.primary
}

func (s Spaceship) SecondaryColor() core.RGB {
	if !s.valid() {
		return core.RGB{}
	}
	return s.rec.secondary
}

// Colors returns the primary and secondary display colors.
func (s Spaceship) Colors() (primary, secondary core.RGB) {
	return s.PrimaryColor(), s.SecondaryColor()
}

// Visible reports whether the renderer should draw the ship.
func (s Spaceship) Visible() bool {
	return s.valid() && s.rec.body.Visible
}

// CheckCollision tests s against other on the arena torus.
func (s Spaceship) CheckCollision(other SpaceObject) bool {
	if !s.valid() {
		return false
	}
	return CheckCollision(s.rec.reg.arena, s, other)
}

// ClosestRelativePosition returns the shortest vector from s to other.
func (s Spaceship) ClosestRelativePosition(other SpaceObject) core.Vec2 {
	if !s.valid() {
		return core.Vec2{}
	}
	return ClosestRelativePosition(s.rec.reg.arena, s, other)
}

func (s Spaceship) String() string {
	if !s.valid() {
		return "ship(stale)"
	}
	return fmt.Sprintf("ship(%s hp=%d en=%d)", s.rec.name, s.rec.health, s.rec.energy)
}

// ShipController is the only writer of a ship's state. It is handed out by
// the Registry to orchestration code and never reaches a brain.
type ShipController struct {
	rec *shipRecord
	id  pool.Handle
}

func (c ShipController) valid() bool {
	return c.rec != nil && c.rec.id == c.id
}

// View returns the read-only view of the controlled ship.
func (c ShipController) View() Spaceship {
	return Spaceship{rec: c.rec, id: c.id}
}

func (c ShipController) IsAlive() bool { return c.View().IsAlive() }
func (c ShipController) Name() string  { return c.View().Name() }

// Brain returns the ship's decision policy.
func (c ShipController) Brain() Brain {
	if !c.valid() {
		return nil
	}
	return c.rec.brain
}

// Body exposes the body for in-package mutation and tests.
func (c ShipController) Body() *Body {
	if !c.valid() {
		return nil
	}
	return &c.rec.body
}

func (c ShipController) SetPosition(p core.Vec2) {
	if !c.valid() {
		return
	}
	c.rec.body.Position = p
	c.rec.body.FixPosition(c.rec.reg.arena)
}

func (c ShipController) SetRotation(deg float64) {
	if c.valid() {
		c.rec.body.SetRotation(deg)
	}
}

// Rotate adds deg to the current rotation.
func (c ShipController) Rotate(deg float64) {
	if c.valid() {
		c.rec.body.SetRotation(c.rec.body.Rotation + deg)
	}
}

func (c ShipController) SetHealth(h int) {
	if c.valid() {
		c.rec.health = h
	}
}

// SetEnergy stores e clamped to [0, MaxEnergy].
func (c ShipController) SetEnergy(e int) {
	if c.valid() {
		c.rec.energy = core.Clamp(e, 0, c.rec.reg.rules.MaxEnergy)
	}
}

func (c ShipController) SetShotCooldown(n int) {
	if c.valid() {
		c.rec.shotCooldown = max(n, 0)
	}
}

// RaiseShield pays the raise cost and sets the shield flag.
func (c ShipController) RaiseShield() {
	if !c.valid() {
		return
	}
	c.SetEnergy(c.rec.energy - c.rec.reg.rules.ShieldUpCost)
	c.rec.shieldUp = true
	c.rec.reg.emit(Event{Kind: EventShieldUp, Ship: c.rec.name, Position: c.rec.body.Position})
}

func (c ShipController) LowerShield() {
	if c.valid() {
		c.rec.shieldUp = false
	}
}

// Fire starts the cooldown and registers a shot at the ship's nose.
func (c ShipController) Fire() ShotController {
	if !c.valid() {
		return ShotController{}
	}
	c.rec.shotCooldown = c.rec.reg.rules.ShotCooldown
	shot := c.rec.reg.RegisterShot(c)
	c.rec.reg.emit(Event{Kind: EventShot, Ship: c.rec.name, Position: c.rec.body.Position, Body: c.rec.bodyType})
	return shot
}

// Kill marks the ship dead, hides it and starts its respawn countdown.
func (c ShipController) Kill() {
	if !c.valid() {
		return
	}
	c.rec.health = 0
	c.rec.shieldUp = false
	c.rec.turnsToRespawn = c.rec.reg.rules.RespawnCooldown
	c.rec.body.Visible = false
}

// ApplyDamage subtracts dmg from health and kills the ship when it runs out.
// It reports whether the ship died.
func (c ShipController) ApplyDamage(dmg int) bool {
	if !c.IsAlive() {
		return false
	}
	c.rec.health -= dmg
	if c.rec.health <= 0 {
		c.Kill()
		return true
	}
	return false
}

// QueuedAction returns the action chosen in the last select phase.
func (c ShipController) QueuedAction() Action {
	if !c.valid() {
		return DoNothing
	}
	return c.rec.next
}

// SelectAction polls the brain and queues its answer. A brain error or
// panic queues nothing and is returned so the caller can kill the ship.
func (c ShipController) SelectAction(view View) (err error) {
	if !c.IsAlive() {
		return nil
	}
	c.rec.next = DoNothing
	if c.rec.brain == nil {
		return ErrNoBrain
	}
	defer func() {
		if r := recover(); r != nil {
			err = &BrainFaultError{Ship: c.rec.name, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	action, berr := c.rec.brain.NextAction(c.View(), view)
	if berr != nil {
		return &BrainFaultError{Ship: c.rec.name, Cause: berr}
	}
	c.rec.next = action
	return nil
}

// TurnOutcome tells the orchestrator what happened during DoTurn.
type TurnOutcome uint8

const (
	TurnActed TurnOutcome = iota
	TurnIllegal
	TurnWaiting
	TurnRespawned
)

// DoTurn executes the queued action for a live ship, or advances the
// respawn countdown for a dead one.
func (c ShipController) DoTurn() TurnOutcome {
	if !c.valid() {
		return TurnWaiting
	}
	rec := c.rec
	if rec.health <= 0 {
		rec.turnsToRespawn--
		if rec.turnsToRespawn > 0 {
			return TurnWaiting
		}
		c.respawn()
		return TurnRespawned
	}

	action := rec.next
	rec.next = DoNothing
	if !action.CanDo(c.View()) {
		c.Kill()
		return TurnIllegal
	}
	action.Do(c)

	rules := rec.reg.rules
	rec.body.MoveForward(rules.ShipSpeed, rec.reg.arena)
	if rec.shotCooldown > 0 {
		rec.shotCooldown--
	}
	if rec.shieldUp {
		e := rec.energy - rules.ShieldUpkeep
		if e < 0 {
			rec.shieldUp = false
			e = 0
		}
		c.SetEnergy(e)
	} else {
		c.SetEnergy(rec.energy + rules.EnergyReplenish)
	}
	return TurnActed
}

// reset restores full health and energy without touching placement.
func (c ShipController) reset() {
	rules := c.rec.reg.rules
	c.rec.health = rules.InitialHealth
	c.rec.energy = rules.MaxEnergy
	c.rec.shotCooldown = 0
	c.rec.turnsToRespawn = 0
	c.rec.shieldUp = false
	c.rec.next = DoNothing
	c.rec.body.Visible = true
}

func (c ShipController) respawn() {
	reg := c.rec.reg
	c.reset()
	c.rec.body.Position = reg.GetSpawnPoint()
	c.rec.body.SetRotation(reg.rng.Float64() * 360)
	reg.respawned(c)
	reg.emit(Event{Kind: EventRespawn, Ship: c.rec.name, Position: c.rec.body.Position})
}
