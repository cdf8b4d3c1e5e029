package brains

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

// ScriptEntry is the Lua function polled every tick.
const ScriptEntry = "next_action"

// DefaultScriptBudget bounds a single next_action call in wall-clock time.
// A script that cannot finish within it faults, so a script running close
// to the limit may fault on one machine and not another. Replays that must
// be bit-exact should use SetBudget(0).
const DefaultScriptBudget = 20 * time.Millisecond

var ErrNoEntry = errors.New("brains: script does not define " + ScriptEntry)

// Script is a brain written in Lua. The script runs in a VM without io, os
// or module loading, and may set the globals name, color ("#rrggbb") and
// body ("xwing" or "tie"). It must define
//
//	function next_action(self, world) return "shoot" end
//
// returning one of the action names understood by space.ParseAction.
// A VM is single-goroutine; the match polls brains sequentially.
type Script struct {
	vm     *lua.LState
	entry  *lua.LFunction
	name   string
	color  core.RGB
	body   space.BodyType
	rng    *rand.Rand
	budget time.Duration
}

// LoadScript reads a Lua brain from disk. The pilot name defaults to the
// file name in title case, so "rookie_ace.lua" flies as "Rookie Ace".
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("brains: cannot read script %s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	s, err := NewScript(cases.Title(language.English).String(base), string(src))
	if err != nil {
		return nil, fmt.Errorf("brains: load %s: %w", path, err)
	}
	return s, nil
}

// NewScript compiles source into a brain called name.
func NewScript(name, source string) (*Script, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	s := &Script{
		vm:     vm,
		name:   name,
		color:  core.ColorOrange,
		body:   space.XWing,
		rng:    rand.New(rand.NewSource(1)),
		budget: DefaultScriptBudget,
	}
	s.openSandbox()

	if err := vm.DoString(source); err != nil {
		vm.Close()
		return nil, err
	}
	fn, ok := vm.GetGlobal(ScriptEntry).(*lua.LFunction)
	if !ok {
		vm.Close()
		return nil, ErrNoEntry
	}
	s.entry = fn

	if v, ok := vm.GetGlobal("name").(lua.LString); ok && v != "" {
		s.name = string(v)
	}
	if v, ok := vm.GetGlobal("color").(lua.LString); ok {
		c, err := core.ParseHex(string(v))
		if err != nil {
			vm.Close()
			return nil, fmt.Errorf("color: %w", err)
		}
		s.color = c
	}
	if v, ok := vm.GetGlobal("body").(lua.LString); ok {
		switch strings.ToLower(string(v)) {
		case "xwing", "x-wing":
			s.body = space.XWing
		case "tie", "tiefighter", "tie-fighter":
			s.body = space.TieFighter
		default:
			vm.Close()
			return nil, fmt.Errorf("body: unknown hull %q", v)
		}
	}
	return s, nil
}

func (s *Script) openSandbox() {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		s.vm.Push(s.vm.NewFunction(lib.open))
		s.vm.Push(lua.LString(lib.name))
		s.vm.Call(1, 0)
	}
	for _, g := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.vm.SetGlobal(g, lua.LNil)
	}
	if m, ok := s.vm.GetGlobal("math").(*lua.LTable); ok {
		s.vm.SetField(m, "random", s.vm.NewFunction(s.random))
		s.vm.SetField(m, "randomseed", s.vm.NewFunction(func(*lua.LState) int { return 0 }))
	}
}

// random mirrors Lua's math.random on the brain's own seeded source.
func (s *Script) random(L *lua.LState) int {
	switch L.GetTop() {
	case 0:
		L.Push(lua.LNumber(s.rng.Float64()))
	case 1:
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "interval is empty")
		}
		L.Push(lua.LNumber(1 + s.rng.Intn(n)))
	default:
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		if hi < lo {
			L.ArgError(2, "interval is empty")
		}
		L.Push(lua.LNumber(lo + s.rng.Intn(hi-lo+1)))
	}
	return 1
}

// SetBudget changes the time limit of one next_action call. A zero or
// negative budget removes the deadline, and a script that never returns
// then blocks the match.
func (s *Script) SetBudget(d time.Duration) { s.budget = d }

func (s *Script) DefaultName() string      { return s.name }
func (s *Script) PrimaryColor() core.RGB   { return s.color }
func (s *Script) BodyType() space.BodyType { return s.body }

// Reset reseeds math.random.
func (s *Script) Reset(seed int64) { s.rng = rand.New(rand.NewSource(seed)) }

// Close releases the VM.
func (s *Script) Close() { s.vm.Close() }

func (s *Script) NextAction(self space.Spaceship, view space.View) (space.Action, error) {
	if s.budget > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.budget)
		defer cancel()
		s.vm.SetContext(ctx)
		defer s.vm.RemoveContext()
	}

	err := s.vm.CallByParam(lua.P{Fn: s.entry, NRet: 1, Protect: true},
		s.selfTable(self), s.worldTable(self, view))
	if err != nil {
		return space.DoNothing, fmt.Errorf("lua %s: %w", ScriptEntry, err)
	}
	ret := s.vm.Get(-1)
	s.vm.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		return space.ParseAction(string(v))
	case *lua.LNilType:
		return space.DoNothing, nil
	default:
		return space.DoNothing, fmt.Errorf("lua %s returned %s, expected a string", ScriptEntry, ret.Type())
	}
}

func (s *Script) selfTable(self space.Spaceship) *lua.LTable {
	t := s.vm.NewTable()
	p := self.Position()
	t.RawSetString("name", lua.LString(self.Name()))
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	t.RawSetString("rotation", lua.LNumber(self.Rotation()))
	t.RawSetString("health", lua.LNumber(self.Health()))
	t.RawSetString("energy", lua.LNumber(self.Energy()))
	t.RawSetString("shot_cooldown", lua.LNumber(self.ShotCooldown()))
	t.RawSetString("shield_up", lua.LBool(self.IsShieldUp()))
	t.RawSetString("can_shoot", lua.LBool(self.CanShoot()))
	t.RawSetString("can_raise_shield", lua.LBool(self.CanRaiseShield()))
	return t
}

// relative fills the offset, bearing and distance of obj as seen from self.
func relative(t *lua.LTable, self space.Spaceship, obj space.SpaceObject) {
	rel := self.ClosestRelativePosition(obj)
	t.RawSetString("dx", lua.LNumber(rel.X))
	t.RawSetString("dy", lua.LNumber(rel.Y))
	t.RawSetString("bearing", lua.LNumber(rel.AngleTo(self.Forward())))
	t.RawSetString("distance", lua.LNumber(rel.Length()))
}

func (s *Script) worldTable(self space.Spaceship, view space.View) *lua.LTable {
	arena := view.Arena()
	w := s.vm.NewTable()
	w.RawSetString("tick", lua.LNumber(view.Tick()))
	w.RawSetString("width", lua.LNumber(arena.Width))
	w.RawSetString("height", lua.LNumber(arena.Height))

	ships := s.vm.NewTable()
	for _, other := range view.Ships() {
		if !other.IsAlive() || other.Is(self) {
			continue
		}
		t := s.vm.NewTable()
		t.RawSetString("name", lua.LString(other.Name()))
		t.RawSetString("rotation", lua.LNumber(other.Rotation()))
		t.RawSetString("health", lua.LNumber(other.Health()))
		t.RawSetString("energy", lua.LNumber(other.Energy()))
		t.RawSetString("shield_up", lua.LBool(other.IsShieldUp()))
		relative(t, self, other)
		ships.Append(t)
	}
	w.RawSetString("ships", ships)

	shots := s.vm.NewTable()
	for _, shot := range view.Shots() {
		if !shot.IsAlive() {
			continue
		}
		t := s.vm.NewTable()
		t.RawSetString("rotation", lua.LNumber(shot.Rotation()))
		t.RawSetString("turns_to_live", lua.LNumber(shot.TurnsToLive()))
		t.RawSetString("mine", lua.LBool(shot.FiredBy(self)))
		relative(t, self, shot)
		shots.Append(t)
	}
	w.RawSetString("shots", shots)
	return w
}
