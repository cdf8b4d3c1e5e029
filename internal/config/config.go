// Package config provides YAML and TOML match configuration loading with
// embedded defaults and named presets.
package config

import (
	"errors"
	"fmt"
)

// MatchConfig contains everything a match reads at setup.
type MatchConfig struct {
	Arena ArenaConfig `yaml:"arena" toml:"arena"`
	Ship  ShipConfig  `yaml:"ship" toml:"ship"`
	Shot  ShotConfig  `yaml:"shot" toml:"shot"`
	Rules RulesConfig `yaml:"rules" toml:"rules"`
	Pools PoolsConfig `yaml:"pools" toml:"pools"`
}

// ArenaConfig defines the toroidal arena extent in world units.
type ArenaConfig struct {
	Height float64 `yaml:"height" toml:"height"`
	Width  float64 `yaml:"width" toml:"width"`   // 0 = derive from the viewport aspect
	Aspect float64 `yaml:"aspect" toml:"aspect"` // width/height used when no viewport is known
}

// ShipConfig defines spaceship constants.
type ShipConfig struct {
	Health          int     `yaml:"health" toml:"health"`
	MaxEnergy       int     `yaml:"max_energy" toml:"max_energy"`
	ShotCooldown    int     `yaml:"shot_cooldown" toml:"shot_cooldown"`
	RespawnCooldown int     `yaml:"respawn_cooldown" toml:"respawn_cooldown"`
	RotationStep    float64 `yaml:"rotation_step" toml:"rotation_step"` // degrees per turn action
	Speed           float64 `yaml:"speed" toml:"speed"`                 // units per tick
	Radius          float64 `yaml:"radius" toml:"radius"`
	ShieldUpCost    int     `yaml:"shield_up_cost" toml:"shield_up_cost"`
	ShieldUpkeep    int     `yaml:"shield_upkeep" toml:"shield_upkeep"`
	EnergyReplenish int     `yaml:"energy_replenish" toml:"energy_replenish"`
}

// ShotConfig defines shot constants.
type ShotConfig struct {
	Damage   int     `yaml:"damage" toml:"damage"`
	Speed    float64 `yaml:"speed" toml:"speed"`
	Lifetime int     `yaml:"lifetime" toml:"lifetime"` // ticks
	Radius   float64 `yaml:"radius" toml:"radius"`
}

// RulesConfig defines match-level rules.
type RulesConfig struct {
	MaxShips      int `yaml:"max_ships" toml:"max_ships"`
	DeathsPerShip int `yaml:"deaths_per_ship" toml:"deaths_per_ship"` // 0 disables the death pause
	ScoreToPause  int `yaml:"score_to_pause" toml:"score_to_pause"`   // 0 disables the score pause
	ScoreStep     int `yaml:"score_step" toml:"score_step"`
	ColorLowPass  int `yaml:"color_low_pass" toml:"color_low_pass"`
}

// PoolsConfig sizes the entity pools.
type PoolsConfig struct {
	ShotsInitial int `yaml:"shots_initial" toml:"shots_initial"`
	ShotsGrow    int `yaml:"shots_grow" toml:"shots_grow"`
	ShotsMax     int `yaml:"shots_max" toml:"shots_max"`
}

// HardMaxShips is the largest fleet a match supports.
const HardMaxShips = 6

// ArenaSize resolves the arena extent. A fixed width wins; otherwise the
// width follows the viewport aspect, or Aspect when the viewport is unknown.
func (c MatchConfig) ArenaSize(viewW, viewH float64) (width, height float64) {
	height = c.Arena.Height
	switch {
	case c.Arena.Width > 0:
		width = c.Arena.Width
	case viewW > 0 && viewH > 0:
		width = height * viewW / viewH
	default:
		width = height * c.Arena.Aspect
	}
	return width, height
}

// Validate reports every invalid field at once.
func (c MatchConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Arena.Height > 0, "arena.height must be positive, got %v", c.Arena.Height)
	check(c.Arena.Width >= 0, "arena.width must not be negative, got %v", c.Arena.Width)
	check(c.Arena.Width > 0 || c.Arena.Aspect > 0, "arena.aspect must be positive when arena.width is 0")

	check(c.Ship.Health > 0, "ship.health must be positive, got %d", c.Ship.Health)
	check(c.Ship.MaxEnergy > 0, "ship.max_energy must be positive, got %d", c.Ship.MaxEnergy)
	check(c.Ship.ShotCooldown >= 0, "ship.shot_cooldown must not be negative, got %d", c.Ship.ShotCooldown)
	check(c.Ship.RespawnCooldown > 0, "ship.respawn_cooldown must be positive, got %d", c.Ship.RespawnCooldown)
	check(c.Ship.RotationStep > 0, "ship.rotation_step must be positive, got %v", c.Ship.RotationStep)
	check(c.Ship.Speed >= 0, "ship.speed must not be negative, got %v", c.Ship.Speed)
	check(c.Ship.Radius > 0, "ship.radius must be positive, got %v", c.Ship.Radius)
	check(c.Ship.ShieldUpCost >= 0 && c.Ship.ShieldUpkeep >= 0 && c.Ship.EnergyReplenish >= 0,
		"ship shield costs must not be negative")

	check(c.Shot.Damage > 0, "shot.damage must be positive, got %d", c.Shot.Damage)
	check(c.Shot.Speed > 0, "shot.speed must be positive, got %v", c.Shot.Speed)
	check(c.Shot.Lifetime > 0, "shot.lifetime must be positive, got %d", c.Shot.Lifetime)
	check(c.Shot.Radius > 0, "shot.radius must be positive, got %v", c.Shot.Radius)

	check(c.Rules.MaxShips >= 1 && c.Rules.MaxShips <= HardMaxShips,
		"rules.max_ships must be in [1, %d], got %d", HardMaxShips, c.Rules.MaxShips)
	check(c.Rules.DeathsPerShip >= 0, "rules.deaths_per_ship must not be negative, got %d", c.Rules.DeathsPerShip)
	check(c.Rules.ScoreToPause >= 0, "rules.score_to_pause must not be negative, got %d", c.Rules.ScoreToPause)
	check(c.Rules.ScoreToPause == 0 || c.Rules.ScoreStep > 0, "rules.score_step must be positive when score_to_pause is set")
	check(c.Rules.ColorLowPass > 0 && c.Rules.ColorLowPass <= 0x80,
		"rules.color_low_pass must be in [1, 128], got %d", c.Rules.ColorLowPass)

	check(c.Pools.ShotsInitial >= 0, "pools.shots_initial must not be negative, got %d", c.Pools.ShotsInitial)
	check(c.Pools.ShotsGrow >= 1, "pools.shots_grow must be at least 1, got %d", c.Pools.ShotsGrow)
	check(c.Pools.ShotsMax == 0 || c.Pools.ShotsMax >= c.Pools.ShotsInitial,
		"pools.shots_max must be 0 or at least shots_initial")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid match config: %w", errors.Join(errs...))
}
