package config

import (
	_ "embed"
)

//go:embed defaults/match.yaml
var defaultMatchYAML []byte

// DefaultMatchConfig returns the default match configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Arena: ArenaConfig{
			Height: 10,
			Width:  0,
			Aspect: 1.8,
		},
		Ship: ShipConfig{
			Health:          100,
			MaxEnergy:       400,
			ShotCooldown:    30,
			RespawnCooldown: 50,
			RotationStep:    5,
			Speed:           0.1,
			Radius:          0.6,
			ShieldUpCost:    100,
			ShieldUpkeep:    3,
			EnergyReplenish: 4,
		},
		Shot: ShotConfig{
			Damage:   100,
			Speed:    0.3,
			Lifetime: 40,
			Radius:   0.5,
		},
		Rules: RulesConfig{
			MaxShips:      HardMaxShips,
			DeathsPerShip: 10,
			ScoreToPause:  0,
			ScoreStep:     5,
			ColorLowPass:  0x20,
		},
		Pools: PoolsConfig{
			ShotsInitial: 16,
			ShotsGrow:    8,
			ShotsMax:     256,
		},
	}
}

// DefaultYAML returns the embedded default match YAML.
func DefaultYAML() []byte {
	return defaultMatchYAML
}
