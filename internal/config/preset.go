package config

import "fmt"

// Preset represents a named rule set applied over the loaded config.
type Preset string

const (
	PresetClassic     Preset = "classic"
	PresetBrawl       Preset = "brawl"
	PresetSuddenDeath Preset = "sudden-death"
	PresetMarathon    Preset = "marathon"
)

// Presets returns every preset in display order.
func Presets() []Preset {
	return []Preset{PresetClassic, PresetBrawl, PresetSuddenDeath, PresetMarathon}
}

// ParsePreset resolves a preset name. The empty name is classic.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PresetClassic, nil
	}
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q", name)
}

// Describe returns a one-line summary for menus and help output.
func (p Preset) Describe() string {
	switch p {
	case PresetClassic:
		return "standard rules, pause after 10 deaths per ship"
	case PresetBrawl:
		return "fast guns and quick respawns"
	case PresetSuddenDeath:
		return "the match pauses after one death per ship"
	case PresetMarathon:
		return "never pauses"
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a preset.
func ApplyPreset(cfg *MatchConfig, preset Preset) {
	switch preset {
	case PresetBrawl:
		cfg.Ship.ShotCooldown = 15
		cfg.Ship.RespawnCooldown = 25
		cfg.Shot.Speed = 0.4
		cfg.Rules.DeathsPerShip = 20
	case PresetSuddenDeath:
		cfg.Ship.RespawnCooldown = 100
		cfg.Rules.DeathsPerShip = 1
	case PresetMarathon:
		cfg.Rules.DeathsPerShip = 0
		cfg.Rules.ScoreToPause = 0
	}
}
