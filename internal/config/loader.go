package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the match configuration. Keys missing from a file keep their
// default values.
// Search order: customPath -> ~/.starwars/configs/match.{yaml,toml} -> ./configs/match.yaml -> embedded default
func Load(customPath string) (MatchConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultMatchConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data, formatOf(customPath))
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	for _, name := range []string{"match.yaml", "match.yml", "match.toml"} {
		userCfgPath := userConfigPath(name)
		if userCfgPath == "" {
			break
		}
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data, formatOf(name)); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "match.yaml")); err == nil {
		if cfg, err := Parse(data, FormatYAML); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultMatchYAML, FormatYAML)
	if err != nil {
		return DefaultMatchConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, format Format) (MatchConfig, error) {
	cfg := DefaultMatchConfig()
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return DefaultMatchConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes cfg in the given format.
func Marshal(cfg MatchConfig, format Format) ([]byte, error) {
	if format == FormatTOML {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starwars", "configs", filename)
}
