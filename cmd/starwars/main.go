// starwars runs deterministic space-combat matches between ship brains in
// the terminal.
//
// Usage:
//
//	starwars list              - List game modes and brains
//	starwars play [brain...]   - Fly against bots
//	starwars watch [brain...]  - Watch a bot match
//	starwars menu              - Pick a mode interactively
//	starwars sim [brain...]    - Run a headless match and print standings
//	starwars scores            - Show the match ledger
//	starwars serve             - Start SSH server for spectators
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 50)
//	--seed <value>      - Set RNG seed for reproducible matches
//	--db <dsn>          - Ledger path or postgres:// DSN (default: ~/.starwars/ledger.db)
//	--config <path>     - Match config file (.yaml or .toml)
//	--preset <name>     - Rule preset: classic, brawl, sudden-death, marathon
//	--script <file.lua> - Add a Lua brain (repeatable)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/core"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-starwars/internal/games/arena"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagScripts  []string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starwars",
	Short: "Star Wars - ship brains dogfight in your terminal",
	Long: `Star Wars is a deterministic space-combat arena. Up to six ships,
each flown by a brain, fight on a wrap-around field until the round ends.

Available commands:
  list     - Show game modes and brains
  play     - Fly a ship against bots
  watch    - Watch bots fight
  menu     - Interactive mode picker
  sim      - Headless match, prints standings
  scores   - View the match ledger
  serve    - Start SSH server for spectators

Examples:
  starwars list
  starwars play hunter evader
  starwars watch --preset brawl
  starwars sim --ticks 5000 --audio-out round.wav
  starwars serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, err := config.ParsePreset(flagPreset); err != nil {
			return err
		}
		_, err := log.ParseLevel(flagLogLevel)
		return err
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 50, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.starwars/ledger.db", "Ledger database path or postgres:// DSN")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to match config (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "classic", "Rule preset: classic, brawl, sudden-death, marathon")
	rootCmd.PersistentFlags().StringArrayVar(&flagScripts, "script", nil, "Lua brain file to add to the lineup (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger for the --log-level flag.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// matchConfig loads --config and applies --preset over it.
func matchConfig() (config.MatchConfig, config.Preset, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.MatchConfig{}, "", err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, preset, err
	}
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return cfg, preset, fmt.Errorf("invalid match config: %w", err)
	}
	return cfg, preset, nil
}

// runtimeConfig sizes the match to the terminal and applies --fps and --seed.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// lineup returns the bot ids from args and --script, falling back to def.
func lineup(args, def []string) []string {
	ids := append(append([]string(nil), args...), flagScripts...)
	if len(ids) == 0 {
		return def
	}
	return ids
}

// checkBrains rejects unknown catalog ids before a terminal UI starts.
// Script paths are checked when they load.
func checkBrains(ids []string) error {
	known := make(map[string]bool)
	for _, info := range brains.List() {
		known[info.ID] = true
	}
	for _, id := range ids {
		if isScript(id) || known[id] {
			continue
		}
		return fmt.Errorf("unknown brain %q (run 'starwars list' to see available brains)", id)
	}
	return nil
}

func isScript(id string) bool {
	return strings.HasSuffix(strings.ToLower(id), ".lua")
}
