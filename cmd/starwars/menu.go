package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/games/arena"
	"github.com/vovakirdan/tui-starwars/internal/platform/tui"
	"github.com/vovakirdan/tui-starwars/internal/registry"
	"github.com/vovakirdan/tui-starwars/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a game mode and rule preset interactively",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to cycle rule presets and
Enter to start. Quitting a match brings you back to the menu.

Controls:
  Up/Down/j/k  - Navigate modes
  Left/Right   - Cycle presets
  Enter/Space  - Start
  Tab          - Ledger
  Q            - Quit

Examples:
  starwars menu
  starwars menu --fps 30
  starwars menu --db ./ledger.db`,
	Run: runMenu,
}

// configuredMode creates a registered mode with the loaded match config
// and the chosen preset applied.
func configuredMode(id string, preset config.Preset, logger *log.Logger) (registry.Game, error) {
	game, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match config: %w", err)
	}
	if g, ok := game.(*arena.Game); ok {
		g.Configure(arena.WithMatchConfig(cfg), arena.WithLogger(logger))
	}
	return game, nil
}

func runMenu(_ *cobra.Command, _ []string) {
	logger := newLogger("starwars")

	// Open the ledger
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open ledger: %v\n", err)
		store = nil
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from the ledger
		}

		game, err := configuredMode(menuResult.GameID, menuResult.Preset, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating match: %v\n", err)
			continue
		}

		info, _ := registry.Lookup(menuResult.GameID)
		err = tui.Run(game, cfg, tui.Options{
			Store:     store,
			Preset:    string(menuResult.Preset),
			Logger:    logger,
			Spectator: !info.Interactive,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running match: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
