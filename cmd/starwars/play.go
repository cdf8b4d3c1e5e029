package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/games/arena"
	"github.com/vovakirdan/tui-starwars/internal/platform/tui"
	"github.com/vovakirdan/tui-starwars/internal/storage"
)

var flagPilot string

var playCmd = &cobra.Command{
	Use:   "play [brain...]",
	Short: "Fly a ship against bots",
	Long: `Start a match with you at the controls of an X-Wing. Bots default
to hunter, evader, twister and defender. At most five bots fit next to you.

Controls:
  Left/A, Right/D  - Turn
  Space/W/Up       - Fire
  S/Down           - Toggle shield
  +/-              - Faster/slower
  P/Esc            - Pause
  Tab              - Show/hide scoreboard
  R                - Restart
  Q/Ctrl+C         - Quit

Examples:
  starwars play
  starwars play hunter darthship
  starwars play --script ./brains/kamikaze.lua
  starwars play --preset sudden-death --pilot Luke`,
	Run: runPlay,
}

var watchCmd = &cobra.Command{
	Use:   "watch [brain...]",
	Short: "Watch bots fight",
	Long: `Start a bots-only match. Without arguments the full default fleet
takes part.

Examples:
  starwars watch
  starwars watch hunter snake evader
  starwars watch --fps 100 --preset brawl`,
	Run: runWatch,
}

func init() {
	playCmd.Flags().StringVar(&flagPilot, "pilot", "Player", "Your pilot name")
}

func runPlay(_ *cobra.Command, args []string) {
	runArena("play", "Play", flagPilot, lineup(args, []string{"hunter", "evader", "twister", "defender"}))
}

func runWatch(_ *cobra.Command, args []string) {
	runArena("watch", "Watch", "", lineup(args, brains.DefaultFleet()))
}

func runArena(id, title, pilot string, bots []string) {
	if err := checkBrains(bots); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	matchCfg, preset, err := matchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger("starwars")
	game := arena.New(id, title,
		arena.WithPilot(pilot),
		arena.WithBrains(bots...),
		arena.WithMatchConfig(matchCfg),
		arena.WithLogger(logger),
	)

	cfg := runtimeConfig()

	// Open the ledger
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open ledger: %v\n", err)
		// Continue without storage - the match still runs
		store = nil
	}

	runErr := tui.Run(game, cfg, tui.Options{
		Store:     store,
		Preset:    string(preset),
		Logger:    logger,
		Spectator: pilot == "",
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
	if gameErr := game.Err(); gameErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", gameErr)
		os.Exit(1)
	}
}
