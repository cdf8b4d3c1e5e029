package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes, brains and presets",
	Long:  `Shows the registered game modes, the built-in ship brains and the rule presets.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	fmt.Println("Game modes:")
	fmt.Println()
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "ID", "Title", "About")
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, g.ID, g.Title, g.About)
	}

	fmt.Println()
	fmt.Println("Brains:")
	fmt.Println()
	infos := brains.List()
	maxIDLen = 2
	for _, b := range infos {
		maxIDLen = max(maxIDLen, len(b.ID))
	}
	fmt.Printf("  %-*s  %-12s  %-11s  %s\n", maxIDLen, "ID", "Name", "Body", "About")
	fmt.Printf("  %-*s  %-12s  %-11s  %s\n", maxIDLen, "--", "----", "----", "-----")
	for _, b := range infos {
		fmt.Printf("  %-*s  %-12s  %-11s  %s\n", maxIDLen, b.ID, b.Name, b.Body, b.About)
	}

	fmt.Println()
	fmt.Println("Presets:")
	fmt.Println()
	for _, p := range config.Presets() {
		fmt.Printf("  %-12s  %s\n", p, p.Describe())
	}

	fmt.Println()
	fmt.Println("Run 'starwars play <brain>...' to fly, or 'starwars watch' to spectate.")
}
