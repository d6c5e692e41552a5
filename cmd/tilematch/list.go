package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available boards",
	Long:  `Shows every board defined by the configuration.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No boards available.")
		return
	}

	fmt.Println("Available boards:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-20s  %-6s  %-7s  %s\n", maxIDLen, "ID", "Title", "Size", "Colours", "Moves")
	fmt.Printf("  %-*s  %-20s  %-6s  %-7s  %s\n", maxIDLen, "--", "-----", "----", "-------", "-----")

	for _, g := range games {
		v, ok := gameCfg.Variant(g.ID)
		if !ok {
			fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
			continue
		}
		moves := "-"
		if v.Moves > 0 {
			moves = fmt.Sprintf("%d", v.Moves)
		}
		size := fmt.Sprintf("%dx%d", v.Rows, v.Cols)
		fmt.Printf("  %-*s  %-20s  %-6s  %-7d  %s\n", maxIDLen, g.ID, g.Title, size, len(v.Palette), moves)
	}

	fmt.Println()
	fmt.Println("Run 'tilematch play <id>' to play a board.")
}
