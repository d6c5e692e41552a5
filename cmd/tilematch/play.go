package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/platform/tui"
	"github.com/vovakirdan/tilematch/internal/registry"
	"github.com/vovakirdan/tilematch/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <board>",
	Short: "Play a board",
	Long: `Start playing the specified board.

Controls:
  Arrows/WASD/HJKL  - Move cursor
  Space             - Grab tile; the next arrow swaps it
  Mouse drag        - Swap a tile with its neighbour
  ?                 - Show a hint
  P/Esc             - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy    - More moves, one colour fewer
  normal  - Boards as configured
  hard    - Fewer moves, one extra colour

Examples:
  tilematch play classic
  tilematch play blitz --difficulty easy
  tilematch play classic --seed 42
  tilematch play classic --config ./my-boards.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tilematch list' to see available boards.")
		os.Exit(1)
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	closeLog := useLogFile()

	game, err := registry.Create(gameID)
	if err != nil {
		closeLog()
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, store, cfg, logger)

	closeLog()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (width, height int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
