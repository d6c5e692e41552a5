package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/config"
	match3game "github.com/vovakirdan/tilematch/internal/games/match3"
	"github.com/vovakirdan/tilematch/internal/storage"
)

var (
	flagSimGames   int
	flagSimWorkers int
	flagSimCap     int
	flagSimSave    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <board>",
	Short: "Play a board headless and report results",
	Long: `Let the computer play a board many times, always taking a random
playable swap. Useful for tuning move budgets and palettes.

Each game uses seed+i, so a run is reproducible with --seed.

Examples:
  tilematch simulate classic
  tilematch simulate blitz --games 500 --difficulty hard
  tilematch simulate zen --cap 200
  tilematch simulate classic --games 10 --save`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimGames, "games", 20, "Number of games to play")
	simulateCmd.Flags().IntVar(&flagSimWorkers, "workers", runtime.NumCPU(), "Games played in parallel")
	simulateCmd.Flags().IntVar(&flagSimCap, "cap", 100, "Move cap for boards without a move budget")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record results in the scores database")
}

func runSimulate(_ *cobra.Command, args []string) {
	v, ok := gameCfg.Variant(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'tilematch list' to see available boards.")
		os.Exit(1)
	}
	if flagSimGames <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --games must be positive")
		os.Exit(1)
	}

	if err := simulate(v, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var errNothingPlayed = errors.New("no game could be played")

// simulate plays flagSimGames games of v and prints a summary to out.
// The scores database, when used, is closed before it returns.
func simulate(v config.VariantConfig, out io.Writer) error {
	base := flagSeed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	var store *storage.Store
	if flagSimSave {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
	}

	// Engines share nothing, so games run on a plain worker pool.
	seeds := make(chan int64)
	results := make(chan match3game.PlayResult)
	var wg sync.WaitGroup
	for w := 0; w < max(1, flagSimWorkers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				res, err := match3game.Autoplay(v, gameCfg, seed, flagSimCap, logger)
				if err != nil {
					logger.Error("game failed", "seed", seed, "error", err)
					continue
				}
				results <- res
			}
		}()
	}
	go func() {
		for i := 0; i < flagSimGames; i++ {
			seeds <- base + int64(i)
		}
		close(seeds)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	start := time.Now()
	var (
		played, stuck, total int
		blind                int
		best                 match3game.PlayResult
		longestChain         int
	)
	for res := range results {
		played++
		total += res.Score
		if res.Stuck {
			stuck++
		}
		blind += res.Blind
		if played == 1 || res.Score > best.Score {
			best = res
		}
		longestChain = max(longestChain, res.BestCascade)

		logger.Debug("game finished",
			"seed", res.Seed,
			"score", res.Score,
			"moves", res.Moves,
			"cleared", res.Cleared,
			"chain", res.BestCascade,
			"stuck", res.Stuck,
		)

		if store != nil {
			_, err := store.SaveSession(storage.Session{
				GameID:       res.Variant,
				Score:        res.Score,
				Moves:        res.Moves,
				TilesCleared: res.Cleared,
				BestCascade:  res.BestCascade,
				Seed:         res.Seed,
			})
			if err != nil {
				logger.Warn("could not save session", "seed", res.Seed, "error", err)
			}
		}
	}

	if played == 0 {
		return errNothingPlayed
	}

	logger.Info("simulation finished",
		"board", v.ID,
		"games", played,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	fmt.Fprintf(out, "Simulated %d games of %s\n", played, v.Title)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Average score   %.1f\n", float64(total)/float64(played))
	fmt.Fprintf(out, "  Best score      %d (seed %d)\n", best.Score, best.Seed)
	fmt.Fprintf(out, "  Longest chain   x%d\n", longestChain)
	fmt.Fprintf(out, "  Stuck boards    %d\n", stuck)
	fmt.Fprintf(out, "  Blind swaps     %d\n", blind)
	return nil
}
