package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/registry"
	"github.com/vovakirdan/tilematch/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <board>",
	Short: "Show high scores for a board",
	Long: `Display the best games recorded for the specified board.

Examples:
  tilematch scores classic
  tilematch scores blitz --limit 20
  tilematch scores classic --recent`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "List the latest games instead of the best")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tilematch list' to see available boards.")
		os.Exit(1)
	}

	title := gameID
	if v, ok := gameCfg.Variant(gameID); ok {
		title = v.Title
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	heading := "High Scores"
	fetch := store.TopSessions
	if flagScoresRecent {
		heading = "Recent Games"
		fetch = store.RecentSessions
	}

	sessions, err := fetch(gameID, flagScoresLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s - %s\n", heading, title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tilematch play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %-16s  %s\n", "Rank", "Score", "Moves", "Tiles", "Chain", "Date", "Seed")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %-16s  %s\n", "----", "-----", "-----", "-----", "-----", "----", "----")

	for i, s := range sessions {
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  x%-4d  %-16s  %d\n",
			i+1, s.Score, s.Moves, s.TilesCleared, s.BestCascade,
			s.CreatedAt.Format("2006-01-02 15:04"), s.Seed)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Printf("Best: %d  Average: %.0f  Games: %d  Longest chain: x%d\n",
			stats.HighScore, stats.AvgScore, stats.GamesCount, stats.BestCascade)
	}
}
