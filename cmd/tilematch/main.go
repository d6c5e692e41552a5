// tilematch is a match-3 tile puzzle for the terminal.
//
// Usage:
//
//	tilematch list                - List available boards
//	tilematch play <board>        - Play a board
//	tilematch menu                - Pick boards interactively
//	tilematch serve               - Start SSH server for remote play
//	tilematch scores <board>      - Show high scores for a board
//	tilematch simulate <board>    - Play boards headless and report results
//	tilematch config              - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Animation tick rate (default: 30)
//	--seed <value>        - Board seed for reproducible games
//	--db <path>           - Database path (default: ~/.tilematch/scores.db)
//	--config <path>       - Custom board configuration YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/config"
	match3game "github.com/vovakirdan/tilematch/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

var (
	// Set up by the root command before any subcommand runs.
	logger  *log.Logger
	gameCfg config.Match3Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilematch",
	Short: "Tilematch - swap tiles, clear rows, chain cascades",
	Long: `Tilematch is a match-3 puzzle for the terminal. Swap two neighbouring
tiles to line up three or more of a kind; cleared tiles fall and new
ones drop in, sometimes setting off cascades.

Available commands:
  list      - Show all boards
  play      - Play a specific board directly
  menu      - Interactive board picker
  serve     - Start SSH server for remote play
  scores    - View high scores
  simulate  - Let the computer play and report scores
  config    - Print the effective configuration

Examples:
  tilematch list
  tilematch play classic
  tilematch play blitz --difficulty hard
  tilematch serve --ssh :2222
  tilematch simulate classic --games 100`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Animation tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Board seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilematch/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom board config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}

// setup builds the logger, loads the configuration and registers every
// configured board.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = newLogger(os.Stderr, level)

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	config.ApplyPreset(&cfg, preset)
	gameCfg = cfg

	match3game.Register(gameCfg, logger)
	logger.Debug("config loaded", "variants", len(gameCfg.Variants), "difficulty", preset)
	return nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilematch",
		Level:           level,
	})
}

// useLogFile redirects logging to ~/.tilematch/tilematch.log while a full
// screen program owns the terminal. The returned func closes the file.
func useLogFile() func() {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	dir := filepath.Join(home, ".tilematch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "tilematch.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}
}
