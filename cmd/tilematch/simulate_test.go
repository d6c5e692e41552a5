package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/storage"
)

// useSimFlags points the simulate command at a temporary database.
func useSimFlags(t *testing.T, games int) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scores.db")

	oldCfg, oldLogger := gameCfg, logger
	oldGames, oldWorkers, oldCap, oldSave := flagSimGames, flagSimWorkers, flagSimCap, flagSimSave
	oldSeed, oldDB := flagSeed, flagDBPath
	t.Cleanup(func() {
		gameCfg, logger = oldCfg, oldLogger
		flagSimGames, flagSimWorkers, flagSimCap, flagSimSave = oldGames, oldWorkers, oldCap, oldSave
		flagSeed, flagDBPath = oldSeed, oldDB
	})

	gameCfg = config.DefaultMatch3Config()
	logger = log.New(io.Discard)
	flagSimGames, flagSimWorkers, flagSimCap, flagSimSave = games, 2, 10, true
	flagSeed, flagDBPath = 42, dbPath
	return dbPath
}

func TestSimulateSavesAndCloses(t *testing.T) {
	dbPath := useSimFlags(t, 3)
	v := gameCfg.Variants[0]

	var out bytes.Buffer
	if err := simulate(v, &out); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Simulated 3 games") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer store.Close()
	sessions, err := store.RecentSessions(v.ID, 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("saved %d sessions, want 3", len(sessions))
	}
}

func TestSimulateReturnsErrorInsteadOfExiting(t *testing.T) {
	dbPath := useSimFlags(t, 2)
	v := gameCfg.Variants[0]
	v.Rows = 0

	err := simulate(v, io.Discard)
	if !errors.Is(err, errNothingPlayed) {
		t.Fatalf("simulate() = %v, want %v", err, errNothingPlayed)
	}

	// The deferred close has run, so the database is usable again.
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
