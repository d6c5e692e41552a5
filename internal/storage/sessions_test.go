package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	in := Session{
		GameID:       "classic",
		Score:        1240,
		Moves:        30,
		TilesCleared: 96,
		BestCascade:  5,
		Seed:         42,
	}
	id, err := store.SaveSession(in)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", id, err)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	in.ID = id
	in.CreatedAt = got.CreatedAt
	if *got != in {
		t.Errorf("SessionByID() = %+v, expected %+v", *got, in)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}

	// The score is recorded alongside the session.
	high, err := store.HighScore("classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 1240 {
		t.Errorf("HighScore() = %d, expected 1240", high)
	}
}

func TestSaveSessionKeepsGivenID(t *testing.T) {
	store := openTestStore(t)

	want := uuid.NewString()
	id, err := store.SaveSession(Session{ID: want, GameID: "blitz"})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id != want {
		t.Errorf("SaveSession() id = %q, expected %q", id, want)
	}

	if _, err := store.SaveSession(Session{ID: want, GameID: "blitz"}); err == nil {
		t.Error("duplicate session id should fail")
	}
	if _, err := store.SaveSession(Session{ID: "not-a-uuid", GameID: "blitz"}); err == nil {
		t.Error("malformed session id should fail")
	}

	// The failed duplicate must not leave a stray score behind.
	scores, _ := store.AllScores("blitz")
	if len(scores) != 1 {
		t.Errorf("expected 1 score after a rolled back insert, got %d", len(scores))
	}
}

func TestSessionByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SessionByID(uuid.NewString())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SessionByID() error = %v, expected ErrSessionNotFound", err)
	}
}

func TestRecentSessions(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := store.SaveSession(Session{GameID: "classic", Score: i})
		if err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := store.SaveSession(Session{GameID: "zen", Score: 99}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	recent, err := store.RecentSessions("classic", 3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(recent))
	}
	// Newest first.
	for i, sess := range recent {
		if sess.ID != ids[4-i] {
			t.Errorf("recent[%d] = %s, expected %s", i, sess.ID, ids[4-i])
		}
	}

	all, err := store.RecentSessions("", 0)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("expected 6 sessions across games, got %d", len(all))
	}
}

func TestClearScoresRemovesSessions(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveSession(Session{GameID: "classic", Score: 10})
	store.SaveSession(Session{GameID: "blitz", Score: 20})

	if err := store.ClearScores("classic"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if _, err := store.SessionByID(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("classic session should be gone, got %v", err)
	}
	if recent, _ := store.RecentSessions("blitz", 10); len(recent) != 1 {
		t.Error("blitz sessions should not be affected")
	}
}

func TestTopSessions(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{40, 90, 10, 90, 60} {
		if _, err := store.SaveSession(Session{GameID: "classic", Score: score, Moves: score / 10}); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	store.SaveSession(Session{GameID: "zen", Score: 500})

	top, err := store.TopSessions("classic", 3)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	expected := []int{90, 90, 60}
	if len(top) != len(expected) {
		t.Fatalf("expected %d sessions, got %d", len(expected), len(top))
	}
	for i, sess := range top {
		if sess.Score != expected[i] {
			t.Errorf("top[%d].Score = %d, expected %d", i, sess.Score, expected[i])
		}
		if sess.GameID != "classic" {
			t.Errorf("top[%d] belongs to %q", i, sess.GameID)
		}
	}
}
