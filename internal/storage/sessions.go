package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by SessionByID for unknown ids.
var ErrSessionNotFound = errors.New("storage: session not found")

// Session is the summary of one finished game.
type Session struct {
	ID           string // UUID, assigned by SaveSession when empty
	GameID       string
	Score        int
	Moves        int
	TilesCleared int
	BestCascade  int
	Seed         int64
	CreatedAt    time.Time
}

// SaveSession records a finished game and its score in one transaction.
// Returns the session id.
func (s *Store) SaveSession(sess Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	} else if _, err := uuid.Parse(sess.ID); err != nil {
		return "", fmt.Errorf("storage: invalid session id %q: %w", sess.ID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, game_id, score, moves, tiles_cleared, best_cascade, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.GameID, sess.Score, sess.Moves, sess.TilesCleared, sess.BestCascade, sess.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	_, err = tx.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", sess.GameID, sess.Score)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit session: %w", err)
	}
	return sess.ID, nil
}

const sessionColumns = `id, game_id, score, moves, tiles_cleared, best_cascade, seed, created_at`

// SessionByID retrieves one session.
func (s *Store) SessionByID(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return sess, nil
}

// RecentSessions lists the latest sessions, newest first. An empty gameID
// lists every game.
func (s *Store) RecentSessions(gameID string, limit int) ([]Session, error) {
	return s.querySessions(gameID, `created_at DESC, rowid DESC`, limit)
}

// TopSessions lists the best sessions for a game, highest score first.
// Ties go to the earlier game.
func (s *Store) TopSessions(gameID string, limit int) ([]Session, error) {
	return s.querySessions(gameID, `score DESC, created_at ASC, rowid ASC`, limit)
}

func (s *Store) querySessions(gameID, order string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	args := []any{}
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY ` + order + ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, *sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var createdAt any
	err := row.Scan(
		&sess.ID,
		&sess.GameID,
		&sess.Score,
		&sess.Moves,
		&sess.TilesCleared,
		&sess.BestCascade,
		&sess.Seed,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = parseTime(createdAt)
	return &sess, nil
}
