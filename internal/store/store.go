// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuicount/internal/logsink"
	"github.com/verte-zerg/tuicount/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for counting runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			period_ms INTEGER NOT NULL,
			deltas TEXT NOT NULL,
			total INTEGER NOT NULL,
			final INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished run.
func (s *Store) InsertSession(ctx context.Context, session model.Session) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, period_ms, deltas, total, final)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.StartedAt.UTC().Format(timeLayout),
		session.EndedAt.UTC().Format(timeLayout),
		session.Period.Milliseconds(),
		logsink.FormatDeltas(session.Deltas),
		session.Total,
		session.Final,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns runs in chronological order, filtered by cfg.
func (s *Store) ListSessions(ctx context.Context, cfg model.SessionsConfig) ([]model.Session, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, period_ms, deltas, total, final
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// GetSession loads a single run by id.
func (s *Store) GetSession(ctx context.Context, id int64) (model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at, period_ms, deltas, total, final
		 FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNotFound
	}
	return session, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (model.Session, error) {
	var (
		session   model.Session
		startedAt string
		endedAt   string
		periodMs  int64
		deltas    string
	)
	if err := sc.Scan(&session.ID, &startedAt, &endedAt, &periodMs, &deltas, &session.Total, &session.Final); err != nil {
		return model.Session{}, err
	}
	var err error
	if session.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return model.Session{}, err
	}
	if session.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return model.Session{}, err
	}
	if session.Deltas, err = logsink.ParseDeltas(deltas); err != nil {
		return model.Session{}, err
	}
	session.Period = time.Duration(periodMs) * time.Millisecond
	return session, nil
}
