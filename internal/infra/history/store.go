// Package history keeps a SQLite log of handled voice commands.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"voice-lights/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	language   TEXT NOT NULL DEFAULT '',
	translated TEXT NOT NULL DEFAULT '',
	success    INTEGER NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_created_at ON commands(created_at);
`

const maxLimit = 500

type Store struct {
	db *sqlx.DB
}

type row struct {
	ID         string `db:"id"`
	Text       string `db:"text"`
	Source     string `db:"source"`
	Language   string `db:"language"`
	Translated string `db:"translated"`
	Success    bool   `db:"success"`
	Reason     string `db:"reason"`
	Message    string `db:"message"`
	CreatedAt  int64  `db:"created_at"`
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite allows a single writer; one shared connection serializes callers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores e, assigning an id and timestamp when they are empty.
func (s *Store) Record(ctx context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	r := row{
		ID:         e.ID,
		Text:       e.Text,
		Source:     e.Source,
		Language:   e.Language,
		Translated: e.Translated,
		Success:    e.Success,
		Reason:     string(e.Reason),
		Message:    e.Message,
		CreatedAt:  e.CreatedAt.UnixNano(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO commands (id, text, source, language, translated, success, reason, message, created_at)
		VALUES (:id, :text, :source, :language, :translated, :success, :reason, :message, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("inserting command: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, text, source, language, translated, success, reason, message, created_at
		FROM commands
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.HistoryEntry{
			ID:         r.ID,
			Text:       r.Text,
			Source:     r.Source,
			Language:   r.Language,
			Translated: r.Translated,
			Success:    r.Success,
			Reason:     domain.FailureReason(r.Reason),
			Message:    r.Message,
			CreatedAt:  time.Unix(0, r.CreatedAt),
		})
	}
	return entries, nil
}
