package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/session/migrations"
)

// SQLiteStore implements Store on a single SQLite database. Each row carries
// the full JSON document plus extracted columns (is_completed, attempts,
// end_time_ms, completion_ms) so leaderboard filtering runs in SQL instead of
// decoding every document.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// embedded migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// modernc.org/sqlite takes pragmas in _pragma=name(value) form.
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const sessionColumns = `session_key, doc, is_completed, attempts, start_time_ms, end_time_ms, completion_ms, updated_at_ms`

// Create inserts a new document, failing when the key is already taken. The
// primary key constraint makes the uniqueness check atomic in the database.
func (s *SQLiteStore) Create(ctx context.Context, doc *Document) error {
	args, err := s.rowArgs(ctx, doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSessionAlreadyExists
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Save upserts a document.
func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	args, err := s.rowArgs(ctx, doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET
		   doc = excluded.doc,
		   is_completed = excluded.is_completed,
		   attempts = excluded.attempts,
		   start_time_ms = excluded.start_time_ms,
		   end_time_ms = excluded.end_time_ms,
		   completion_ms = excluded.completion_ms,
		   updated_at_ms = excluded.updated_at_ms`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load retrieves a document by key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data string
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM sessions WHERE session_key = ?`, key)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session document: %w", err)
	}

	return &doc, nil
}

// Delete removes a document by key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// List returns every stored document.
func (s *SQLiteStore) List(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM sessions ORDER BY session_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListCompleted returns completed documents passing the filter, ordered by
// attempts then completion moment.
func (s *SQLiteStore) ListCompleted(ctx context.Context, filter Filter) ([]*Document, error) {
	query := `SELECT doc FROM sessions WHERE is_completed = 1`
	var args []any

	if filter.MinAttempts != nil {
		query += ` AND attempts >= ?`
		args = append(args, *filter.MinAttempts)
	}
	if filter.MaxAttempts != nil {
		query += ` AND attempts <= ?`
		args = append(args, *filter.MaxAttempts)
	}
	if filter.MinCompletionMs != nil {
		query += ` AND completion_ms >= ?`
		args = append(args, *filter.MinCompletionMs)
	}
	if filter.MaxCompletionMs != nil {
		query += ` AND completion_ms <= ?`
		args = append(args, *filter.MaxCompletionMs)
	}
	query += ` ORDER BY attempts ASC, end_time_ms ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// Exists reports whether a document with the key is stored.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var found int
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE session_key = ?`, key)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	return true, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) rowArgs(ctx context.Context, doc *Document) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}
	if doc.SessionKey == "" {
		return nil, fmt.Errorf("document has no session key")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session document: %w", err)
	}

	completed := 0
	if doc.IsCompleted {
		completed = 1
	}
	var endMs, completionMs sql.NullInt64
	if doc.EndTime != nil {
		endMs = sql.NullInt64{Int64: doc.EndTime.UTC().UnixMilli(), Valid: true}
		completionMs = sql.NullInt64{Int64: doc.CompletionTime(), Valid: true}
	}

	return []any{
		doc.SessionKey,
		string(data),
		completed,
		doc.Attempts,
		doc.StartTime.UTC().UnixMilli(),
		endMs,
		completionMs,
		time.Now().UTC().UnixMilli(),
	}, nil
}

func scanDocuments(rows *sql.Rows) ([]*Document, error) {
	var docs []*Document
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		var doc Document
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}

	return docs, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlitelib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "sessions.session_key")
}

var _ Store = (*SQLiteStore)(nil)
