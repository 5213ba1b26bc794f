package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed transcript store.
type Store struct {
	db *sql.DB
}

// timestampLayout pads fractional seconds to full width. created_at is a
// TEXT column ordered lexicographically, and RFC3339Nano trims trailing
// zeros, which would sort "…00.1Z" before "…00Z".
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewStore opens (or creates) the transcript database at dbPath, applies
// pragmas, and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one turn at the end of the transcript.
func (s *Store) Append(ctx context.Context, role Role, text string) (Turn, error) {
	turn := Turn{
		ID:        ulid.Make().String(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, role, text, created_at) VALUES (?, ?, ?, ?)`,
		turn.ID, string(turn.Role), turn.Text, formatTimestamp(turn.CreatedAt),
	)
	if err != nil {
		return Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

// List returns the whole transcript in chronological order.
func (s *Store) List(ctx context.Context) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, text, created_at FROM turns ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		var role, createdAt string
		if err := rows.Scan(&turn.ID, &role, &turn.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Role = Role(role)
		turn.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse turn timestamp: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// ImportResult summarizes a transcript import.
type ImportResult struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// Import stores externally supplied turns. Invalid entries are filtered and
// reported rather than aborting the whole import; missing IDs and zero
// timestamps are backfilled.
func (s *Store) Import(ctx context.Context, turns []Turn) (ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	var result ImportResult
	for i, turn := range turns {
		errs := ValidateTurn(i, turn)
		if len(errs) > 0 {
			result.Rejected++
			for _, e := range errs {
				result.Errors = append(result.Errors, e.String())
			}
			continue
		}

		if turn.ID == "" {
			turn.ID = ulid.Make().String()
		}
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now().UTC()
		}

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO turns (id, role, text, created_at) VALUES (?, ?, ?, ?)`,
			turn.ID, string(turn.Role), turn.Text, formatTimestamp(turn.CreatedAt),
		)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import turn %d: %w", i, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return ImportResult{}, fmt.Errorf("import turn %d: %w", i, err)
		}
		if affected == 0 {
			// IGNORE swallowed an ID collision; report it, don't claim it.
			result.Rejected++
			result.Errors = append(result.Errors,
				ValidationError{Index: i, Field: "id", Message: "duplicate id"}.String())
			continue
		}
		result.Accepted++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit import: %w", err)
	}
	return result, nil
}
