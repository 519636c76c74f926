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

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

var ErrHistoryNotFound = errors.New("history entry not found")

// Outcome of one executed terminal line.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeNothing Outcome = "nothing"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

type Entry struct {
	ID      string    `json:"id" yaml:"id"`
	Line    string    `json:"line" yaml:"line"`
	Command string    `json:"command,omitempty" yaml:"command,omitempty"`
	Payload string    `json:"payload,omitempty" yaml:"payload,omitempty"`
	Outcome Outcome   `json:"outcome" yaml:"outcome"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
	At      time.Time `json:"at" yaml:"at"`
}

// History is the local record of executed terminal lines.
type History struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

// OpenHistory opens (creating if needed) the history database at path.
// limit <= 0 keeps every entry.
func OpenHistory(ctx context.Context, path string, limit int) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and a one-shot exec write concurrently; busy_timeout
	// rides out the short lock windows.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateHistory(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db, limit: limit, now: time.Now}, nil
}

func migrateHistory(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			line TEXT NOT NULL,
			command TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) Close() error { return h.db.Close() }

// Append stores e, filling in its id and time, and prunes entries beyond
// the limit.
func (h *History) Append(ctx context.Context, e Entry) (Entry, error) {
	e.Line = strings.TrimSpace(e.Line)
	if e.Line == "" {
		return Entry{}, errors.New("history: empty line")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = h.now()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeSent
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history(id, line, command, payload, outcome, error, created_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Line, e.Command, e.Payload, string(e.Outcome), e.Error, e.At.UnixMilli(),
	); err != nil {
		return Entry{}, fmt.Errorf("history append: %w", err)
	}
	if h.limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE id NOT IN (
				SELECT id FROM history ORDER BY created_at_unixms DESC, rowid DESC LIMIT ?
			)`, h.limit,
		); err != nil {
			return Entry{}, fmt.Errorf("history prune: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (h *History) Recent(ctx context.Context, n int) ([]Entry, error) {
	q := `SELECT id, line, command, payload, outcome, error, created_at_unixms FROM history ORDER BY created_at_unixms DESC, rowid DESC`
	args := []any{}
	if n > 0 {
		q += ` LIMIT ?`
		args = append(args, n)
	}
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get finds an entry by id or by a unique id prefix.
func (h *History) Get(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrHistoryNotFound
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, line, command, payload, outcome, error, created_at_unixms FROM history WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`,
		id, escapeLike(id)+"%",
	)
	if err != nil {
		return Entry{}, err
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		if e.ID == id {
			return e, nil
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrHistoryNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("history: id prefix %q is ambiguous", id)
	}
}

// Lines returns up to n distinct recent lines, oldest first, for recall in
// an input box. Consecutive repeats are collapsed.
func (h *History) Lines(ctx context.Context, n int) ([]string, error) {
	entries, err := h.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		line := entries[i].Line
		if len(out) > 0 && out[len(out)-1] == line {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var (
		e       Entry
		outcome string
		ms      int64
	)
	if err := r.Scan(&e.ID, &e.Line, &e.Command, &e.Payload, &outcome, &e.Error, &ms); err != nil {
		return Entry{}, err
	}
	e.Outcome = Outcome(outcome)
	e.At = time.UnixMilli(ms)
	return e, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
