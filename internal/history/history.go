// Package history keeps the list of recently opened subjects in a small
// sqlite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	_ "modernc.org/sqlite"
)

// DefaultPath is where the history database lives unless --history
// overrides it.
const DefaultPath = "~/.local/state/bgmtty/history.db"

const mirrorSize = 50

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	subject_id INTEGER PRIMARY KEY,
	name       TEXT    NOT NULL,
	opened_at  INTEGER NOT NULL,
	open_count INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS subjects_opened_at ON subjects (opened_at DESC);
`

// Item is one recently opened subject.
type Item struct {
	SubjectID int
	Name      string
	OpenedAt  time.Time
	Count     int
}

// Store persists opened subjects. Reads are served from an in-memory mirror
// so the render loop never touches the database.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.RWMutex
	recent []Item
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand history path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o750); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", expanded)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	if err := s.reload(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Record marks a subject as opened now. A nil Store ignores the call.
func (s *Store) Record(id int, name string) error {
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	at := s.now()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO subjects (subject_id, name, opened_at, open_count) VALUES (?, ?, ?, 1)
ON CONFLICT(subject_id) DO UPDATE SET
	name = excluded.name,
	opened_at = excluded.opened_at,
	open_count = subjects.open_count + 1`, id, name, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("record subject %d: %w", id, err)
	}
	return s.reload(ctx)
}

// Recent returns up to n subjects, most recently opened first.
func (s *Store) Recent(n int) []Item {
	if s == nil || n <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n = min(n, len(s.recent))
	out := make([]Item, n)
	copy(out, s.recent[:n])
	return out
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) reload(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject_id, name, opened_at, open_count FROM subjects ORDER BY opened_at DESC, subject_id DESC LIMIT ?`,
		mirrorSize)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it Item
			ms int64
		)
		if err := rows.Scan(&it.SubjectID, &it.Name, &ms, &it.Count); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		it.OpenedAt = time.UnixMilli(ms)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	s.mu.Lock()
	s.recent = items
	s.mu.Unlock()
	return nil
}
