package lib

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

type HistoryEntry struct {
	Expression string
	Outcome    string
	Valid      bool
	At         time.Time
}

// HistoryStore persists accepted REPL input across sessions.
type HistoryStore interface {
	// Load returns at most limit of the most recent expressions, oldest first.
	Load(ctx context.Context, limit int) ([]string, error)
	Append(ctx context.Context, entry HistoryEntry) error
	Close() error
}

type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{entries: []HistoryEntry{}}
}

func (s *MemoryHistoryStore) Load(ctx context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit >= 0 && len(s.entries) > limit {
		start = len(s.entries) - limit
	}
	result := []string{}
	for _, e := range s.entries[start:] {
		result = append(result, e.Expression)
	}
	return result, nil
}

func (s *MemoryHistoryStore) Append(ctx context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryHistoryStore) Entries() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryEntry{}, s.entries...)
}

func (s *MemoryHistoryStore) Close() error {
	return nil
}

type PostgresHistoryStore struct {
	db *sql.DB
}

// OpenPostgresHistory connects to the database at connectionString and
// brings the history schema up to date.
func OpenPostgresHistory(ctx context.Context, connectionString string) (*PostgresHistoryStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, describePQError(err)
	}

	migrations, err := HistoryMigrations()
	if err != nil {
		db.Close()
		return nil, err
	}

	if _, err = RunMigrations(ctx, db, migrations); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresHistoryStore{db: db}, nil
}

func (s *PostgresHistoryStore) Load(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT expression FROM (
	SELECT id, expression FROM calc_history ORDER BY id DESC LIMIT $1
) recent ORDER BY id ASC`, limit)
	if err != nil {
		return nil, describePQError(err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var expression string
		if err := rows.Scan(&expression); err != nil {
			return nil, err
		}
		result = append(result, expression)
	}
	return result, rows.Err()
}

func (s *PostgresHistoryStore) Append(ctx context.Context, entry HistoryEntry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO calc_history (expression, outcome, valid, created_at) VALUES ($1, $2, $3, $4)",
		entry.Expression, entry.Outcome, entry.Valid, at)
	return describePQError(err)
}

func (s *PostgresHistoryStore) Close() error {
	return s.db.Close()
}
