package opslog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists events to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS ops_events (
        id TEXT PRIMARY KEY,
        quote_id TEXT NOT NULL,
        event_type TEXT NOT NULL,
        ts INTEGER NOT NULL,
        record TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_ops_events_quote ON ops_events(quote_id, event_type);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an existing database handle. The caller keeps
// ownership of the handle; Close is then a no-op on it.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("opslog: nil db handle")
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the event to the database.
func (s *SQLiteStore) Append(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ops_events (id, quote_id, event_type, ts, record) VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.QuoteID, ev.Type, ev.CreatedAt.Unix(), string(b))
	return err
}

// Query returns events matching q in chronological order.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Event, error) {
	var args []any
	query := `SELECT record FROM ops_events WHERE 1=1`
	if q.QuoteID != "" {
		query += ` AND quote_id = ?`
		args = append(args, q.QuoteID)
	}
	if q.Type != "" {
		query += ` AND event_type = ?`
		args = append(args, q.Type)
	}
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.Unix())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.Unix())
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Event
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var ev Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		res = append(res, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Seen reports whether any event of the type exists for the quote.
func (s *SQLiteStore) Seen(ctx context.Context, quoteID, eventType string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM ops_events WHERE quote_id = ? AND event_type = ? LIMIT 1`,
		quoteID, eventType)
	var one int
	switch err := row.Scan(&one); err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
