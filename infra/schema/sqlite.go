// Package schema provides capability introspection against a live SQL
// database.
package schema

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteIntrospector reports the columns of a relation using PRAGMA
// table_info. Errors from introspection are surfaced to the capability
// gate, which maps them to "not capable".
type SQLiteIntrospector struct {
	db *sql.DB
}

// NewSQLiteIntrospector opens the database at path.
func NewSQLiteIntrospector(path string) (*SQLiteIntrospector, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteIntrospector{db: db}, nil
}

// NewSQLiteIntrospectorFromDB wraps an existing handle. The caller keeps
// ownership of the handle.
func NewSQLiteIntrospectorFromDB(db *sql.DB) (*SQLiteIntrospector, error) {
	if db == nil {
		return nil, fmt.Errorf("schema: nil db handle")
	}
	return &SQLiteIntrospector{db: db}, nil
}

// Columns returns the column names of the relation. A missing relation
// yields an empty slice, not an error; the gate then reports the required
// columns as unsupported.
func (s *SQLiteIntrospector) Columns(ctx context.Context, relation string) ([]string, error) {
	if !validIdentifier(relation) {
		return nil, fmt.Errorf("schema: invalid relation name %q", relation)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, relation))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

// Close closes the underlying database.
func (s *SQLiteIntrospector) Close() error { return s.db.Close() }

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
