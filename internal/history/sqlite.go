package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps history in a SQLite table, one row per appended link.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) a SQLite database at dbPath and ensures the
// history table exists.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS history (
		link       TEXT NOT NULL,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Load returns every stored link in insertion order, one per line.
func (s *SQLiteBackend) Load(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT link FROM history ORDER BY rowid")
	if err != nil {
		return "", fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return "", fmt.Errorf("scanning history row: %w", err)
		}
		b.WriteString(link)
		b.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating history: %w", err)
	}
	return b.String(), nil
}

// Append inserts links in one transaction.
func (s *SQLiteBackend) Append(ctx context.Context, links []string) error {
	if len(links) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO history (link) VALUES (?)")
	if err != nil {
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range links {
		if _, err := stmt.ExecContext(ctx, link); err != nil {
			return fmt.Errorf("inserting %s: %w", link, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
