package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kwhalen/internwatch/internal/model"
)

// Ensure SQLiteStore implements model.SnapshotStore.
var _ model.SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the single latest record set in a SQLite table, one row
// per record with tab-joined fields. Save replaces the whole table in a
// transaction, so a failed run never leaves a partial snapshot behind.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the snapshot table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS snapshot (
		line_no INTEGER PRIMARY KEY,
		fields  TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the stored record set in line order, or model.ErrNoSnapshot
// when the table is empty.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT fields FROM snapshot ORDER BY line_no")
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		recs = append(recs, model.Record(strings.Split(fields, "\t")))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if len(recs) == 0 {
		return nil, model.ErrNoSnapshot
	}
	return recs, nil
}

// Save replaces the stored record set with the given one.
func (s *SQLiteStore) Save(ctx context.Context, recs []model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot"); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	for i, rec := range recs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO snapshot (line_no, fields) VALUES (?, ?)",
			i, strings.Join(rec, "\t"),
		)
		if err != nil {
			return fmt.Errorf("saving snapshot line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
