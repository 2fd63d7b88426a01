// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flightcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// SQLiteStore persists the cache in a SQLite database. Row order follows
// insertion order so Find keeps returning the same first match.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS flight_cache (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		from_lat REAL NOT NULL,
		from_lon REAL NOT NULL,
		from_name TEXT,
		to_lat REAL NOT NULL,
		to_lon REAL NOT NULL,
		to_name TEXT,
		flight_price REAL NOT NULL
	)`)
	return err
}

// Load returns all rows in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.FlightCacheEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_lat, from_lon, from_name, to_lat, to_lon, to_name, flight_price
		 FROM flight_cache ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying flight cache: %w", err)
	}
	defer rows.Close()

	var entries []types.FlightCacheEntry
	for rows.Next() {
		var e types.FlightCacheEntry
		var fromName, toName sql.NullString
		if err := rows.Scan(&e.From.Lat, &e.From.Lon, &fromName,
			&e.To.Lat, &e.To.Lon, &toName, &e.FlightPrice); err != nil {
			return nil, fmt.Errorf("scanning flight cache row: %w", err)
		}
		e.From.Name = fromName.String
		e.To.Name = toName.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []types.FlightCacheEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_cache`); err != nil {
		return fmt.Errorf("clearing flight cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO flight_cache (from_lat, from_lon, from_name, to_lat, to_lon, to_name, flight_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.From.Lat, e.From.Lon, e.From.Name,
			e.To.Lat, e.To.Lon, e.To.Name, e.FlightPrice,
		); err != nil {
			return fmt.Errorf("inserting flight cache entry: %w", err)
		}
	}

	return tx.Commit()
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
