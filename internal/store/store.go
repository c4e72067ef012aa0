// Package store handles the SQLite snapshot of the daily record set.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/bikedash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for daily records.
type Store struct {
	db *sql.DB
}

// IsDatabasePath reports whether path names a SQLite snapshot rather than a CSV file.
func IsDatabasePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_records (
			dteday TEXT PRIMARY KEY,
			cnt INTEGER NOT NULL,
			casual INTEGER NOT NULL,
			registered INTEGER NOT NULL,
			hum REAL NOT NULL,
			season INTEGER NOT NULL,
			yr INTEGER NOT NULL,
			day_type TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceRecords swaps the stored records for recs in one transaction.
// progress, when non-nil, is called after each inserted row.
func (s *Store) ReplaceRecords(ctx context.Context, recs []model.DailyRecord, progress func()) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_records`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO daily_records (dteday, cnt, casual, registered, hum, season, yr, day_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range recs {
		if _, err = stmt.ExecContext(ctx,
			rec.Date.Format(model.DateLayout),
			rec.Total,
			rec.Casual,
			rec.Registered,
			rec.Humidity,
			rec.Season,
			rec.Year,
			rec.DayType,
		); err != nil {
			return err
		}
		if progress != nil {
			progress()
		}
	}
	return tx.Commit()
}

// ListRecords returns every stored record ordered by date.
func (s *Store) ListRecords(ctx context.Context) ([]model.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dteday, cnt, casual, registered, hum, season, yr, day_type
		FROM daily_records
		ORDER BY dteday ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DailyRecord
	for rows.Next() {
		var rec model.DailyRecord
		var date string
		if err := rows.Scan(&date, &rec.Total, &rec.Casual, &rec.Registered, &rec.Humidity, &rec.Season, &rec.Year, &rec.DayType); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, err
		}
		rec.Date = parsed
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
