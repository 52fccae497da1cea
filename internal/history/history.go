// Package history mirrors the last successfully fetched booking
// collection into a local sqlite file, so dashboards and exports keep
// working while the backend is unreachable. The mirror is a disposable
// copy; the backend stays the source of truth.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wayfare/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS bookings (
        owner_id INTEGER NOT NULL,
        kind TEXT NOT NULL,
        booking_id INTEGER NOT NULL,
        subject_id INTEGER NOT NULL,
        start_date TEXT NOT NULL,
        end_date TEXT,
        quantity INTEGER NOT NULL,
        total_price REAL NOT NULL,
        status TEXT NOT NULL,
        fetched_at DATETIME NOT NULL,
        PRIMARY KEY (owner_id, kind, booking_id)
    )`
	_, err := db.Exec(query)
	return err
}

// ReplaceBookings swaps the owner's snapshot for the given collection
// in one transaction, preserving the collection's order.
func (s *Store) ReplaceBookings(ctx context.Context, ownerID int64, bookings []models.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bookings
        (owner_id, kind, booking_id, subject_id, start_date, end_date, quantity, total_price, status, fetched_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range bookings {
		if _, err := stmt.ExecContext(ctx, ownerID, b.Kind, b.ID, b.SubjectID,
			b.StartDate, b.EndDate, b.Quantity, b.TotalPrice, b.Status, now); err != nil {
			return fmt.Errorf("failed to insert booking %d: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// Bookings returns the owner's snapshot in its stored order.
func (s *Store) Bookings(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, booking_id, subject_id, start_date, end_date, quantity, total_price, status
        FROM bookings WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.Kind, &b.ID, &b.SubjectID, &b.StartDate, &b.EndDate,
			&b.Quantity, &b.TotalPrice, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// FetchedAt returns when the owner's snapshot was last replaced.
func (s *Store) FetchedAt(ctx context.Context, ownerID int64) (time.Time, error) {
	var fetched time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM bookings WHERE owner_id = ? LIMIT 1`, ownerID).Scan(&fetched)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query snapshot age: %w", err)
	}
	return fetched, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
