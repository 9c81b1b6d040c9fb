// Package database stores the manually recorded bookings and the apartment
// registry behind the availability API.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"adriastay/internal/dates"
	"adriastay/internal/models"
)

// DB wraps the sqlite connection.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingConflict   = errors.New("booking conflicts with an existing booking")
)

// NewDB opens the database and creates tables if they don't exist.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep concurrent readers out of each
	// other's way.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{DB: db, logger: logger}
	if err := d.createTables(); err != nil {
		return nil, err
	}
	return d, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS apartments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			max_guests INTEGER NOT NULL DEFAULT 2,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			apartment_id INTEGER NOT NULL,
			guest_name TEXT NOT NULL,
			phone TEXT,
			email TEXT,
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'confirmed',
			comment TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(apartment_id) REFERENCES apartments(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_apartments_active ON apartments(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_apartment ON bookings(apartment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// GetApartments returns all active apartments ordered by name.
func (db *DB) GetApartments(ctx context.Context) ([]models.Apartment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, max_guests, is_active, created_at, updated_at
		FROM apartments WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query apartments: %w", err)
	}
	defer rows.Close()

	var apartments []models.Apartment
	for rows.Next() {
		var a models.Apartment
		if err := rows.Scan(&a.ID, &a.Name, &a.MaxGuests, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		apartments = append(apartments, a)
	}
	return apartments, rows.Err()
}

// GetApartmentByName returns an apartment by its display name.
func (db *DB) GetApartmentByName(ctx context.Context, name string) (*models.Apartment, error) {
	var a models.Apartment
	err := db.QueryRowContext(ctx, `
		SELECT id, name, max_guests, is_active, created_at, updated_at
		FROM apartments WHERE name = ?`, name).
		Scan(&a.ID, &a.Name, &a.MaxGuests, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrApartmentNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query apartment: %w", err)
	}
	return &a, nil
}

// UpsertApartment inserts the apartment or reactivates/updates an existing
// row with the same name. Used at startup to sync the registry with the
// pricing configuration.
func (db *DB) UpsertApartment(ctx context.Context, name string, maxGuests int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO apartments (name, max_guests, is_active)
		VALUES (?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			max_guests = excluded.max_guests,
			is_active = 1,
			updated_at = CURRENT_TIMESTAMP`, name, maxGuests)
	if err != nil {
		return fmt.Errorf("upsert apartment %q: %w", name, err)
	}
	return nil
}

// GetBookingsByApartment returns the confirmed bookings for an apartment.
func (db *DB) GetBookingsByApartment(ctx context.Context, apartmentID int64) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, apartment_id, guest_name, COALESCE(phone, ''), COALESCE(email, ''),
		       start_date, end_date, status, COALESCE(comment, ''), created_at, updated_at
		FROM bookings
		WHERE apartment_id = ? AND status = 'confirmed'
		ORDER BY start_date`, apartmentID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.ApartmentID, &b.GuestName, &b.Phone, &b.Email,
			&b.StartDate, &b.EndDate, &b.Status, &b.Comment, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CreateBooking inserts a confirmed booking after checking it against the
// apartment's existing confirmed bookings inside one transaction.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	b.StartDate = dates.Normalize(b.StartDate)
	b.EndDate = dates.Normalize(b.EndDate)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Half-open overlap: existing.start < new.end AND new.start < existing.end.
	var conflicts int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE apartment_id = ? AND status = 'confirmed'
		  AND start_date < ? AND ? < end_date`,
		b.ApartmentID, b.EndDate, b.StartDate).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("check conflicts: %w", err)
	}
	if conflicts > 0 {
		return ErrBookingConflict
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (apartment_id, guest_name, phone, email, start_date, end_date, status, comment)
		VALUES (?, ?, ?, ?, ?, ?, 'confirmed', ?)`,
		b.ApartmentID, b.GuestName, b.Phone, b.Email, b.StartDate, b.EndDate, b.Comment)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	b.ID, _ = res.LastInsertId()
	b.Status = "confirmed"
	if db.logger != nil {
		db.logger.Info().
			Int64("booking_id", b.ID).
			Int64("apartment_id", b.ApartmentID).
			Msg("booking created")
	}
	return nil
}

// CancelBooking marks a booking as cancelled.
func (db *DB) CancelBooking(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE bookings SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status != 'cancelled'`, id)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// GetBookingsInRange returns confirmed bookings for all apartments that
// overlap [start, end). Used by the audit export.
func (db *DB) GetBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, apartment_id, guest_name, COALESCE(phone, ''), COALESCE(email, ''),
		       start_date, end_date, status, COALESCE(comment, ''), created_at, updated_at
		FROM bookings
		WHERE status = 'confirmed' AND start_date < ? AND ? < end_date
		ORDER BY apartment_id, start_date`,
		dates.Normalize(end), dates.Normalize(start))
	if err != nil {
		return nil, fmt.Errorf("query bookings in range: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.ApartmentID, &b.GuestName, &b.Phone, &b.Email,
			&b.StartDate, &b.EndDate, &b.Status, &b.Comment, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
