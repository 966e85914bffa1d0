package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto/internal/models"
)

const reservationColumns = `id, table_id, client_name, client_phone, start_time,
                 end_time, status, comment, created_at, updated_at, version`

func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (
				table_id, client_name, client_phone, start_time, end_time,
				status, comment, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		r.TableID,
		r.ClientName,
		r.ClientPhone,
		r.StartTime,
		r.EndTime,
		r.Status,
		r.Comment,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1
	return nil
}

func (db *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := db.scanReservation(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

func (db *DB) GetReservationsByTable(ctx context.Context, tableID int64) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE table_id = ? ORDER BY start_time`
	return db.queryReservations(ctx, query, tableID)
}

func (db *DB) GetReservationsByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE date(start_time) = date(?) ORDER BY start_time`
	return db.queryReservations(ctx, query, date.Format("2006-01-02"))
}

func (db *DB) UpdateReservationStatus(ctx context.Context, id, version int64, status models.ReservationStatus) error {
	query := `UPDATE reservations SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrConcurrentModification)
	}
	return nil
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...interface{}) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		r, err := db.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (db *DB) scanReservation(row scanner) (*models.Reservation, error) {
	var r models.Reservation
	var comment sql.NullString
	err := row.Scan(
		&r.ID, &r.TableID, &r.ClientName, &r.ClientPhone, &r.StartTime,
		&r.EndTime, &r.Status, &comment, &r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if err != nil {
		return nil, err
	}
	r.Comment = comment.String
	return &r, nil
}
