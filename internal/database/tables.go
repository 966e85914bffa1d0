package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto/internal/models"
)

func (db *DB) CreateTable(ctx context.Context, table *models.Table) error {
	query := `INSERT INTO tables (name, location, seats_count, is_active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		table.Name, table.Location, table.SeatsCount, table.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	table.ID = id
	table.CreatedAt = now
	table.UpdatedAt = now
	return nil
}

func (db *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT id, name, location, seats_count, is_active, created_at, updated_at
              FROM tables WHERE id = ?`
	var t models.Table
	err := db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Location, &t.SeatsCount, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return &t, nil
}

func (db *DB) ListTables(ctx context.Context) ([]*models.Table, error) {
	query := `SELECT id, name, location, seats_count, is_active, created_at, updated_at
              FROM tables ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		t := &models.Table{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.SeatsCount, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (db *DB) SetTableActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE tables SET is_active = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	return nil
}

// LoadTableState loads the table together with everything availability
// depends on: all its reservations and its orders that are not settled.
func (db *DB) LoadTableState(ctx context.Context, id int64) (*models.Table, error) {
	table, err := db.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	table.Reservations, err = db.GetReservationsByTable(ctx, id)
	if err != nil {
		return nil, err
	}

	table.Orders, err = db.getOpenOrdersByTable(ctx, id)
	if err != nil {
		return nil, err
	}

	return table, nil
}
