package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto/internal/models"
)

const dishColumns = `id, name, description, price, category, cooking_time_minutes,
                 is_available, tags, created_at, updated_at`

func (db *DB) CreateDish(ctx context.Context, d *models.Dish) error {
	query := `INSERT INTO dishes (
				name, description, price, category, cooking_time_minutes,
				is_available, tags, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		d.Name, d.Description, d.Price, d.Category, d.CookingTimeMinutes,
		d.IsAvailable, d.Tags, now, now)
	if err != nil {
		return fmt.Errorf("failed to create dish: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

func (db *DB) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = ?`
	d, err := db.scanDish(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dish %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return d, nil
}

func (db *DB) ListDishes(ctx context.Context, onlyAvailable bool) ([]*models.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes`
	if onlyAvailable {
		query += ` WHERE is_available = 1`
	}
	query += ` ORDER BY category, name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []*models.Dish
	for rows.Next() {
		d, err := db.scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (db *DB) UpdateDish(ctx context.Context, d *models.Dish) error {
	query := `UPDATE dishes SET name = ?, description = ?, price = ?, category = ?,
              cooking_time_minutes = ?, is_available = ?, tags = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		d.Name, d.Description, d.Price, d.Category, d.CookingTimeMinutes,
		d.IsAvailable, d.Tags, time.Now(), d.ID)
	if err != nil {
		return fmt.Errorf("failed to update dish: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dish %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

func (db *DB) SetDishAvailability(ctx context.Context, id int64, available bool) error {
	query := `UPDATE dishes SET is_available = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, available, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update dish availability: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dish %d: %w", id, ErrNotFound)
	}
	return nil
}

func (db *DB) scanDish(row scanner) (*models.Dish, error) {
	var d models.Dish
	var description, tags sql.NullString
	err := row.Scan(
		&d.ID, &d.Name, &description, &d.Price, &d.Category, &d.CookingTimeMinutes,
		&d.IsAvailable, &tags, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Description = description.String
	d.Tags = tags.String
	return &d, nil
}
