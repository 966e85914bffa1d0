package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"resto/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (username, password_hash, full_name, is_admin, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		u.Username, u.PasswordHash, u.FullName, u.IsAdmin, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %s: %w", u.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, full_name, is_admin, last_login, created_at, updated_at
              FROM users WHERE username = ?`
	var u models.User
	var fullName sql.NullString
	var lastLogin sql.NullTime
	err := db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &fullName, &u.IsAdmin,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.FullName = fullName.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func (db *DB) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, at, time.Now(), id)
	return err
}
