package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto/internal/models"
)

const orderColumns = `id, table_id, waiter_id, created_time, closed_time,
                 status, special_instructions, created_at, updated_at, version`

func (db *DB) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `INSERT INTO orders (
				table_id, waiter_id, created_time, closed_time, status,
				special_instructions, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		o.TableID,
		o.WaiterID,
		o.CreatedTime,
		o.ClosedTime,
		o.Status,
		o.SpecialInstructions,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	o.ID = id
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Version = 1
	return nil
}

// GetOrder loads the order with its items and each item's dish.
func (db *DB) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	o, err := db.scanOrder(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := db.loadOrderItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (db *DB) GetActiveOrders(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders WHERE status NOT IN (?, ?) ORDER BY created_time DESC`
	return db.queryOrders(ctx, true, query, models.OrderPaid, models.OrderCancelled)
}

func (db *DB) GetOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders WHERE table_id = ? ORDER BY created_time DESC`
	return db.queryOrders(ctx, true, query, tableID)
}

func (db *DB) getOpenOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders WHERE table_id = ? AND status NOT IN (?, ?) ORDER BY created_time DESC`
	return db.queryOrders(ctx, false, query, tableID, models.OrderPaid, models.OrderCancelled)
}

func (db *DB) GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders WHERE date(created_time) >= date(?) AND date(created_time) <= date(?)
              ORDER BY created_time DESC`
	return db.queryOrders(ctx, true, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (db *DB) AddOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `INSERT INTO order_items (
				order_id, dish_id, quantity, unit_price, status,
				special_instructions, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		item.OrderID,
		item.DishID,
		item.Quantity,
		item.UnitPrice,
		item.Status,
		item.SpecialInstructions,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to add order item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) UpdateOrderItemStatus(ctx context.Context, itemID int64, status models.OrderStatus) error {
	query := `UPDATE order_items SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), itemID)
	if err != nil {
		return fmt.Errorf("failed to update order item status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

func (db *DB) UpdateOrderStatus(ctx context.Context, id, version int64, status models.OrderStatus) error {
	query := `UPDATE orders SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order %d: %w", id, ErrConcurrentModification)
	}
	return nil
}

func (db *DB) CloseOrder(ctx context.Context, id, version int64, closedTime time.Time) error {
	query := `UPDATE orders SET status = ?, closed_time = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, models.OrderPaid, closedTime, time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("failed to close order: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order %d: %w", id, ErrConcurrentModification)
	}
	return nil
}

func (db *DB) queryOrders(ctx context.Context, withItems bool, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := db.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		for _, o := range orders {
			if err := db.loadOrderItems(ctx, o); err != nil {
				return nil, err
			}
		}
	}
	return orders, nil
}

func (db *DB) scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	var waiterID, instructions sql.NullString
	var closedTime sql.NullTime
	err := row.Scan(
		&o.ID, &o.TableID, &waiterID, &o.CreatedTime, &closedTime,
		&o.Status, &instructions, &o.CreatedAt, &o.UpdatedAt, &o.Version,
	)
	if err != nil {
		return nil, err
	}
	o.WaiterID = waiterID.String
	o.SpecialInstructions = instructions.String
	if closedTime.Valid {
		t := closedTime.Time
		o.ClosedTime = &t
	}
	return &o, nil
}

func (db *DB) loadOrderItems(ctx context.Context, o *models.Order) error {
	query := `SELECT i.id, i.order_id, i.dish_id, i.quantity, i.unit_price, i.status,
	                 i.special_instructions, i.created_at, i.updated_at,
	                 d.id, d.name, d.description, d.price, d.category,
	                 d.cooking_time_minutes, d.is_available, d.tags, d.created_at, d.updated_at
              FROM order_items i
              JOIN dishes d ON d.id = i.dish_id
              WHERE i.order_id = ?
              ORDER BY i.id`
	rows, err := db.QueryContext(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	o.Items = nil
	for rows.Next() {
		item := &models.OrderItem{Dish: &models.Dish{}}
		var itemInstructions, description, tags sql.NullString
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.DishID, &item.Quantity, &item.UnitPrice, &item.Status,
			&itemInstructions, &item.CreatedAt, &item.UpdatedAt,
			&item.Dish.ID, &item.Dish.Name, &description, &item.Dish.Price, &item.Dish.Category,
			&item.Dish.CookingTimeMinutes, &item.Dish.IsAvailable, &tags,
			&item.Dish.CreatedAt, &item.Dish.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		item.SpecialInstructions = itemInstructions.String
		item.Dish.Description = description.String
		item.Dish.Tags = tags.String
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
