package models

import (
	"fmt"
	"time"
)

type OrderItem struct {
	ID                  int64       `json:"id"`
	OrderID             int64       `json:"order_id"`
	DishID              int64       `json:"dish_id"`
	Quantity            int         `json:"quantity"`
	UnitPrice           float64     `json:"unit_price"`
	Status              OrderStatus `json:"status"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	// Loaded by the repository for waiting-time estimates.
	Dish *Dish `json:"dish,omitempty"`
}

// TotalPrice is the line total for this item.
func (i *OrderItem) TotalPrice() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// CanCancel reports whether the item may still be cancelled. Once a dish
// is ready or served it cannot be taken back.
func (i *OrderItem) CanCancel() bool {
	return i.Status == OrderNew || i.Status == OrderInProgress
}

// CanChangeStatusTo reports whether the transition from the current status
// to newStatus is legal. Changing to the same status is always a no-op;
// the forward path is new -> in_progress -> ready -> served, and an item
// can never go back to new.
func (i *OrderItem) CanChangeStatusTo(newStatus OrderStatus) bool {
	if i.Status == newStatus {
		return true
	}

	switch newStatus {
	case OrderInProgress:
		return i.Status == OrderNew
	case OrderReady:
		return i.Status == OrderInProgress
	case OrderServed:
		return i.Status == OrderReady
	case OrderCancelled:
		return i.CanCancel()
	default:
		return false
	}
}

// ChangeStatus moves the item to newStatus, or fails with
// ErrInvalidTransition leaving the item untouched.
func (i *OrderItem) ChangeStatus(newStatus OrderStatus) error {
	if !i.CanChangeStatusTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, newStatus)
	}
	i.Status = newStatus
	return nil
}
