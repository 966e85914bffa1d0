package models

import (
	"fmt"
	"time"
)

type Order struct {
	ID                  int64       `json:"id"`
	TableID             int64       `json:"table_id"`
	WaiterID            string      `json:"waiter_id,omitempty"`
	CreatedTime         time.Time   `json:"created_time"`
	ClosedTime          *time.Time  `json:"closed_time,omitempty"`
	Status              OrderStatus `json:"status"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	Version             int64       `json:"version"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	Items []*OrderItem `json:"items,omitempty"`
}

// Active reports whether the order still occupies its table.
func (o *Order) Active() bool {
	return o.Status != OrderPaid && o.Status != OrderCancelled
}

// TotalAmount sums quantity * unit price over all items; 0 for an order
// without items.
func (o *Order) TotalAmount() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.TotalPrice()
	}
	return total
}

// EstimatedWaitingTime returns the longest remaining cooking time in
// minutes: the maximum dish cooking time among items that are neither
// served nor cancelled. An order with no items, or with every item
// served/cancelled, waits 0 minutes.
func (o *Order) EstimatedWaitingTime() int {
	maxCookingTime := 0
	for _, item := range o.Items {
		if item.Status == OrderServed || item.Status == OrderCancelled {
			continue
		}
		cookingTime := 0
		if item.Dish != nil {
			cookingTime = item.Dish.CookingTimeMinutes
		}
		if cookingTime > maxCookingTime {
			maxCookingTime = cookingTime
		}
	}
	return maxCookingTime
}

// DeriveStatus computes the order's aggregate status from its items, in
// this exact priority order: no items -> new; all served -> served; all
// cancelled -> cancelled; any in progress -> in_progress; otherwise new.
// An order whose items are partly ready and partly new with none in
// progress therefore reads as new (inherited policy, kept on purpose).
func (o *Order) DeriveStatus() OrderStatus {
	if len(o.Items) == 0 {
		return OrderNew
	}

	allServed := true
	allCancelled := true
	anyInProgress := false
	for _, item := range o.Items {
		if item.Status != OrderServed {
			allServed = false
		}
		if item.Status != OrderCancelled {
			allCancelled = false
		}
		if item.Status == OrderInProgress {
			anyInProgress = true
		}
	}

	switch {
	case allServed:
		return OrderServed
	case allCancelled:
		return OrderCancelled
	case anyInProgress:
		return OrderInProgress
	default:
		return OrderNew
	}
}

// UpdateStatus recomputes and applies the derived status. Called whenever
// the item set or an item status changes.
func (o *Order) UpdateStatus() {
	o.Status = o.DeriveStatus()
}

// CanClose reports whether the order may be closed out: every item served
// and not already closed.
func (o *Order) CanClose() bool {
	return o.Status == OrderServed && o.ClosedTime == nil
}

// Close settles the order at the given instant, marking it paid. Fails
// with ErrOrderNotClosable when the order is not fully served or is
// already closed; the order is left unmutated in that case.
func (o *Order) Close(now time.Time) error {
	if !o.CanClose() {
		return fmt.Errorf("%w: status %s", ErrOrderNotClosable, o.Status)
	}
	o.ClosedTime = &now
	o.Status = OrderPaid
	return nil
}
