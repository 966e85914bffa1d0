package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemCanChangeStatusTo(t *testing.T) {
	statuses := []OrderStatus{OrderNew, OrderInProgress, OrderReady, OrderServed, OrderCancelled}

	allowed := map[OrderStatus][]OrderStatus{
		OrderNew:        {OrderNew, OrderInProgress, OrderCancelled},
		OrderInProgress: {OrderInProgress, OrderReady, OrderCancelled},
		OrderReady:      {OrderReady, OrderServed},
		OrderServed:     {OrderServed},
		OrderCancelled:  {OrderCancelled},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			item := &OrderItem{Status: from}
			assert.Equal(t, want, item.CanChangeStatusTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderItemChangeStatus(t *testing.T) {
	t.Run("same status is an idempotent no-op", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderNew, OrderInProgress, OrderReady, OrderServed, OrderCancelled} {
			item := &OrderItem{Status: s}
			require.NoError(t, item.ChangeStatus(s))
			assert.Equal(t, s, item.Status)
		}
	})

	t.Run("walks the full happy path", func(t *testing.T) {
		item := &OrderItem{Status: OrderNew}
		for _, next := range []OrderStatus{OrderInProgress, OrderReady, OrderServed} {
			require.NoError(t, item.ChangeStatus(next))
			assert.Equal(t, next, item.Status)
		}
	})

	t.Run("skipping ahead fails and leaves item unchanged", func(t *testing.T) {
		item := &OrderItem{Status: OrderNew}
		err := item.ChangeStatus(OrderServed)
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Contains(t, err.Error(), "new -> served")
		assert.Equal(t, OrderNew, item.Status)
	})

	t.Run("cannot go back to new", func(t *testing.T) {
		item := &OrderItem{Status: OrderReady}
		require.ErrorIs(t, item.ChangeStatus(OrderNew), ErrInvalidTransition)
		assert.Equal(t, OrderReady, item.Status)
	})

	t.Run("cancel only before ready", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderNew, OrderInProgress} {
			item := &OrderItem{Status: s}
			assert.True(t, item.CanCancel())
			require.NoError(t, item.ChangeStatus(OrderCancelled))
		}
		for _, s := range []OrderStatus{OrderReady, OrderServed} {
			item := &OrderItem{Status: s}
			assert.False(t, item.CanCancel())
			require.ErrorIs(t, item.ChangeStatus(OrderCancelled), ErrInvalidTransition)
			assert.Equal(t, s, item.Status)
		}
	})
}

func TestOrderItemTotalPrice(t *testing.T) {
	item := &OrderItem{Quantity: 3, UnitPrice: 7.25}
	assert.InDelta(t, 21.75, item.TotalPrice(), 1e-9)
}
