package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"resto/internal/events"
	"resto/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	repo := new(mockRepo)
	bus := new(mockEventBus)
	svc := NewOrderService(repo, bus, &logger)

	repo.On("GetTable", ctx, int64(4)).Return(&models.Table{ID: 4, IsActive: true}, nil).Once()
	repo.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()
	bus.On("PublishJSON", events.EventOrderCreated, mock.Anything).Return(nil).Once()

	order, err := svc.CreateOrder(ctx, 4, "w-17", "allergy: nuts")
	require.NoError(t, err)
	assert.Equal(t, int64(4), order.TableID)
	assert.Equal(t, models.OrderNew, order.Status)
	assert.Equal(t, "w-17", order.WaiterID)
	assert.Nil(t, order.ClosedTime)
	repo.AssertExpectations(t)
}

func TestOrderService_AddItem(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	dish := &models.Dish{ID: 2, Name: "Margherita Pizza", Price: 15.99, IsAvailable: true}

	t.Run("snapshots the dish price onto the line", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		open := &models.Order{ID: 1, Status: models.OrderNew, Version: 1}
		withItem := &models.Order{
			ID: 1, Status: models.OrderNew, Version: 1,
			Items: []*models.OrderItem{{ID: 10, DishID: 2, Quantity: 2, UnitPrice: 15.99, Status: models.OrderNew, Dish: dish}},
		}

		repo.On("GetOrder", ctx, int64(1)).Return(open, nil).Once()
		repo.On("GetDish", ctx, int64(2)).Return(dish, nil).Once()
		repo.On("AddOrderItem", ctx, mock.Anything).Return(nil).Once()
		repo.On("GetOrder", ctx, int64(1)).Return(withItem, nil).Once()

		item := &models.OrderItem{DishID: 2, Quantity: 2}
		got, err := svc.AddItem(ctx, 1, item)
		require.NoError(t, err)
		assert.Equal(t, 15.99, item.UnitPrice)
		assert.Equal(t, models.OrderNew, item.Status)
		assert.InDelta(t, 31.98, got.TotalAmount(), 0.001)
		repo.AssertExpectations(t)
	})

	t.Run("rejects items on a closed order", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		closedAt := time.Now()
		closed := &models.Order{ID: 1, Status: models.OrderPaid, ClosedTime: &closedAt}
		repo.On("GetOrder", ctx, int64(1)).Return(closed, nil).Once()

		_, err := svc.AddItem(ctx, 1, &models.OrderItem{DishID: 2, Quantity: 1})
		assert.ErrorIs(t, err, ErrOrderClosed)
	})

	t.Run("rejects quantity outside 1..100", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		open := &models.Order{ID: 1, Status: models.OrderNew}
		repo.On("GetOrder", ctx, int64(1)).Return(open, nil).Twice()

		_, err := svc.AddItem(ctx, 1, &models.OrderItem{DishID: 2, Quantity: 0})
		var verrs models.ValidationErrors
		require.True(t, errors.As(err, &verrs))

		_, err = svc.AddItem(ctx, 1, &models.OrderItem{DishID: 2, Quantity: 101})
		require.True(t, errors.As(err, &verrs))
		repo.AssertNotCalled(t, "AddOrderItem", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unavailable dish", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		open := &models.Order{ID: 1, Status: models.OrderNew}
		off := &models.Dish{ID: 3, Name: "Tiramisu", Price: 8.99, IsAvailable: false}
		repo.On("GetOrder", ctx, int64(1)).Return(open, nil).Once()
		repo.On("GetDish", ctx, int64(3)).Return(off, nil).Once()

		_, err := svc.AddItem(ctx, 1, &models.OrderItem{DishID: 3, Quantity: 1})
		assert.ErrorIs(t, err, ErrDishUnavailable)
	})
}

func TestOrderService_ChangeItemStatus(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("re-derives the order status from the items", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := NewOrderService(repo, bus, &logger)

		before := &models.Order{
			ID: 1, Status: models.OrderNew, Version: 2,
			Items: []*models.OrderItem{{ID: 10, Status: models.OrderNew}},
		}
		after := &models.Order{
			ID: 1, Status: models.OrderNew, Version: 2,
			Items: []*models.OrderItem{{ID: 10, Status: models.OrderInProgress}},
		}

		repo.On("GetOrder", ctx, int64(1)).Return(before, nil).Once()
		repo.On("UpdateOrderItemStatus", ctx, int64(10), models.OrderInProgress).Return(nil).Once()
		bus.On("PublishJSON", events.EventOrderItemStatus, mock.Anything).Return(nil).Once()
		repo.On("GetOrder", ctx, int64(1)).Return(after, nil).Once()
		repo.On("UpdateOrderStatus", ctx, int64(1), int64(2), models.OrderInProgress).Return(nil).Once()

		got, err := svc.ChangeItemStatus(ctx, 1, 10, models.OrderInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.OrderInProgress, got.Status)
		assert.Equal(t, int64(3), got.Version)
		repo.AssertExpectations(t)
	})

	t.Run("illegal item transition leaves everything untouched", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		order := &models.Order{
			ID: 1, Status: models.OrderServed, Version: 2,
			Items: []*models.OrderItem{{ID: 10, Status: models.OrderServed}},
		}
		repo.On("GetOrder", ctx, int64(1)).Return(order, nil).Once()

		_, err := svc.ChangeItemStatus(ctx, 1, 10, models.OrderNew)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		repo.AssertNotCalled(t, "UpdateOrderItemStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown item id", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		order := &models.Order{ID: 1, Status: models.OrderNew, Items: []*models.OrderItem{{ID: 10, Status: models.OrderNew}}}
		repo.On("GetOrder", ctx, int64(1)).Return(order, nil).Once()

		_, err := svc.ChangeItemStatus(ctx, 1, 99, models.OrderInProgress)
		assert.Error(t, err)
	})
}

func TestOrderService_CloseOrder(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("settles a fully served order", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := NewOrderService(repo, bus, &logger)

		served := &models.Order{
			ID: 1, Status: models.OrderServed, Version: 4,
			Items: []*models.OrderItem{{ID: 10, Quantity: 1, UnitPrice: 12.99, Status: models.OrderServed}},
		}
		closedAt := time.Now()
		paid := &models.Order{
			ID: 1, Status: models.OrderPaid, Version: 5, ClosedTime: &closedAt,
			Items: served.Items,
		}

		repo.On("GetOrder", ctx, int64(1)).Return(served, nil).Once()
		repo.On("CloseOrder", ctx, int64(1), int64(4), mock.Anything).Return(nil).Once()
		bus.On("PublishJSON", events.EventOrderClosed, mock.Anything).Return(nil).Once()
		repo.On("GetOrder", ctx, int64(1)).Return(paid, nil).Once()

		got, err := svc.CloseOrder(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPaid, got.Status)
		require.NotNil(t, got.ClosedTime)
		repo.AssertExpectations(t)
	})

	t.Run("refuses an order that is not fully served", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		inProgress := &models.Order{
			ID: 1, Status: models.OrderInProgress, Version: 1,
			Items: []*models.OrderItem{{ID: 10, Status: models.OrderInProgress}},
		}
		repo.On("GetOrder", ctx, int64(1)).Return(inProgress, nil).Once()

		_, err := svc.CloseOrder(ctx, 1, 1)
		assert.ErrorIs(t, err, models.ErrOrderNotClosable)
		repo.AssertNotCalled(t, "CloseOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale version bubbles up", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewOrderService(repo, nil, &logger)

		served := &models.Order{
			ID: 1, Status: models.OrderServed, Version: 2,
			Items: []*models.OrderItem{{ID: 10, Status: models.OrderServed}},
		}
		wantErr := errors.New("concurrent modification detected")
		repo.On("GetOrder", ctx, int64(1)).Return(served, nil).Once()
		repo.On("CloseOrder", ctx, int64(1), int64(2), mock.Anything).Return(wantErr).Once()

		_, err := svc.CloseOrder(ctx, 1, 2)
		assert.ErrorIs(t, err, wantErr)
	})
}
