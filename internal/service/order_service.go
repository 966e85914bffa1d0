package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resto/internal/domain"
	"resto/internal/events"
	"resto/internal/metrics"
	"resto/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrDishUnavailable = errors.New("dish is not available")
	ErrOrderClosed     = errors.New("order is already closed")
)

const (
	minItemQuantity = 1
	maxItemQuantity = 100
)

type OrderService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewOrderService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, tableID int64, waiterID, instructions string) (*models.Order, error) {
	if _, err := s.repo.GetTable(ctx, tableID); err != nil {
		return nil, err
	}

	order := &models.Order{
		TableID:             tableID,
		WaiterID:            waiterID,
		SpecialInstructions: instructions,
		Status:              models.OrderNew,
		CreatedTime:         time.Now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publishOrderEvent(events.EventOrderCreated, order)
	return order, nil
}

// AddItem appends a line to an open order and re-derives the order status.
// The item's price is snapshotted from the dish at the time of adding.
func (s *OrderService) AddItem(ctx context.Context, orderID int64, item *models.OrderItem) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClosedTime != nil {
		return nil, ErrOrderClosed
	}

	if item.Quantity < minItemQuantity || item.Quantity > maxItemQuantity {
		return nil, models.ValidationErrors{{
			Fields:  []string{"quantity"},
			Message: fmt.Sprintf("quantity must be between %d and %d", minItemQuantity, maxItemQuantity),
		}}
	}

	dish, err := s.repo.GetDish(ctx, item.DishID)
	if err != nil {
		return nil, err
	}
	if !dish.IsAvailable {
		return nil, ErrDishUnavailable
	}

	item.OrderID = orderID
	item.Dish = dish
	item.UnitPrice = dish.Price
	if item.Status == "" {
		item.Status = models.OrderNew
	}
	if err := s.repo.AddOrderItem(ctx, item); err != nil {
		return nil, err
	}

	return s.refreshOrderStatus(ctx, orderID)
}

// ChangeItemStatus applies the item transition rules, then re-derives and
// persists the parent order's status from all of its items.
func (s *OrderService) ChangeItemStatus(ctx context.Context, orderID, itemID int64, status models.OrderStatus) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClosedTime != nil {
		return nil, ErrOrderClosed
	}

	var item *models.OrderItem
	for _, it := range order.Items {
		if it.ID == itemID {
			item = it
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("order %d has no item %d", orderID, itemID)
	}

	if err := item.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrderItemStatus(ctx, itemID, status); err != nil {
		return nil, err
	}

	s.publishItemEvent(order, item)
	return s.refreshOrderStatus(ctx, orderID)
}

// CloseOrder settles a fully served order. The status check and the version
// guard both have to pass; a stale version surfaces as a concurrent
// modification error from the repository.
func (s *OrderService) CloseOrder(ctx context.Context, orderID, version int64) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := order.Close(now); err != nil {
		return nil, err
	}
	if err := s.repo.CloseOrder(ctx, orderID, version, now); err != nil {
		return nil, err
	}

	total := order.TotalAmount()
	metrics.ObserveOrderClosed(total)
	s.publishOrderEvent(events.EventOrderClosed, order)
	s.logger.Info().Int64("order_id", orderID).Float64("total", total).Msg("order closed")

	return s.repo.GetOrder(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) GetActiveOrders(ctx context.Context) ([]*models.Order, error) {
	return s.repo.GetActiveOrders(ctx)
}

func (s *OrderService) GetOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error) {
	return s.repo.GetOrdersByTable(ctx, tableID)
}

// refreshOrderStatus reloads the order, derives its status from the items
// and persists the derived value if it changed.
func (s *OrderService) refreshOrderStatus(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.UpdateStatus()
	if order.Status != previous {
		if err := s.repo.UpdateOrderStatus(ctx, order.ID, order.Version, order.Status); err != nil {
			return nil, err
		}
		order.Version++
	}
	return order, nil
}

func (s *OrderService) publishOrderEvent(eventType string, order *models.Order) {
	if s.eventBus == nil {
		return
	}

	payload := events.OrderEventPayload{
		OrderID:     order.ID,
		TableID:     order.TableID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount(),
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("order_id", order.ID).Msg("publish event error")
	}
}

func (s *OrderService) publishItemEvent(order *models.Order, item *models.OrderItem) {
	if s.eventBus == nil {
		return
	}

	payload := events.OrderEventPayload{
		OrderID:    order.ID,
		TableID:    order.TableID,
		Status:     string(order.Status),
		ItemID:     item.ID,
		ItemStatus: string(item.Status),
	}
	if err := s.eventBus.PublishJSON(events.EventOrderItemStatus, payload); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Int64("item_id", item.ID).Msg("publish event error")
	}
}
