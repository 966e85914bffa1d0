package service

import (
	"context"
	"time"

	"resto/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateTable(ctx context.Context, t *models.Table) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockRepo) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}
func (m *mockRepo) ListTables(ctx context.Context) ([]*models.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}
func (m *mockRepo) SetTableActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *mockRepo) LoadTableState(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}
func (m *mockRepo) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockRepo) GetReservationsByTable(ctx context.Context, tableID int64) ([]*models.Reservation, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) GetReservationsByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) UpdateReservationStatus(ctx context.Context, id, version int64, status models.ReservationStatus) error {
	return m.Called(ctx, id, version, status).Error(0)
}
func (m *mockRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockRepo) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *mockRepo) GetActiveOrders(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *mockRepo) GetOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *mockRepo) GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *mockRepo) AddOrderItem(ctx context.Context, item *models.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockRepo) UpdateOrderItemStatus(ctx context.Context, itemID int64, status models.OrderStatus) error {
	return m.Called(ctx, itemID, status).Error(0)
}
func (m *mockRepo) UpdateOrderStatus(ctx context.Context, id, version int64, status models.OrderStatus) error {
	return m.Called(ctx, id, version, status).Error(0)
}
func (m *mockRepo) CloseOrder(ctx context.Context, id, version int64, closedTime time.Time) error {
	return m.Called(ctx, id, version, closedTime).Error(0)
}
func (m *mockRepo) CreateDish(ctx context.Context, d *models.Dish) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockRepo) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dish), args.Error(1)
}
func (m *mockRepo) ListDishes(ctx context.Context, onlyAvailable bool) ([]*models.Dish, error) {
	args := m.Called(ctx, onlyAvailable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Dish), args.Error(1)
}
func (m *mockRepo) UpdateDish(ctx context.Context, d *models.Dish) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockRepo) SetDishAvailability(ctx context.Context, id int64, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}
func (m *mockRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *mockSessions) SetSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}
func (m *mockSessions) DeleteSession(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *mockSessions) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}
