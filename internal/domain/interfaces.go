package domain

import (
	"context"
	"time"

	"resto/internal/models"
)

// Repository is the persistence surface the services work against. The
// domain logic itself never touches storage; it operates on entity graphs
// the repository loads.
type Repository interface {
	// Tables
	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	ListTables(ctx context.Context) ([]*models.Table, error)
	SetTableActive(ctx context.Context, id int64, active bool) error
	// LoadTableState returns the table with its reservations and its
	// non-settled orders attached, ready for availability computation.
	LoadTableState(ctx context.Context, id int64) (*models.Table, error)

	// Reservations
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	GetReservationsByTable(ctx context.Context, tableID int64) ([]*models.Reservation, error)
	GetReservationsByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id, version int64, status models.ReservationStatus) error

	// Orders
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetActiveOrders(ctx context.Context) ([]*models.Order, error)
	GetOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error)
	GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error)
	AddOrderItem(ctx context.Context, item *models.OrderItem) error
	UpdateOrderItemStatus(ctx context.Context, itemID int64, status models.OrderStatus) error
	UpdateOrderStatus(ctx context.Context, id, version int64, status models.OrderStatus) error
	CloseOrder(ctx context.Context, id, version int64, closedTime time.Time) error

	// Dishes
	CreateDish(ctx context.Context, d *models.Dish) error
	GetDish(ctx context.Context, id int64) (*models.Dish, error)
	ListDishes(ctx context.Context, onlyAvailable bool) ([]*models.Dish, error)
	UpdateDish(ctx context.Context, d *models.Dish) error
	SetDishAvailability(ctx context.Context, id int64, available bool) error

	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error
}

// SessionRepository stores login sessions keyed by token.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher pushes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TableService interface {
	IsAvailable(ctx context.Context, tableID int64, at time.Time) (bool, error)
	CurrentStatus(ctx context.Context, tableID int64, at time.Time) (models.TableStatus, error)
	FloorStatus(ctx context.Context, at time.Time) ([]*TableState, error)
	ListTables(ctx context.Context) ([]*models.Table, error)
	CreateTable(ctx context.Context, table *models.Table) error
	SetTableActive(ctx context.Context, id int64, active bool) error
}

// TableState pairs a table with its derived status for floor views.
type TableState struct {
	Table     *models.Table      `json:"table"`
	Status    models.TableStatus `json:"status"`
	Available bool               `json:"available"`
}

type ReservationService interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	FindConflicts(ctx context.Context, tableID int64, start, end time.Time) ([]*models.Reservation, error)
	ConfirmReservation(ctx context.Context, id, version int64) error
	CheckInReservation(ctx context.Context, id, version int64) error
	CompleteReservation(ctx context.Context, id, version int64) error
	CancelReservation(ctx context.Context, id, version int64) error
	MarkNoShow(ctx context.Context, id, version int64) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	GetReservationsByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error)
	GetReservationsByTable(ctx context.Context, tableID int64) ([]*models.Reservation, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, tableID int64, waiterID, instructions string) (*models.Order, error)
	AddItem(ctx context.Context, orderID int64, item *models.OrderItem) (*models.Order, error)
	ChangeItemStatus(ctx context.Context, orderID, itemID int64, status models.OrderStatus) (*models.Order, error)
	CloseOrder(ctx context.Context, orderID, version int64) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetActiveOrders(ctx context.Context) ([]*models.Order, error)
	GetOrdersByTable(ctx context.Context, tableID int64) ([]*models.Order, error)
}

type MenuService interface {
	ListDishes(ctx context.Context, onlyAvailable bool) ([]*models.Dish, error)
	GetDish(ctx context.Context, id int64) (*models.Dish, error)
	CreateDish(ctx context.Context, d *models.Dish) error
	UpdateDish(ctx context.Context, d *models.Dish) error
	SetDishAvailability(ctx context.Context, id int64, available bool) error
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, user *models.User, password string) error
	SessionFromToken(ctx context.Context, token string) (*models.Session, error)
}

// DashboardStats is the analytics snapshot rendered by the dashboard.
type DashboardStats struct {
	TotalTables       int     `json:"total_tables"`
	ActiveTables      int     `json:"active_tables"`
	OccupiedTables    int     `json:"occupied_tables"`
	TodayReservations int     `json:"today_reservations"`
	ActiveOrders      int     `json:"active_orders"`
	TodayRevenue      float64 `json:"today_revenue"`
	TotalDishes       int     `json:"total_dishes"`
	AvailableDishes   int     `json:"available_dishes"`
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error)
}
