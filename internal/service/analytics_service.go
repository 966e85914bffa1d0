package service

import (
	"context"
	"time"

	"resto/internal/domain"
	"resto/internal/models"

	"github.com/rs/zerolog"
)

// AnalyticsService aggregates the dashboard snapshot. Everything is
// computed on demand from the repository; nothing is cached.
type AnalyticsService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewAnalyticsService(repo domain.Repository, logger *zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

func (s *AnalyticsService) Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalTables = len(tables)
	for _, t := range tables {
		if t.IsActive {
			stats.ActiveTables++
		}
	}

	// Occupied means the derived status at this instant, not a stored flag.
	for _, t := range tables {
		loaded, err := s.repo.LoadTableState(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if loaded.CurrentStatus(now) == models.TableOccupied {
			stats.OccupiedTables++
		}
	}

	reservations, err := s.repo.GetReservationsByDate(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, r := range reservations {
		if !r.Terminated() {
			stats.TodayReservations++
		}
	}

	active, err := s.repo.GetActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveOrders = len(active)

	// Both bounds are calendar dates, inclusive, so today means today only.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	closed, err := s.repo.GetOrdersByDateRange(ctx, dayStart, dayStart)
	if err != nil {
		return nil, err
	}
	for _, o := range closed {
		if o.Status == models.OrderPaid {
			stats.TodayRevenue += o.TotalAmount()
		}
	}

	dishes, err := s.repo.ListDishes(ctx, false)
	if err != nil {
		return nil, err
	}
	stats.TotalDishes = len(dishes)
	for _, d := range dishes {
		if d.IsAvailable {
			stats.AvailableDishes++
		}
	}

	return stats, nil
}
