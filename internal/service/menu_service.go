package service

import (
	"context"

	"resto/internal/domain"
	"resto/internal/models"

	"github.com/rs/zerolog"
)

// MenuService manages the dish catalogue. Dishes are never deleted, only
// marked unavailable, so historical order lines keep their reference.
type MenuService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewMenuService(repo domain.Repository, logger *zerolog.Logger) *MenuService {
	return &MenuService{repo: repo, logger: logger}
}

func (s *MenuService) ListDishes(ctx context.Context, onlyAvailable bool) ([]*models.Dish, error) {
	return s.repo.ListDishes(ctx, onlyAvailable)
}

func (s *MenuService) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	return s.repo.GetDish(ctx, id)
}

func (s *MenuService) CreateDish(ctx context.Context, d *models.Dish) error {
	if errs := validateDish(d); len(errs) > 0 {
		return errs
	}
	if err := s.repo.CreateDish(ctx, d); err != nil {
		return err
	}
	s.logger.Info().Int64("dish_id", d.ID).Str("name", d.Name).Msg("dish created")
	return nil
}

func (s *MenuService) UpdateDish(ctx context.Context, d *models.Dish) error {
	if errs := validateDish(d); len(errs) > 0 {
		return errs
	}
	return s.repo.UpdateDish(ctx, d)
}

func (s *MenuService) SetDishAvailability(ctx context.Context, id int64, available bool) error {
	return s.repo.SetDishAvailability(ctx, id, available)
}

func validateDish(d *models.Dish) models.ValidationErrors {
	var errs models.ValidationErrors
	if d.Name == "" {
		errs = append(errs, models.ValidationError{
			Fields:  []string{"name"},
			Message: "name must not be empty",
		})
	}
	if d.Price <= 0 {
		errs = append(errs, models.ValidationError{
			Fields:  []string{"price"},
			Message: "price must be positive",
		})
	}
	if d.CookingTimeMinutes < 1 || d.CookingTimeMinutes > 180 {
		errs = append(errs, models.ValidationError{
			Fields:  []string{"cooking_time_minutes"},
			Message: "cooking time must be between 1 and 180 minutes",
		})
	}
	return errs
}
