package service

import (
	"context"
	"time"

	"resto/internal/domain"
	"resto/internal/models"

	"github.com/rs/zerolog"
)

// TableService answers availability and status questions. The answers are
// always computed from the table's current reservations and orders; no
// status is ever read back from storage.
type TableService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewTableService(repo domain.Repository, logger *zerolog.Logger) *TableService {
	return &TableService{repo: repo, logger: logger}
}

func (s *TableService) IsAvailable(ctx context.Context, tableID int64, at time.Time) (bool, error) {
	table, err := s.repo.LoadTableState(ctx, tableID)
	if err != nil {
		return false, err
	}
	return table.IsAvailable(at), nil
}

func (s *TableService) CurrentStatus(ctx context.Context, tableID int64, at time.Time) (models.TableStatus, error) {
	table, err := s.repo.LoadTableState(ctx, tableID)
	if err != nil {
		return "", err
	}
	return table.CurrentStatus(at), nil
}

// FloorStatus computes the state of every table at the given instant for
// the floor-plan view.
func (s *TableService) FloorStatus(ctx context.Context, at time.Time) ([]*domain.TableState, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]*domain.TableState, 0, len(tables))
	for _, t := range tables {
		loaded, err := s.repo.LoadTableState(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		states = append(states, &domain.TableState{
			Table:     loaded,
			Status:    loaded.CurrentStatus(at),
			Available: loaded.IsAvailable(at),
		})
	}
	return states, nil
}

func (s *TableService) ListTables(ctx context.Context) ([]*models.Table, error) {
	return s.repo.ListTables(ctx)
}

func (s *TableService) CreateTable(ctx context.Context, table *models.Table) error {
	if errs := validateTable(table); len(errs) > 0 {
		return errs
	}
	if err := s.repo.CreateTable(ctx, table); err != nil {
		return err
	}
	s.logger.Info().Int64("table_id", table.ID).Str("name", table.Name).Msg("table created")
	return nil
}

func (s *TableService) SetTableActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetTableActive(ctx, id, active)
}

func validateTable(t *models.Table) models.ValidationErrors {
	var errs models.ValidationErrors
	if t.Name == "" {
		errs = append(errs, models.ValidationError{
			Fields:  []string{"name"},
			Message: "name must not be empty",
		})
	}
	if t.SeatsCount < 1 || t.SeatsCount > 20 {
		errs = append(errs, models.ValidationError{
			Fields:  []string{"seats_count"},
			Message: "seats count must be between 1 and 20",
		})
	}
	return errs
}
