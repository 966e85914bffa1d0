package service

import (
	"context"
	"fmt"
	"time"

	"resto/internal/domain"
	"resto/internal/events"
	"resto/internal/metrics"
	"resto/internal/models"

	"github.com/rs/zerolog"
)

// ErrReservationConflict wraps the conflicting reservations found while
// creating a new one.
type ErrReservationConflict struct {
	Conflicts []*models.Reservation
}

func (e *ErrReservationConflict) Error() string {
	return fmt.Sprintf("table already reserved: %d conflicting reservation(s)", len(e.Conflicts))
}

type ReservationService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReservationService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateReservation validates the candidate, scans the table's existing
// reservations for overlaps and persists it as pending. Validation rules
// are checked only here, at creation.
func (s *ReservationService) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if errs := r.Validate(time.Now()); len(errs) > 0 {
		return errs
	}

	if _, err := s.repo.GetTable(ctx, r.TableID); err != nil {
		return err
	}

	existing, err := s.repo.GetReservationsByTable(ctx, r.TableID)
	if err != nil {
		return err
	}

	conflicts := models.FindConflicts(r.TableID, r.StartTime, r.EndTime, existing)
	if len(conflicts) > 0 {
		metrics.IncReservationConflicts()
		return &ErrReservationConflict{Conflicts: conflicts}
	}

	if r.Status == "" {
		r.Status = models.ReservationPending
	}
	if err := s.repo.CreateReservation(ctx, r); err != nil {
		return err
	}

	metrics.IncReservationsCreated()
	s.publishEvent(events.EventReservationCreated, r)
	return nil
}

// FindConflicts lists live reservations on the table overlapping the
// half-open window [start, end).
func (s *ReservationService) FindConflicts(ctx context.Context, tableID int64, start, end time.Time) ([]*models.Reservation, error) {
	existing, err := s.repo.GetReservationsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return models.FindConflicts(tableID, start, end, existing), nil
}

func (s *ReservationService) ConfirmReservation(ctx context.Context, id, version int64) error {
	return s.transition(ctx, id, version, models.ReservationConfirmed, events.EventReservationConfirmed)
}

func (s *ReservationService) CheckInReservation(ctx context.Context, id, version int64) error {
	return s.transition(ctx, id, version, models.ReservationCheckedIn, "")
}

func (s *ReservationService) CompleteReservation(ctx context.Context, id, version int64) error {
	return s.transition(ctx, id, version, models.ReservationCompleted, "")
}

// CancelReservation flips the status; the row is never deleted.
func (s *ReservationService) CancelReservation(ctx context.Context, id, version int64) error {
	return s.transition(ctx, id, version, models.ReservationCancelled, events.EventReservationCancelled)
}

func (s *ReservationService) MarkNoShow(ctx context.Context, id, version int64) error {
	return s.transition(ctx, id, version, models.ReservationNoShow, events.EventReservationNoShow)
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

func (s *ReservationService) GetReservationsByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	return s.repo.GetReservationsByDate(ctx, date)
}

func (s *ReservationService) GetReservationsByTable(ctx context.Context, tableID int64) ([]*models.Reservation, error) {
	return s.repo.GetReservationsByTable(ctx, tableID)
}

func (s *ReservationService) transition(ctx context.Context, id, version int64, status models.ReservationStatus, eventType string) error {
	if err := s.repo.UpdateReservationStatus(ctx, id, version, status); err != nil {
		return err
	}

	if eventType != "" {
		if r, err := s.repo.GetReservation(ctx, id); err == nil {
			s.publishEvent(eventType, r)
		}
	}
	return nil
}

func (s *ReservationService) publishEvent(eventType string, r *models.Reservation) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		TableID:       r.TableID,
		ClientName:    r.ClientName,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("reservation_id", r.ID).Msg("publish event error")
	}
}
