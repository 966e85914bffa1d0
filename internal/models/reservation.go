package models

import "time"

// Business rules enforced at reservation creation. They are checked once,
// when the reservation is created, and never re-validated afterwards.
const (
	OpeningHour = 9
	ClosingHour = 23

	MinReservationDuration = 30 * time.Minute
	MaxReservationDuration = 4 * time.Hour
)

type Reservation struct {
	ID          int64             `json:"id"`
	TableID     int64             `json:"table_id"`
	ClientName  string            `json:"client_name"`
	ClientPhone string            `json:"client_phone"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      ReservationStatus `json:"status"`
	Comment     string            `json:"comment"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int64             `json:"version"`
}

// Terminated reports whether the reservation no longer claims its table.
func (r *Reservation) Terminated() bool {
	return r.Status == ReservationCancelled || r.Status == ReservationNoShow
}

// Validate checks the creation-time business rules against the clock value
// now. All violated rules are reported, not just the first one.
func (r *Reservation) Validate(now time.Time) ValidationErrors {
	var errs ValidationErrors

	if !r.EndTime.After(r.StartTime) {
		errs = append(errs, ValidationError{
			Fields:  []string{"end_time"},
			Message: "end time must be after start time",
		})
	}

	duration := r.EndTime.Sub(r.StartTime)
	if duration < MinReservationDuration {
		errs = append(errs, ValidationError{
			Fields:  []string{"end_time"},
			Message: "reservation must be at least 30 minutes long",
		})
	}
	if duration > MaxReservationDuration {
		errs = append(errs, ValidationError{
			Fields:  []string{"end_time"},
			Message: "reservation cannot be longer than 4 hours",
		})
	}

	if r.StartTime.Hour() < OpeningHour || r.EndTime.Hour() >= ClosingHour {
		errs = append(errs, ValidationError{
			Fields:  []string{"start_time", "end_time"},
			Message: "reservations are only allowed between 9:00 and 23:00",
		})
	}

	if r.StartTime.Before(now) {
		errs = append(errs, ValidationError{
			Fields:  []string{"start_time"},
			Message: "cannot create reservations in the past",
		})
	}

	return errs
}

// ConflictsWith reports whether two reservations claim the same table at
// the same time. It deliberately treats the time ranges as closed
// intervals (aStart <= bEnd && aEnd >= bStart), so back-to-back
// reservations sharing an exact boundary instant count as a conflict.
// FindConflicts uses the half-open form instead; the disagreement at the
// boundary is inherited behavior and must not be unified silently.
func (r *Reservation) ConflictsWith(other *Reservation) bool {
	if other == nil || other.TableID != r.TableID {
		return false
	}
	if other.Terminated() {
		return false
	}
	return !r.StartTime.After(other.EndTime) && !r.EndTime.Before(other.StartTime)
}

// FindConflicts filters reservations down to those on the given table that
// overlap [startTime, endTime) and are still live. Unlike ConflictsWith
// this uses the half-open Overlaps predicate, so a reservation ending
// exactly when the candidate starts is not reported.
func FindConflicts(tableID int64, startTime, endTime time.Time, reservations []*Reservation) []*Reservation {
	var conflicts []*Reservation
	for _, r := range reservations {
		if r.TableID != tableID || r.Terminated() {
			continue
		}
		if Overlaps(startTime, endTime, r.StartTime, r.EndTime) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}
