package models

import "time"

type Table struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Location   TableLocation `json:"location"`
	SeatsCount int           `json:"seats_count"`
	IsActive   bool          `json:"is_active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Loaded by the repository when availability is computed.
	Reservations []*Reservation `json:"reservations,omitempty"`
	Orders       []*Order       `json:"orders,omitempty"`
}

// IsAvailable reports whether the table can seat a walk-in at the given
// instant. An inactive table is never available. Reservations block the
// table over the closed interval [StartTime, EndTime]; this is
// intentionally more inclusive than the half-open Overlaps predicate used
// for conflict scans.
func (t *Table) IsAvailable(at time.Time) bool {
	if !t.IsActive {
		return false
	}

	for _, r := range t.Reservations {
		if r.Terminated() {
			continue
		}
		if !at.Before(r.StartTime) && !at.After(r.EndTime) {
			return false
		}
	}

	for _, o := range t.Orders {
		if o.Status == OrderPaid || o.Status == OrderCancelled {
			continue
		}
		if at.Before(o.CreatedTime) {
			continue
		}
		if o.ClosedTime == nil || !at.After(*o.ClosedTime) {
			return false
		}
	}

	return true
}

// CurrentStatus derives the table's state at the given instant. An active
// order always outranks a reservation: a seated party with an open tab is
// a stronger claim on the table than a booking.
func (t *Table) CurrentStatus(at time.Time) TableStatus {
	if !t.IsActive {
		return TableOutOfService
	}

	for _, o := range t.Orders {
		if o.Status != OrderPaid && o.Status != OrderCancelled {
			return TableOccupied
		}
	}

	for _, r := range t.Reservations {
		if r.Status == ReservationConfirmed &&
			!at.Before(r.StartTime) && !at.After(r.EndTime) {
			return TableReserved
		}
	}

	return TableAvailable
}
