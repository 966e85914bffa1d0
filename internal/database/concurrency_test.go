package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resto/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two writers racing on the same reservation version: exactly one wins.
func TestConcurrentReservationUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	table := createTestTable(t, db)

	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	r := &models.Reservation{
		TableID:   table.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    models.ReservationPending,
	}
	require.NoError(t, db.CreateReservation(ctx, r))

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.UpdateReservationStatus(ctx, r.ID, 1, models.ReservationConfirmed)
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConcurrentModification):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, losses)
}

func TestConcurrentOrderClose(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	table := createTestTable(t, db)

	order := &models.Order{TableID: table.ID, Status: models.OrderServed, CreatedTime: time.Now()}
	require.NoError(t, db.CreateOrder(ctx, order))

	const writers = 4
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.CloseOrder(ctx, order.ID, 1, time.Now())
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrConcurrentModification)
		}
	}
	assert.Equal(t, 1, wins)
}
