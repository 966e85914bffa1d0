package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"resto/internal/domain"
	"resto/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSessions always errors, standing in for a dead Redis.
type failingSessions struct{}

func (failingSessions) GetSession(context.Context, string) (*models.Session, error) {
	return nil, errors.New("connection refused")
}
func (failingSessions) SetSession(context.Context, *models.Session) error {
	return errors.New("connection refused")
}
func (failingSessions) DeleteSession(context.Context, string) error {
	return errors.New("connection refused")
}
func (failingSessions) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

var _ domain.SessionRepository = failingSessions{}

func TestFailoverFallsBack(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	fallback := NewMemorySessionRepository(time.Hour)
	repo := NewFailoverSessionRepository(failingSessions{}, fallback, &logger)

	session := &models.Session{Token: "tok", Username: "maria"}
	require.NoError(t, repo.SetSession(ctx, session))

	got, err := repo.GetSession(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "maria", got.Username)

	// Primary is marked down after the first failure.
	assert.True(t, repo.isDown.Load())

	allowed, err := repo.CheckRateLimit(ctx, "client", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailoverPrefersHealthyPrimary(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	primary := NewMemorySessionRepository(time.Hour)
	fallback := NewMemorySessionRepository(time.Hour)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)

	session := &models.Session{Token: "tok", Username: "maria"}
	require.NoError(t, repo.SetSession(ctx, session))

	// The write landed on the primary, not the fallback.
	got, err := primary.GetSession(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)

	fromFallback, err := fallback.GetSession(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, fromFallback)

	assert.False(t, repo.isDown.Load())
}
