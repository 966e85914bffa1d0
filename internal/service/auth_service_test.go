package service

import (
	"context"
	"io"
	"testing"
	"time"

	"resto/internal/database"
	"resto/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	user := &models.User{
		ID:           3,
		Username:     "maria",
		PasswordHash: HashPassword("s3cret"),
		IsAdmin:      true,
	}

	t.Run("issues a session on correct credentials", func(t *testing.T) {
		repo := new(mockRepo)
		sessions := new(mockSessions)
		svc := NewAuthService(repo, sessions, 24*time.Hour, &logger)

		sessions.On("CheckRateLimit", ctx, "login:maria", loginAttemptLimit, loginAttemptWindow).Return(true, nil).Once()
		repo.On("GetUserByUsername", ctx, "maria").Return(user, nil).Once()
		sessions.On("SetSession", ctx, mock.Anything).Return(nil).Once()
		repo.On("UpdateUserLastLogin", ctx, int64(3), mock.Anything).Return(nil).Once()

		session, err := svc.Login(ctx, "maria", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, int64(3), session.UserID)
		assert.Equal(t, "maria", session.Username)
		assert.True(t, session.IsAdmin)
		assert.True(t, session.ExpiresAt.After(session.CreatedAt))
		repo.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockRepo)
		sessions := new(mockSessions)
		svc := NewAuthService(repo, sessions, 24*time.Hour, &logger)

		sessions.On("CheckRateLimit", ctx, "login:maria", loginAttemptLimit, loginAttemptWindow).Return(true, nil).Once()
		repo.On("GetUserByUsername", ctx, "maria").Return(user, nil).Once()

		_, err := svc.Login(ctx, "maria", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		sessions.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
	})

	t.Run("unknown user reads the same as a wrong password", func(t *testing.T) {
		repo := new(mockRepo)
		sessions := new(mockSessions)
		svc := NewAuthService(repo, sessions, 24*time.Hour, &logger)

		sessions.On("CheckRateLimit", ctx, "login:ghost", loginAttemptLimit, loginAttemptWindow).Return(true, nil).Once()
		repo.On("GetUserByUsername", ctx, "ghost").Return(nil, database.ErrNotFound).Once()

		_, err := svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("throttled account is refused before the password check", func(t *testing.T) {
		repo := new(mockRepo)
		sessions := new(mockSessions)
		svc := NewAuthService(repo, sessions, 24*time.Hour, &logger)

		sessions.On("CheckRateLimit", ctx, "login:maria", loginAttemptLimit, loginAttemptWindow).Return(false, nil).Once()

		_, err := svc.Login(ctx, "maria", "s3cret")
		assert.ErrorIs(t, err, ErrTooManyLoginAttempts)
		repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("session store outage does not lock logins out", func(t *testing.T) {
		repo := new(mockRepo)
		sessions := new(mockSessions)
		svc := NewAuthService(repo, sessions, 24*time.Hour, &logger)

		sessions.On("CheckRateLimit", ctx, "login:maria", loginAttemptLimit, loginAttemptWindow).
			Return(false, assert.AnError).Once()
		repo.On("GetUserByUsername", ctx, "maria").Return(user, nil).Once()
		sessions.On("SetSession", ctx, mock.Anything).Return(nil).Once()
		repo.On("UpdateUserLastLogin", ctx, int64(3), mock.Anything).Return(nil).Once()

		session, err := svc.Login(ctx, "maria", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})
}

func TestAuthService_SessionFromToken(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("valid token", func(t *testing.T) {
		sessions := new(mockSessions)
		svc := NewAuthService(new(mockRepo), sessions, time.Hour, &logger)

		live := &models.Session{Token: "tok", Username: "maria", ExpiresAt: time.Now().Add(time.Hour)}
		sessions.On("GetSession", ctx, "tok").Return(live, nil).Once()

		got, err := svc.SessionFromToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "maria", got.Username)
	})

	t.Run("expired token is evicted and treated as anonymous", func(t *testing.T) {
		sessions := new(mockSessions)
		svc := NewAuthService(new(mockRepo), sessions, time.Hour, &logger)

		stale := &models.Session{Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}
		sessions.On("GetSession", ctx, "tok").Return(stale, nil).Once()
		sessions.On("DeleteSession", ctx, "tok").Return(nil).Once()

		got, err := svc.SessionFromToken(ctx, "tok")
		require.NoError(t, err)
		assert.Nil(t, got)
		sessions.AssertExpectations(t)
	})

	t.Run("empty token", func(t *testing.T) {
		svc := NewAuthService(new(mockRepo), new(mockSessions), time.Hour, &logger)
		got, err := svc.SessionFromToken(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("hashes the password before storing", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewAuthService(repo, new(mockSessions), time.Hour, &logger)

		user := &models.User{Username: "petr"}
		repo.On("CreateUser", ctx, user).Return(nil).Once()

		err := svc.Register(ctx, user, "pass123")
		require.NoError(t, err)
		assert.Equal(t, HashPassword("pass123"), user.PasswordHash)
		assert.NotEqual(t, "pass123", user.PasswordHash)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewAuthService(repo, new(mockSessions), time.Hour, &logger)

		err := svc.Register(ctx, &models.User{}, "")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username bubbles up", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewAuthService(repo, new(mockSessions), time.Hour, &logger)

		user := &models.User{Username: "maria"}
		repo.On("CreateUser", ctx, user).Return(database.ErrDuplicateUsername).Once()

		err := svc.Register(ctx, user, "pass123")
		assert.ErrorIs(t, err, database.ErrDuplicateUsername)
	})
}

func TestHashPassword(t *testing.T) {
	// Deterministic, hex-encoded, never the plaintext.
	h := HashPassword("admin123")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashPassword("admin123"))
	assert.NotEqual(t, HashPassword("admin124"), h)
}
