package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"resto/internal/database"
	"resto/internal/domain"
	"resto/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)

// Login attempts per account within the window before the account is
// temporarily throttled.
const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
)

// AuthService authenticates users and issues token sessions. Every call
// that needs the current user carries the session explicitly; there is no
// ambient login state.
type AuthService struct {
	repo       domain.Repository
	sessions   domain.SessionRepository
	sessionTTL time.Duration
	logger     *zerolog.Logger
}

func NewAuthService(repo domain.Repository, sessions domain.SessionRepository, sessionTTL time.Duration, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	allowed, err := s.sessions.CheckRateLimit(ctx, "login:"+username, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		// The session store being down must not lock everyone out.
		s.logger.Warn().Err(err).Msg("login throttle check failed")
	} else if !allowed {
		s.logger.Warn().Str("username", username).Msg("login throttled")
		return nil, ErrTooManyLoginAttempts
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash != HashPassword(password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	}

	s.logger.Info().Str("username", username).Msg("user logged in")
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *AuthService) Register(ctx context.Context, user *models.User, password string) error {
	if user.Username == "" || password == "" {
		return models.ValidationErrors{{
			Fields:  []string{"username", "password"},
			Message: "username and password must not be empty",
		}}
	}

	user.PasswordHash = HashPassword(password)
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("username", user.Username).Bool("is_admin", user.IsAdmin).Msg("user registered")
	return nil
}

// SessionFromToken resolves a bearer token to its session, returning nil
// when the token is unknown or expired.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, nil
	}
	return session, nil
}

// HashPassword returns the hex-encoded SHA-256 digest of the password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
