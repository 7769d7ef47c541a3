package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-auth-service/internal/auth"
	"github.com/spec-kit/user-auth-service/internal/config"
	"github.com/spec-kit/user-auth-service/internal/domain"
	"github.com/spec-kit/user-auth-service/internal/events"
	"github.com/spec-kit/user-auth-service/internal/persistence"
	"github.com/spec-kit/user-auth-service/internal/repository"
	apperrors "github.com/spec-kit/user-auth-service/pkg/util"
)

const lastLoginKeyPrefix = "auth:last_login:"

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	cache      *persistence.Redis
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
// Everything is constructed and passed explicitly at process start.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Cache      *persistence.Redis
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account: uniqueness check, hash, persist.
// Duplicate emails surface as a conflict; the unique constraint on
// users.email backs the check against concurrent registrations.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		Email:     user.Email,
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			UserID: user.ID,
			Name:   user.Name,
			Role:   user.Role,
		},
	})
	return user, nil
}

// Login verifies credentials and issues a bearer token. A missing account
// and a wrong password produce the same generic failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return "", time.Time{}, err
	}

	s.recordLastLogin(ctx, user.Email)

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedIn,
		Email:     user.Email,
		Timestamp: time.Now(),
		Payload: events.UserLoggedInPayload{
			UserID:         user.ID,
			TokenExpiresAt: exp,
		},
	})
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// recordLastLogin stores the login time in Redis. Best effort: a cache
// failure never fails the login.
func (s *AuthService) recordLastLogin(ctx context.Context, email string) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	key := lastLoginKeyPrefix + email
	if err := s.cache.Client.Set(ctx, key, time.Now().Format(time.RFC3339), 0).Err(); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to record last login", zap.String("email", email), zap.Error(err))
		}
	}
}
