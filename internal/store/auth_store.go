package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// AuthStore holds the current session's user identity and role.
// Sessions are persisted so authentication state survives restarts;
// role is immutable after registration.
type AuthStore struct {
	base
	users         repository.UserRepository
	confirmations repository.ConfirmationRepository
	sessions      persistence.SessionStore
	tokens        *auth.TokenManager

	bcryptCost          int
	confirmTTL          time.Duration
	requireConfirmation bool

	current        *domain.User
	currentSession *domain.Session
}

// AuthStoreDependencies bundles collaborators.
type AuthStoreDependencies struct {
	UserRepo         repository.UserRepository
	ConfirmationRepo repository.ConfirmationRepository
	Sessions         persistence.SessionStore
	Logger           *zap.Logger
}

// NewAuthStore builds the store.
func NewAuthStore(cfg config.Config, deps AuthStoreDependencies) *AuthStore {
	return &AuthStore{
		base:                newBase("auth", cfg.Gateway.Timeout(), nil, deps.Logger),
		users:               deps.UserRepo,
		confirmations:       deps.ConfirmationRepo,
		sessions:            deps.Sessions,
		tokens:              auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		bcryptCost:          cfg.Auth.BcryptCost,
		confirmTTL:          time.Duration(cfg.Auth.ConfirmationTTLMinutes) * time.Minute,
		requireConfirmation: cfg.Auth.RequireEmailConfirmation,
	}
}

// TokenManager exposes the underlying token manager for middleware
// usage.
func (s *AuthStore) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates an account. The returned token is non-nil when email
// confirmation is required before the account can log in.
func (s *AuthStore) Register(ctx context.Context, name, email, password, phone string, role domain.Role) (*domain.User, *repository.ConfirmationToken, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if !domain.ValidRole(role) {
		return nil, nil, s.finish(apperrors.NewValidationError("unknown role", map[string]any{"role": role}))
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, s.finish(apperrors.NewConflict("email already registered", map[string]any{"email": email}))
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, s.finish(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, s.finish(err)
	}

	status := domain.UserStatusActive
	if s.requireConfirmation {
		status = domain.UserStatusPendingConfirmation
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(phone),
		Status:       status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, s.finish(err)
	}

	if !s.requireConfirmation {
		return user, nil, s.finish(nil)
	}
	token, err := s.issueConfirmation(ctx, user.ID)
	if err != nil {
		return nil, nil, s.finish(err)
	}
	return user, token, s.finish(nil)
}

// Login authenticates, persists a session and sets the current user.
func (s *AuthStore) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, s.finish(apperrors.NewUnauthorized("invalid credentials"))
		}
		return nil, "", time.Time{}, s.finish(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, s.finish(apperrors.NewUnauthorized("invalid credentials"))
	}
	switch user.Status {
	case domain.UserStatusPendingConfirmation:
		return nil, "", time.Time{}, s.finish(apperrors.NewForbidden("email not confirmed"))
	case domain.UserStatusSuspended:
		return nil, "", time.Time{}, s.finish(apperrors.NewForbidden("account suspended"))
	}

	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(s.tokens.SessionTTL()),
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, "", time.Time{}, s.finish(err)
	}
	session.ExpiresAt = expiresAt
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, "", time.Time{}, s.finish(err)
	}

	s.setCurrent(user, &session)
	return user, token, expiresAt, s.finish(nil)
}

// VerifySession re-validates a persisted session on startup: the token
// must parse, the session record must still exist and the account must
// still be active.
func (s *AuthStore) VerifySession(ctx context.Context, tokenStr string) (*domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	claims, err := s.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, s.finish(apperrors.NewUnauthorized("invalid token"))
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrSessionNotFound) {
			return nil, s.finish(apperrors.NewUnauthorized("session expired"))
		}
		return nil, s.finish(err)
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.finish(apperrors.NewUnauthorized("user not found"))
		}
		return nil, s.finish(err)
	}
	if user.Status == domain.UserStatusSuspended {
		return nil, s.finish(apperrors.NewForbidden("account suspended"))
	}

	s.setCurrent(user, session)
	return user, s.finish(nil)
}

// Logout deletes the persisted session. When the session is the one
// held as current, the current user is cleared as well.
func (s *AuthStore) Logout(ctx context.Context, sessionID string) error {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return s.finish(err)
	}

	s.mu.RLock()
	current := s.currentSession
	s.mu.RUnlock()
	if current != nil && current.ID == sessionID {
		s.setCurrent(nil, nil)
	}
	return s.finish(nil)
}

// ConfirmEmail validates the confirmation token and activates the
// account.
func (s *AuthStore) ConfirmEmail(ctx context.Context, tokenStr string) error {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	token, err := s.confirmations.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.finish(apperrors.NewUnauthorized("invalid confirmation token"))
		}
		return s.finish(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return s.finish(apperrors.NewUnauthorized("confirmation token expired or used"))
	}
	if err := s.users.SetStatus(ctx, token.UserID, domain.UserStatusActive); err != nil {
		return s.finish(err)
	}
	return s.finish(s.confirmations.MarkUsed(ctx, token.ID))
}

// ResendConfirmation reissues a confirmation token for an account still
// awaiting confirmation.
func (s *AuthStore) ResendConfirmation(ctx context.Context, email string) (*repository.ConfirmationToken, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.finish(apperrors.NewNotFound("account", map[string]any{"email": email}))
		}
		return nil, s.finish(err)
	}
	if user.Status != domain.UserStatusPendingConfirmation {
		return nil, s.finish(apperrors.NewConflict("account already confirmed", nil))
	}
	token, err := s.issueConfirmation(ctx, user.ID)
	if err != nil {
		return nil, s.finish(err)
	}
	return token, s.finish(nil)
}

// CurrentUser returns the user of the established session, if any.
func (s *AuthStore) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *AuthStore) issueConfirmation(ctx context.Context, userID string) (*repository.ConfirmationToken, error) {
	token := &repository.ConfirmationToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.confirmTTL),
	}
	if err := s.confirmations.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *AuthStore) setCurrent(user *domain.User, session *domain.Session) {
	s.mu.Lock()
	s.current = user
	s.currentSession = session
	s.mu.Unlock()
}
