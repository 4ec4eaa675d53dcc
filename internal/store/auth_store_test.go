package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockConfirmationRepository struct {
	mock.Mock
}

func (m *MockConfirmationRepository) Create(ctx context.Context, token *repository.ConfirmationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockConfirmationRepository) GetByToken(ctx context.Context, tokenStr string) (*repository.ConfirmationToken, error) {
	args := m.Called(ctx, tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ConfirmationToken), args.Error(1)
}

func (m *MockConfirmationRepository) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memorySessionStore keeps sessions in a map so tests exercise the real
// save/get/delete flow without Redis.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.Session)}
}

func (s *memorySessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, persistence.ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func testAuthConfig(requireConfirmation bool) config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:                "test-secret",
			SessionTTLMinutes:        60,
			ConfirmationTTLMinutes:   60,
			BcryptCost:               4,
			RequireEmailConfirmation: requireConfirmation,
		},
		Gateway: config.GatewayConfig{TimeoutSeconds: 5},
	}
}

func TestRegisterIssuesConfirmationToken(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, pgx.ErrNoRows)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Status == domain.UserStatusPendingConfirmation && u.Role == domain.RoleCitizen
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u-1"
	}).Return(nil)
	confirmations := new(MockConfirmationRepository)
	confirmations.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := NewAuthStore(testAuthConfig(true), AuthStoreDependencies{
		UserRepo:         users,
		ConfirmationRepo: confirmations,
		Sessions:         newMemorySessionStore(),
	})
	user, token, err := s.Register(context.Background(), "Ada", "Ada@Example.com ", "secret123", "", domain.RoleCitizen)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, token)
	require.NotEmpty(t, token.Token)
}

func TestRegisterConflictsOnExistingEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{ID: "u-1"}, nil)

	s := NewAuthStore(testAuthConfig(true), AuthStoreDependencies{
		UserRepo: users,
		Sessions: newMemorySessionStore(),
	})
	_, _, err := s.Register(context.Background(), "Ada", "ada@example.com", "secret123", "", domain.RoleCitizen)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
	users.AssertNotCalled(t, "Create")
}

func TestLoginPersistsSessionAndSurvivesRestart(t *testing.T) {
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)
	account := &domain.User{
		ID:           "u-1",
		Email:        "ada@example.com",
		PasswordHash: hash,
		Role:         domain.RoleCitizen,
		Status:       domain.UserStatusActive,
	}
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(account, nil)
	users.On("GetByID", mock.Anything, "u-1").Return(account, nil)
	sessions := newMemorySessionStore()

	cfg := testAuthConfig(false)
	s := NewAuthStore(cfg, AuthStoreDependencies{UserRepo: users, Sessions: sessions})
	user, token, expiresAt, err := s.Login(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))
	require.Len(t, sessions.sessions, 1)

	// A fresh store over the same session backend accepts the token.
	restarted := NewAuthStore(cfg, AuthStoreDependencies{UserRepo: users, Sessions: sessions})
	verified, err := restarted.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "u-1", verified.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{
		ID: "u-1", Email: "ada@example.com", PasswordHash: hash, Status: domain.UserStatusActive,
	}, nil)

	s := NewAuthStore(testAuthConfig(false), AuthStoreDependencies{UserRepo: users, Sessions: newMemorySessionStore()})
	_, _, _, err = s.Login(context.Background(), "ada@example.com", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "UNAUTHORIZED", domainErr.Code)
	require.NotEmpty(t, s.Err())
}

func TestLoginForbidsUnconfirmedAndSuspended(t *testing.T) {
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)

	for _, status := range []domain.UserStatus{domain.UserStatusPendingConfirmation, domain.UserStatusSuspended} {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{
			ID: "u-1", Email: "ada@example.com", PasswordHash: hash, Status: status,
		}, nil)
		s := NewAuthStore(testAuthConfig(false), AuthStoreDependencies{UserRepo: users, Sessions: newMemorySessionStore()})
		_, _, _, err := s.Login(context.Background(), "ada@example.com", "secret123")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	}
}

func TestLogoutRemovesSession(t *testing.T) {
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{
		ID: "u-1", Email: "ada@example.com", PasswordHash: hash, Status: domain.UserStatusActive,
	}, nil)
	sessions := newMemorySessionStore()

	s := NewAuthStore(testAuthConfig(false), AuthStoreDependencies{UserRepo: users, Sessions: sessions})
	_, token, _, err := s.Login(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)

	claims, err := s.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.NoError(t, s.Logout(context.Background(), claims.SessionID))
	require.Empty(t, sessions.sessions)
	require.Nil(t, s.CurrentUser())
}

func TestConfirmEmailActivatesAccount(t *testing.T) {
	users := new(MockUserRepository)
	users.On("SetStatus", mock.Anything, "u-1", domain.UserStatusActive).Return(nil)
	confirmations := new(MockConfirmationRepository)
	confirmations.On("GetByToken", mock.Anything, "tok-1").Return(&repository.ConfirmationToken{
		ID:        "ct-1",
		UserID:    "u-1",
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	confirmations.On("MarkUsed", mock.Anything, "ct-1").Return(nil)

	s := NewAuthStore(testAuthConfig(true), AuthStoreDependencies{
		UserRepo:         users,
		ConfirmationRepo: confirmations,
		Sessions:         newMemorySessionStore(),
	})
	require.NoError(t, s.ConfirmEmail(context.Background(), "tok-1"))
	users.AssertExpectations(t)
	confirmations.AssertExpectations(t)
}

func TestConfirmEmailRejectsExpiredToken(t *testing.T) {
	confirmations := new(MockConfirmationRepository)
	confirmations.On("GetByToken", mock.Anything, "tok-1").Return(&repository.ConfirmationToken{
		ID:        "ct-1",
		UserID:    "u-1",
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	s := NewAuthStore(testAuthConfig(true), AuthStoreDependencies{
		ConfirmationRepo: confirmations,
		Sessions:         newMemorySessionStore(),
	})
	err := s.ConfirmEmail(context.Background(), "tok-1")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "UNAUTHORIZED", domainErr.Code)
}
