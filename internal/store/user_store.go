package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// UserStore owns the user directory for admin screens and profile
// edits. Accounts are never hard-deleted; suspension is the only
// removal mechanism.
type UserStore struct {
	base
	users repository.UserRepository

	items []domain.User
}

// NewUserStore constructs the store.
func NewUserStore(repo repository.UserRepository, snapshots *persistence.SnapshotCache, logger *zap.Logger, timeout time.Duration) *UserStore {
	return &UserStore{
		base:  newBase("users", timeout, snapshots, logger),
		users: repo,
	}
}

// ProfileUpdateInput carries editable profile fields. Email and role
// are fixed after registration.
type ProfileUpdateInput struct {
	Name            string
	Phone           string
	ProfileImageURL *string
}

// FetchAll loads every account.
func (s *UserStore) FetchAll(ctx context.Context) ([]domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.users.List(ctx)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	return append([]domain.User(nil), list...), s.finish(nil)
}

// FetchByRole loads accounts holding one role, e.g. the employee roster
// used by the assignment screen.
func (s *UserStore) FetchByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if !domain.ValidRole(role) {
		return nil, s.finish(apperrors.NewValidationError("unknown role", map[string]any{"role": role}))
	}
	list, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	for i := range list {
		s.upsertLocked(list[i])
	}
	s.mu.Unlock()
	return list, s.finish(nil)
}

// GetByID loads one account.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.upsertLocked(*user)
	s.mu.Unlock()
	return user, s.finish(nil)
}

// UpdateProfile edits the mutable profile fields of an account.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (*domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, s.finish(apperrors.NewValidationError("name is required", nil))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	user.Name = input.Name
	user.Phone = strings.TrimSpace(input.Phone)
	user.ProfileImageURL = input.ProfileImageURL
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.upsertLocked(*user)
	s.mu.Unlock()
	return user, s.finish(nil)
}

// SetStatus suspends or reactivates an account.
func (s *UserStore) SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	switch status {
	case domain.UserStatusActive, domain.UserStatusSuspended:
	default:
		return nil, s.finish(apperrors.NewValidationError("status must be active or suspended", nil))
	}

	if err := s.users.SetStatus(ctx, id, status); err != nil {
		return nil, s.finish(err)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.upsertLocked(*user)
	s.mu.Unlock()
	return user, s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *UserStore) Items() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.items...)
}

func (s *UserStore) upsertLocked(user domain.User) {
	for i := range s.items {
		if s.items[i].ID == user.ID {
			s.items[i] = user
			return
		}
	}
	s.items = append(s.items, user)
}
