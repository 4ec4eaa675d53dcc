package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// NotificationStore owns per-user notification feeds. It is the only
// store that supports deletion, via ClearByUser.
type NotificationStore struct {
	base
	notifications repository.NotificationRepository

	items []domain.Notification
}

// NewNotificationStore constructs the store.
func NewNotificationStore(repo repository.NotificationRepository, snapshots *persistence.SnapshotCache, logger *zap.Logger, timeout time.Duration) *NotificationStore {
	return &NotificationStore{
		base:          newBase("notifications", timeout, snapshots, logger),
		notifications: repo,
	}
}

// FetchByUser loads a user's notifications, newest first.
func (s *NotificationStore) FetchByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	return append([]domain.Notification(nil), list...), s.finish(nil)
}

// Push persists a notification for a user. Used by the notifier worker;
// failures are reported but never abort the operation that triggered
// the notification.
func (s *NotificationStore) Push(ctx context.Context, userID string, kind domain.NotificationKind, title, body, subjectID string) (*domain.Notification, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	notification := &domain.Notification{
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		SubjectID: subjectID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, s.finish(err)
	}
	return notification, s.finish(nil)
}

// MarkRead stamps a notification as read. Idempotent; re-marking keeps
// the original readAt.
func (s *NotificationStore) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	if notification.UserID != userID {
		return nil, s.finish(apperrors.NewForbidden("notification belongs to another user"))
	}
	if notification.ReadAt == nil {
		readAt, err := s.notifications.MarkRead(ctx, id)
		if err != nil {
			return nil, s.finish(err)
		}
		notification.Read = true
		notification.ReadAt = &readAt
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = notification.Read
			s.items[i].ReadAt = notification.ReadAt
			break
		}
	}
	s.mu.Unlock()
	return notification, s.finish(nil)
}

// ClearByUser deletes every notification owned by a user and reports
// how many were removed.
func (s *NotificationStore) ClearByUser(ctx context.Context, userID string) (int64, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	removed, err := s.notifications.ClearByUser(ctx, userID)
	if err != nil {
		return 0, s.finish(err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()
	return removed, s.finish(nil)
}

// UnreadCount reports the cached number of unread notifications.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.items {
		if s.items[i].ReadAt == nil {
			count++
		}
	}
	return count
}
