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

// MessageStore owns direct messages between users.
type MessageStore struct {
	base
	messages repository.MessageRepository

	items []domain.Message
}

// NewMessageStore constructs the store.
func NewMessageStore(repo repository.MessageRepository, snapshots *persistence.SnapshotCache, logger *zap.Logger, timeout time.Duration) *MessageStore {
	return &MessageStore{
		base:     newBase("messages", timeout, snapshots, logger),
		messages: repo,
	}
}

// Send persists a message from sender to recipient.
func (s *MessageStore) Send(ctx context.Context, senderID, recipientID, body string) (*domain.Message, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, s.finish(apperrors.NewValidationError("message body is required", nil))
	}
	if senderID == recipientID {
		return nil, s.finish(apperrors.NewValidationError("cannot message yourself", nil))
	}

	message := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = append(s.items, *message)
	s.mu.Unlock()
	return message, s.finish(nil)
}

// FetchConversation loads the two-party thread, oldest first.
func (s *MessageStore) FetchConversation(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.messages.ListConversation(ctx, userID, otherID)
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

// FetchByUser loads every message a user sent or received, newest first.
func (s *MessageStore) FetchByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	return append([]domain.Message(nil), list...), s.finish(nil)
}

// MarkRead stamps a received message as read. Only the recipient may
// mark a message.
func (s *MessageStore) MarkRead(ctx context.Context, userID, id string) error {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return s.finish(err)
	}
	if message.RecipientID != userID {
		return s.finish(apperrors.NewForbidden("message addressed to another user"))
	}

	if err := s.messages.MarkRead(ctx, id); err != nil {
		return s.finish(err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	return s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *MessageStore) Items() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Message(nil), s.items...)
}

func (s *MessageStore) upsertLocked(item domain.Message) {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}
