package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/store"
)

// Notifier turns domain events into persisted user notifications. A
// failed push is logged and dropped; it never fails the operation that
// produced the event.
type Notifier struct {
	notifications *store.NotificationStore
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotifier creates the worker.
func NewNotifier(notifications *store.NotificationStore, dispatcher events.Dispatcher, logger *zap.Logger) *Notifier {
	return &Notifier{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Start subscribes to the event types the notifier cares about.
func (n *Notifier) Start() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleComplaintAssigned)
	n.dispatcher.Subscribe(events.EventTreeWatered, n.handleTreeWatered)
}

func (n *Notifier) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return nil
	}
	n.push(ctx, payload.CitizenID, domain.NotificationKindComplaintUpdate,
		"Complaint received",
		fmt.Sprintf("Your %s complaint was registered and is pending review.", payload.Type),
		event.SubjectID)
	return nil
}

func (n *Notifier) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Your complaint moved from %s to %s.", payload.OldStatus, payload.NewStatus)
	if payload.Notes != "" {
		body = fmt.Sprintf("%s Note: %s", body, payload.Notes)
	}
	n.push(ctx, payload.CitizenID, domain.NotificationKindComplaintUpdate, "Complaint updated", body, event.SubjectID)
	return nil
}

func (n *Notifier) handleComplaintAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if !ok {
		return nil
	}
	n.push(ctx, payload.EmployeeID, domain.NotificationKindAssignment,
		"New assignment",
		"A complaint has been assigned to you.",
		event.SubjectID)
	n.push(ctx, payload.CitizenID, domain.NotificationKindComplaintUpdate,
		"Complaint in progress",
		"An employee has been assigned to your complaint.",
		event.SubjectID)
	return nil
}

func (n *Notifier) handleTreeWatered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TreeWateredPayload)
	if !ok {
		return nil
	}
	n.push(ctx, payload.OwnerID, domain.NotificationKindWateringDue,
		"Watering recorded",
		fmt.Sprintf("Watering logged at %s.", payload.WateredAt.Format("2006-01-02 15:04")),
		event.SubjectID)
	return nil
}

func (n *Notifier) push(ctx context.Context, userID string, kind domain.NotificationKind, title, body, subjectID string) {
	if userID == "" {
		return
	}
	if _, err := n.notifications.Push(ctx, userID, kind, title, body, subjectID); err != nil {
		n.logger.Warn("notification push failed",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
