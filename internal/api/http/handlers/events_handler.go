package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/store"
)

// EventsHandler exposes the community event feed to all authenticated
// users. Publication and status changes live on the admin surface.
type EventsHandler struct {
	events *store.EventStore
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *store.EventStore) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	items, err := h.events.FetchAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EventsFromDomain(items)})
}
