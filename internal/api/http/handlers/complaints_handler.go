package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/store"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages citizen complaint endpoints.
type ComplaintsHandler struct {
	complaints *store.ComplaintStore
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *store.ComplaintStore) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints}
}

// Create handles POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidComplaintType(req.Type) {
		return apperrors.NewValidationError("unknown complaint type", map[string]any{"type": string(req.Type)})
	}
	if req.Description == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	if req.Location.Address == "" {
		return apperrors.NewValidationError("location address required", nil)
	}

	complaint, err := h.complaints.Create(c.Context(), store.ComplaintCreateInput{
		CitizenID:   principal.User.ID,
		Type:        req.Type,
		Description: req.Description,
		MediaURLs:   req.MediaURLs,
		Location:    req.Location.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

// ListMine handles GET /complaints. Query params search, status and
// type narrow the result in memory after the fetch.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	items, err := h.complaints.FetchByCitizen(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items = applyComplaintQuery(c, items)
	return c.JSON(fiber.Map{"data": dto.ComplaintsFromDomain(items)})
}

// Get handles GET /complaints/:id. Citizens may only read their own
// complaints.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaint, err := h.complaints.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role() == domain.RoleCitizen && complaint.CitizenID != principal.User.ID {
		return apperrors.NewNotFound("complaint", nil)
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

// History handles GET /complaints/:id/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaint, err := h.complaints.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role() == domain.RoleCitizen && complaint.CitizenID != principal.User.ID {
		return apperrors.NewNotFound("complaint", nil)
	}
	history, err := h.complaints.History(c.Context(), complaint.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HistoryFromDomain(history)})
}

func applyComplaintQuery(c *fiber.Ctx, items []domain.Complaint) []domain.Complaint {
	search := c.Query("search")
	status := domain.ComplaintStatus(c.Query("status"))
	ctype := domain.ComplaintType(c.Query("type"))
	return store.FilterComplaints(items, search, status, ctype)
}
