package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/store"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// TreesHandler manages tree tracking endpoints.
type TreesHandler struct {
	trees *store.TreeStore
}

// NewTreesHandler constructs handler.
func NewTreesHandler(trees *store.TreeStore) *TreesHandler {
	return &TreesHandler{trees: trees}
}

// Create handles POST /trees.
func (h *TreesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTreeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Species == "" {
		return apperrors.NewValidationError("species required", nil)
	}

	tree, err := h.trees.Create(c.Context(), store.TreeCreateInput{
		OwnerID:         principal.User.ID,
		Species:         req.Species,
		PlantedAt:       req.PlantedAt,
		Location:        req.Location.ToDomain(),
		ImageURLs:       req.ImageURLs,
		ReminderEnabled: req.ReminderEnabled,
		WaterEveryDays:  req.WaterEveryDays,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TreeFromDomain(tree)})
}

// ListMine handles GET /trees.
func (h *TreesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.trees.FetchByOwner(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TreesFromDomain(items)})
}

// Get handles GET /trees/:id.
func (h *TreesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	tree, err := h.trees.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if tree.OwnerID != principal.User.ID {
		return apperrors.NewNotFound("tree", nil)
	}
	return c.JSON(fiber.Map{"data": dto.TreeFromDomain(tree)})
}

// UpdateWateringConfig handles PATCH /trees/:id/watering-config.
func (h *TreesHandler) UpdateWateringConfig(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateWateringConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReminderEnabled && req.WaterEveryDays <= 0 {
		return apperrors.NewValidationError("waterEveryDays must be positive when reminders are on", nil)
	}

	if err := h.requireOwnership(c, principal.User.ID); err != nil {
		return err
	}
	tree, err := h.trees.UpdateWateringConfig(c.Context(), c.Params("id"), req.ReminderEnabled, req.WaterEveryDays)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TreeFromDomain(tree)})
}

// AddWatering handles POST /trees/:id/waterings. History is append
// only; entries cannot be edited or removed.
func (h *TreesHandler) AddWatering(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddWateringRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	wateredAt := time.Now()
	if req.WateredAt != nil {
		wateredAt = *req.WateredAt
	}

	if err := h.requireOwnership(c, principal.User.ID); err != nil {
		return err
	}
	watering, err := h.trees.AddWatering(c.Context(), c.Params("id"), wateredAt, req.PhotoURL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.WateringFromDomain(watering)})
}

func (h *TreesHandler) requireOwnership(c *fiber.Ctx, userID string) error {
	tree, err := h.trees.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if tree.OwnerID != userID {
		return apperrors.NewNotFound("tree", nil)
	}
	return nil
}
