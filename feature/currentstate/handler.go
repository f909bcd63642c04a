package currentstate

import (
	"errors"

	"ads-reconciler/core/logger"
	"ads-reconciler/core/resolver"
	"ads-reconciler/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for current state resolution.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the current state routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/current-state")
	group.Post("/resolve", h.HandleResolve)
}

// HandleResolve resolves mutation actions into current entity state.
// @Summary Resolve Current State
// @Description Returns the current state of every entity referenced by the actions, including parent ad groups and campaigns.
// @Tags current-state
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Mutation actions"
// @Success 200 {object} resolver.CurrentEntitySnapshot "Current state"
// @Failure 400 {object} map[string]string "Invalid actions"
// @Failure 404 {object} map[string]string "No published snapshot"
// @Failure 502 {object} map[string]string "Backend lookup failed"
// @Router /current-state/resolve [post]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	current, err := h.service.Resolve(c.Context(), req.Actions)
	var lookupErr *snapshot.LookupError
	switch {
	case errors.Is(err, resolver.ErrInvalidAction):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, snapshot.ErrNoSnapshot):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &lookupErr):
		l.Error("Snapshot lookup failed", zap.String("kind", string(lookupErr.Kind)), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Resolve failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Resolved current state",
		zap.Int("actions", len(req.Actions)),
		zap.Int("campaigns", len(current.Campaigns)),
		zap.Int("ad_groups", len(current.AdGroups)),
		zap.Int("targets", len(current.Targets)))

	return c.JSON(current)
}
