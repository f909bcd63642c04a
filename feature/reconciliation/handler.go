package reconciliation

import (
	"errors"

	"ads-reconciler/core/lock"
	"ads-reconciler/core/logger"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconciliation")
	group.Post("/run", h.HandleRun)
	group.Get("/queue", h.HandleStatus)
	group.Get("/queue/:state", h.HandleList)
	group.Get("/queue/:state/:name", h.HandleGet)
}

// HandleRun runs one reconciliation pass.
// @Summary Run Reconciliation Pass
// @Description Reconciles every pending manifest against the latest published snapshot.
// @Tags reconciliation
// @Produce json
// @Param dry_run query boolean false "Plan without moving manifests"
// @Success 200 {object} reconcile.PassReport "Pass Report"
// @Failure 404 {object} map[string]string "No published snapshot"
// @Failure 409 {object} map[string]string "Another pass is running"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /reconciliation/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.Query("dry_run") == "true"

	report, err := h.service.Run(c.Context(), dryRun)
	switch {
	case errors.Is(err, lock.ErrNotObtained):
		l.Warn("Reconciliation pass already running")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, snapshot.ErrNoSnapshot):
		l.Warn("No published snapshot", zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Reconciliation pass failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}

	return c.JSON(report)
}

// HandleStatus counts manifests per state.
// @Summary Queue Status
// @Description Returns the number of manifests in every queue state.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} map[string]int "Counts per state"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reconciliation/queue [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	counts, err := h.service.Status(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Queue status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(counts)
}

// HandleList lists the manifests in one state.
// @Summary List Manifests
// @Description Lists the manifests in one queue state sorted by name.
// @Tags reconciliation
// @Produce json
// @Param state path string true "pending, reconciled or failed"
// @Success 200 {array} queue.Item "Manifests"
// @Failure 400 {object} map[string]string "Unknown state"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reconciliation/queue/{state} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	state, err := queue.ParseState(c.Params("state"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.service.List(c.Context(), state)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Queue listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleGet returns one manifest and its sidecar.
// @Summary Get Manifest
// @Description Returns a manifest and, for terminal states, its result or error sidecar.
// @Tags reconciliation
// @Produce json
// @Param state path string true "pending, reconciled or failed"
// @Param name path string true "Manifest file name"
// @Success 200 {object} ItemDetail "Manifest"
// @Failure 400 {object} map[string]string "Unknown state"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reconciliation/queue/{state}/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	state, err := queue.ParseState(c.Params("state"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	detail, err := h.service.Get(c.Context(), state, c.Params("name"))
	if errors.Is(err, queue.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Manifest read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}
