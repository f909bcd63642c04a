package integrity

import (
	"ads-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/queue", h.HandleQueueCheck)
	group.Get("/snapshot", h.HandleSnapshotCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, queue and snapshot checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if q, err := h.service.CheckQueue(ctx); err != nil {
		report["queue"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["queue"] = q
	}

	if snap, err := h.service.CheckSnapshot(ctx); err != nil {
		report["snapshot"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["snapshot"] = snap
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks and optionally fixes the database schema.
// @Summary Check Schema
// @Description Compares the snapshot and queue tables with the live schema. Optionally migrates missing tables and columns.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Migrate missing tables and columns"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched && fix {
		l.Info("Attempting to migrate schema", zap.Int("tables", len(report.Drift)))
		if err := h.service.FixSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fix schema",
				"details": err.Error(),
				"drift":   report.Drift,
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"fixed":  report.Drift,
		})
	}

	return c.JSON(report)
}

// HandleQueueCheck checks the manifest queue.
// @Summary Check Queue
// @Description Counts manifests per state and lists terminal manifests without a sidecar.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.QueueReport "Queue Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/queue [get]
func (h *Handler) HandleQueueCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckQueue(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Queue check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.MissingSidecars) > 0 {
		logger.WithRayID(h.service.logger, c).Warn("Terminal manifests without sidecar",
			zap.Strings("missing", report.MissingSidecars))
	}
	return c.JSON(report)
}

// HandleSnapshotCheck reports the latest published snapshot.
// @Summary Check Snapshot
// @Description Reports the latest published snapshot date of the account and its age.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SnapshotReport "Snapshot Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/snapshot [get]
func (h *Handler) HandleSnapshotCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSnapshot(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Snapshot check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
