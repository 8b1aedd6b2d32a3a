package scheduler

import (
	"context"

	"hikvision-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the scheduler.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Post("/run", h.HandleRun)
}

// HandleStatus returns the scheduler status and the last cycle result.
// @Summary Sync Status
// @Description Returns the scheduler state and the result of the last sync cycle.
// @Tags sync
// @Produce json
// @Success 200 {object} scheduler.Status "Scheduler status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleRun triggers a sync cycle and waits for its result.
// If a cycle is already running, the caller receives that cycle's result.
// @Summary Run Sync
// @Description Runs a sync cycle now, or joins the one in progress.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.CycleResult "Cycle result"
// @Failure 500 {object} map[string]any "Cycle failed"
// @Router /sync/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Manual sync triggered")

	// The cycle may be shared with the ticker; a disconnecting client must not cancel it.
	ctx := context.WithoutCancel(c.UserContext())

	result, err := h.service.RunOnce(ctx)
	if err != nil {
		l.Error("Manual sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}

	return c.JSON(result)
}
