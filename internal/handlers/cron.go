package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// CronHandler exposes the cron adapter over HTTP
type CronHandler struct {
	cron *services.CronService
}

// NewCronHandler creates a new cron handler
func NewCronHandler(cron *services.CronService) *CronHandler {
	return &CronHandler{cron: cron}
}

// ListJobs returns all cron jobs, disabled ones included
// @Summary List cron jobs
// @Produce json
// @Success 200 {array} models.CronJob
// @Router /api/cron [get]
func (h *CronHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.cron.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(jobs)
}

// Mutate toggles or triggers a job
// @Summary Toggle or trigger a cron job
// @Accept json
// @Produce json
// @Param body body map[string]string true "Mutation with 'action' (toggle|trigger) and 'id'"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/cron [post]
func (h *CronHandler) Mutate(c *fiber.Ctx) error {
	var payload struct {
		Action string `json:"action"`
		ID     string `json:"id"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	switch payload.Action {
	case "toggle":
		enabled, err := h.cron.Toggle(payload.ID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"ok": true, "enabled": enabled})
	case "trigger":
		if err := h.cron.Trigger(c.Context(), payload.ID); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"ok": true, "triggered": payload.ID})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown action (toggle, trigger supported)"})
	}
}
