package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// ConfigHandler exposes the redacted gateway config and the merged status
type ConfigHandler struct {
	config *services.ConfigService
	status *services.StatusService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(config *services.ConfigService, status *services.StatusService) *ConfigHandler {
	return &ConfigHandler{config: config, status: status}
}

// GetConfig returns the gateway configuration with secrets redacted
// @Summary Read gateway config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/config [get]
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.config.Get()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cfg)
}

// GetStatus returns the merged gateway status. Always 200: an unreachable
// gateway is reported as offline, not as a server error.
// @Summary Gateway status
// @Produce json
// @Success 200 {object} models.GatewayStatus
// @Router /api/status [get]
func (h *ConfigHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.status.Get(c.Context()))
}
