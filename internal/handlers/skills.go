package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// SkillsHandler exposes the skills catalog over HTTP
type SkillsHandler struct {
	skills *services.SkillService
}

// NewSkillsHandler creates a new skills handler
func NewSkillsHandler(skills *services.SkillService) *SkillsHandler {
	return &SkillsHandler{skills: skills}
}

// ListSkills returns the deduplicated skill catalog
// @Summary List skills
// @Produce json
// @Success 200 {array} models.Skill
// @Router /api/skills [get]
func (h *SkillsHandler) ListSkills(c *fiber.Ctx) error {
	return c.JSON(h.skills.List())
}

// GetSkill returns one skill's full descriptor
// @Summary Get a skill
// @Produce json
// @Param name path string true "Skill name"
// @Success 200 {object} models.Skill
// @Failure 404 {object} map[string]string
// @Router /api/skills/{name} [get]
func (h *SkillsHandler) GetSkill(c *fiber.Ctx) error {
	skill, err := h.skills.Get(c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(skill)
}
