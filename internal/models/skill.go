package models

// SkillCategory tags a skill for grouping in the catalog view.
type SkillCategory string

// Known skill categories. Anything else normalizes to CategoryOther.
const (
	CategoryAlways       SkillCategory = "always"
	CategoryOnDemand     SkillCategory = "on-demand"
	CategoryTechSpecific SkillCategory = "tech-specific"
	CategoryDesign       SkillCategory = "design"
	CategoryVideo        SkillCategory = "video"
	CategoryOther        SkillCategory = "other"
)

// NormalizeCategory maps a raw front-matter category onto the fixed enum.
func NormalizeCategory(raw string) SkillCategory {
	switch SkillCategory(raw) {
	case CategoryAlways, CategoryOnDemand, CategoryTechSpecific, CategoryDesign, CategoryVideo:
		return SkillCategory(raw)
	default:
		return CategoryOther
	}
}

// Skill is one entry in the skills catalog.
type Skill struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    SkillCategory `json:"category"`
	Content     string        `json:"content,omitempty"`
}
