package services

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/models"
)

const skillDescriptor = "SKILL.md"
const descriptionLimit = 200

// SkillService scans the configured skill directories for per-skill
// descriptor files.
type SkillService struct {
	dirs []string
}

// NewSkillService creates a skill service scanning the given directories in
// order. Earlier directories win on name collisions.
func NewSkillService(dirs []string) *SkillService {
	return &SkillService{dirs: dirs}
}

// List returns the deduplicated, alphabetically sorted skill catalog.
// Directories that do not exist are skipped silently.
func (s *SkillService) List() []models.Skill {
	seen := make(map[string]bool)
	var skills []models.Skill

	for _, dir := range s.dirs {
		for _, skill := range scanSkillDir(dir) {
			if seen[skill.Name] {
				continue
			}
			seen[skill.Name] = true
			skills = append(skills, skill)
		}
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills
}

// Get returns the full descriptor content for one skill, searching the
// configured directories in order.
func (s *SkillService) Get(name string) (*models.Skill, error) {
	if name == "" {
		return nil, errInput("skill name required")
	}
	// The name is a single path element; anything else smells like traversal
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, errAccessDenied("Access denied")
	}

	for _, dir := range s.dirs {
		content, err := os.ReadFile(filepath.Join(dir, name, skillDescriptor))
		if err != nil {
			continue
		}
		description, category := parseSkillDescriptor(string(content))
		return &models.Skill{
			Name:        name,
			Description: description,
			Location:    dir,
			Category:    category,
			Content:     string(content),
		}, nil
	}
	return nil, errNotFound("Skill not found")
}

func scanSkillDir(dir string) []models.Skill {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var skills []models.Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name(), skillDescriptor))
		if err != nil {
			continue
		}
		description, category := parseSkillDescriptor(string(content))
		skills = append(skills, models.Skill{
			Name:        entry.Name(),
			Description: description,
			Location:    dir,
			Category:    category,
		})
	}
	return skills
}

// parseSkillDescriptor pulls description and category from a leading YAML
// front-matter block, falling back to the first non-heading body line and
// category "other".
func parseSkillDescriptor(content string) (string, models.SkillCategory) {
	description := ""
	category := models.CategoryOther

	body := content
	if frontMatter, rest, ok := splitFrontMatter(content); ok {
		body = rest
		var fields struct {
			Description string `yaml:"description"`
			Category    string `yaml:"category"`
		}
		if err := yaml.Unmarshal([]byte(frontMatter), &fields); err != nil {
			logger.Debugf("unparseable skill front matter: %v", err)
		} else {
			description = strings.TrimSpace(fields.Description)
			if fields.Category != "" {
				category = models.NormalizeCategory(strings.ToLower(strings.TrimSpace(fields.Category)))
			}
		}
	}

	if description == "" {
		for _, line := range strings.Split(body, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			description = trimmed
			if len(description) > descriptionLimit {
				description = description[:descriptionLimit]
			}
			break
		}
	}

	return description, category
}

// splitFrontMatter separates a leading "---" delimited block from the body.
func splitFrontMatter(content string) (frontMatter, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content, false
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content, false
	}
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return rest[:end], body, true
}
