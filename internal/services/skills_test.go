package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/models"
)

func writeSkill(t *testing.T, dir, name, content string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644))
}

func TestParseSkillDescriptor_FrontMatter(t *testing.T) {
	desc, cat := parseSkillDescriptor("---\ndescription: Summarizes PDF reports\ncategory: on-demand\n---\n# PDF\n\nBody text.\n")
	assert.Equal(t, "Summarizes PDF reports", desc)
	assert.Equal(t, models.CategoryOnDemand, cat)
}

func TestParseSkillDescriptor_FallbackToFirstBodyLine(t *testing.T) {
	desc, cat := parseSkillDescriptor("---\ncategory: design\n---\n# Heading\n\nDraws diagrams from prose.\n")
	assert.Equal(t, "Draws diagrams from prose.", desc)
	assert.Equal(t, models.CategoryDesign, cat)
}

func TestParseSkillDescriptor_NoFrontMatter(t *testing.T) {
	desc, cat := parseSkillDescriptor("# Title\n\nFirst real line.\nSecond line.\n")
	assert.Equal(t, "First real line.", desc)
	assert.Equal(t, models.CategoryOther, cat)
}

func TestParseSkillDescriptor_UnknownCategoryNormalizes(t *testing.T) {
	_, cat := parseSkillDescriptor("---\ndescription: d\ncategory: え-weird\n---\n")
	assert.Equal(t, models.CategoryOther, cat)
}

func TestSkillService_ListDedupesPreferringFirstDir(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()

	writeSkill(t, primary, "pdf", "---\ndescription: primary copy\n---\n")
	writeSkill(t, secondary, "pdf", "---\ndescription: secondary copy\n---\n")
	writeSkill(t, secondary, "charts", "---\ndescription: renders charts\ncategory: design\n---\n")

	svc := NewSkillService([]string{primary, secondary, filepath.Join(primary, "missing")})
	skills := svc.List()
	require.Len(t, skills, 2)

	// Alphabetical
	assert.Equal(t, "charts", skills[0].Name)
	assert.Equal(t, "pdf", skills[1].Name)
	assert.Equal(t, "primary copy", skills[1].Description)
	assert.Equal(t, primary, skills[1].Location)
}

func TestSkillService_Get(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "pdf", "---\ndescription: d\n---\nbody")

	svc := NewSkillService([]string{dir})
	skill, err := svc.Get("pdf")
	require.NoError(t, err)
	assert.Contains(t, skill.Content, "body")

	_, err = svc.Get("ghost")
	domErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, domErr.Kind)

	_, err = svc.Get("../pdf")
	domErr, ok = err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindAccessDenied, domErr.Kind)
}
