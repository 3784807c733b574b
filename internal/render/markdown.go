package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders untrusted markdown for the terminal. Raw HTML never makes
// it through: glamour's goldmark pipeline has no HTML renderer, so inline and
// block HTML degrade to escaped text. On any renderer failure the input is
// returned unchanged.
func Markdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
