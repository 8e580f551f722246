package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders card descriptions and recreates the renderer when
// wrap width or style changes.
type markdownRenderer struct {
	width    int
	style    string
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text.
func (r *markdownRenderer) render(markdown string, width int, dark bool) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(24, width)
	style := "light"
	if dark {
		style = "dark"
	}

	if r.renderer == nil || r.width != wrapWidth || r.style != style {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.style = style
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
