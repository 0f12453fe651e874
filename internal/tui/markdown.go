package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for a terminal, wrapped at width.
// The style follows the terminal background; with NO_COLOR the notty
// style is used so no escape codes are emitted.
func RenderMarkdown(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultBoxWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if !HasColorSupport() {
		styleOpt = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
