// Package tui provides terminal output and interactive prompts for pyrelease.
//
// Styling uses Lip Gloss with AdaptiveColor so output reads on light and
// dark terminals alike. Four semantic colors are exported:
//   - ColorPrimary (Blue): prompts, informational lines
//   - ColorSuccess (Green): completed steps
//   - ColorWarning (Yellow): declined or skipped steps
//   - ColorError (Red): failures
//
// Call CheckNoColor() before rendering to respect NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for prompts and informational output.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for declined or skipped steps.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text such as suggested actions.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// DefaultBoxWidth is the fallback width for forms and rendered markdown.
const DefaultBoxWidth = 80

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Key     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or TERM=dumb.
// This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
