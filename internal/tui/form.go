package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is the number of characters to leave between
	// form content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinFormWidth is the minimum usable width for form content.
	MinFormWidth = 40
)

// FormConfig holds configuration for interactive forms.
type FormConfig struct {
	// Width is the maximum width for the form. If 0, adapts to terminal width.
	Width int
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// ShowHelp controls whether key hints are displayed.
	ShowHelp bool
}

// NewFormConfig creates a FormConfig with defaults.
// Accessible mode follows the ACCESSIBLE environment variable.
func NewFormConfig() *FormConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &FormConfig{
		Width:      DefaultBoxWidth,
		Accessible: accessible,
		ShowHelp:   false,
	}
}

// IsInteractive reports whether stdin is a terminal, which forms require.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// adaptWidth returns a form width that fits the terminal, capped at maxWidth.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultBoxWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinFormWidth {
		return MinFormWidth
	}
	return available
}

// Input shows a single-line text input titled title and returns what was
// typed, untrimmed. Returns ErrNoTerminal when stdin is not a terminal and
// ErrPromptCanceled when the operator aborts.
func Input(ctx context.Context, title string, cfg *FormConfig) (string, error) {
	if !IsInteractive() {
		return "", relerrors.ErrNoTerminal
	}
	if cfg == nil {
		cfg = NewFormConfig()
	}

	CheckNoColor()

	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(&value),
	)).
		WithTheme(Theme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(cfg.ShowHelp)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", relerrors.ErrPromptCanceled
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("input prompt failed: %w", err)
	}
	return value, nil
}

// Theme returns the huh theme built from the package colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorPrimary)

	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)

	return t
}
