package prompt

import (
	"context"

	"github.com/mrz1836/pyrelease/internal/tui"
)

// FormPrompter asks each question in a huh input field.
// It needs a terminal on stdin; use LinePrompter otherwise.
type FormPrompter struct {
	cfg *tui.FormConfig
}

// NewFormPrompter creates a FormPrompter.
func NewFormPrompter(cfg *tui.FormConfig) *FormPrompter {
	if cfg == nil {
		cfg = tui.NewFormConfig()
	}
	return &FormPrompter{cfg: cfg}
}

// ReadLine shows prompt as the title of a single input field.
func (p *FormPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	return tui.Input(ctx, prompt, p.cfg)
}

// ForTerminal returns a FormPrompter when interactive is true and lines
// otherwise. Pass tui.IsInteractive() for a real process.
func ForTerminal(interactive bool, lines *LinePrompter) Prompter {
	if interactive {
		return NewFormPrompter(nil)
	}
	return lines
}
