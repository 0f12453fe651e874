package tui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a new TTYOutput.
// Respects NO_COLOR environment variable via CheckNoColor().
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success outputs a success message with green color and ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error outputs an error with red color and ✗ icon. Known failures are
// shown with their user-facing message, the raw error and a dim
// "▸ Try:" line.
func (o *TTYOutput) Error(err error) {
	msg, action := relerrors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+msg))
	if msg != err.Error() {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+err.Error()))
	}
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning outputs a warning message with yellow color and ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info outputs an informational message with blue color and ℹ icon.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render("ℹ "+msg))
}

// Fields prints key/value pairs with the keys padded to one column.
func (o *TTYOutput) Fields(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if n := runewidth.StringWidth(p[0]); n > width {
			width = n
		}
	}
	for _, p := range pairs {
		_, _ = fmt.Fprintf(o.w, "%s  %s\n", o.styles.Key.Render(padRight(p[0]+":", width+1)), p[1])
	}
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// padRight pads s with spaces to width terminal columns.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
