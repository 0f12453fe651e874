package tui

import (
	"io"
)

// Output format names accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output is how commands report progress and results.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, with a suggested action when one is known.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Fields prints ordered key/value pairs.
	Fields(pairs [][2]string)
	// JSON outputs a value as JSON.
	JSON(v any) error
}

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
