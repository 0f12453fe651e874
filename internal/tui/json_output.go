package tui

import (
	"encoding/json"
	"errors"
	"io"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// JSONOutput provides structured JSON output for scripts and CI.
// Every message is one JSON object per line.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

// jsonMessage is the structured format for Success/Warning/Info messages.
type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// jsonError is the structured format for Error messages.
type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	ExitCode   *int   `json:"exit_code,omitempty"`
}

// Success outputs a success message as JSON.
// Format: {"type": "success", "message": "..."}
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs an error as JSON.
// Format: {"type": "error", "message": "...", "details": "...", "suggestion": "...", "exit_code": N}
// The exit code is included when the error came from an external command.
func (o *JSONOutput) Error(err error) {
	msg, action := relerrors.Actionable(err)
	jsonErr := jsonError{
		Type:       "error",
		Message:    msg,
		Suggestion: action,
	}

	if msg != err.Error() {
		jsonErr.Details = err.Error()
	} else if wrapped := errors.Unwrap(err); wrapped != nil {
		jsonErr.Details = wrapped.Error()
	}

	if code, ok := relerrors.ExitCodeOf(err); ok {
		jsonErr.ExitCode = &code
	}

	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonErr)
}

// Warning outputs a warning message as JSON.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs an informational message as JSON.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Fields outputs the pairs as one JSON object.
func (o *JSONOutput) Fields(pairs [][2]string) {
	obj := make(map[string]string, len(pairs))
	for _, p := range pairs {
		obj[p[0]] = p[1]
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(obj)
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}
