// Package errors provides centralized error handling for pyrelease.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnstagedChanges indicates the working tree has modifications that
	// are not staged. The release refuses to continue (exit code 1).
	ErrUnstagedChanges = errors.New("unstaged changes in working tree")

	// ErrStagedChanges indicates the index already holds staged but
	// uncommitted changes before the release started (exit code 2).
	ErrStagedChanges = errors.New("staged changes present")

	// ErrCredentialsMissing indicates the package index credentials file
	// (usually ~/.pypirc) does not exist (exit code 3).
	ErrCredentialsMissing = errors.New("publish credentials file not found")

	// ErrReleaseDeclined indicates the operator answered the confirmation
	// prompt with something outside the affirmative set.
	// This is not a failure: the CLI exits 0.
	ErrReleaseDeclined = errors.New("release declined by operator")

	// ErrGitOperation indicates that a git command failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrCommandFailed indicates that an external command exited non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrVersionQuery indicates the project metadata could not report a version.
	ErrVersionQuery = errors.New("failed to query project version")

	// ErrVersionNotFound indicates the current version string does not occur
	// in the metadata file, so substitution would silently do nothing.
	ErrVersionNotFound = errors.New("current version not found in metadata file")

	// ErrHistoryMarkerNotFound indicates the changelog has no history marker line.
	ErrHistoryMarkerNotFound = errors.New("history marker not found in changelog")

	// ErrNoDistributions indicates the build step produced nothing to upload.
	ErrNoDistributions = errors.New("no distribution archives to upload")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidProject indicates an invalid project configuration value.
	ErrConfigInvalidProject = errors.New("invalid project configuration")

	// ErrConfigInvalidGit indicates an invalid Git configuration value.
	ErrConfigInvalidGit = errors.New("invalid Git configuration")

	// ErrConfigInvalidPublish indicates an invalid publish configuration value.
	ErrConfigInvalidPublish = errors.New("invalid publish configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrPromptCanceled indicates the operator aborted an interactive prompt
	// (Ctrl+C, Esc, or end of input).
	ErrPromptCanceled = errors.New("prompt canceled")

	// ErrNoTerminal indicates an interactive form was requested without a
	// terminal on stdin.
	ErrNoTerminal = errors.New("stdin is not a terminal")
)

// ExitCodeError wraps an error with the process exit code it should produce.
// It is used for failures of external commands, whose exit status is
// propagated unchanged.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps err so that it maps to the given exit code.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCodeOf returns the exit code carried by the first ExitCodeError in the
// chain, and whether one was found.
func ExitCodeOf(err error) (int, bool) {
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
