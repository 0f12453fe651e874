// Package command runs external programs for pyrelease.
//
// Every step of a release is an external tool (git, python, twine). They are
// all executed through the Runner interface so the orchestrator can be driven
// by a fake in tests instead of a real repository and a real package index.
//
// Commands are executed directly (no shell), so arguments are never re-parsed.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/logging"
)

// ExitCodeNotFound is reported when the executable cannot be started,
// matching the shell convention for "command not found".
const ExitCodeNotFound = 127

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command in a working directory.
type Runner interface {
	// Run executes name with args in dir. A non-zero exit returns the
	// captured Result together with an error that wraps ErrCommandFailed
	// and carries the exit code (see errors.ExitCodeOf).
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no timeout beyond ctx.
	Timeout time.Duration

	// LiveOut, when set, receives stdout and stderr as they are produced
	// in addition to the captured copy.
	LiveOut io.Writer
}

// NewExecRunner creates an ExecRunner with the given per-command timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// WithLiveOutput returns a copy of the runner that streams output to w.
func (r *ExecRunner) WithLiveOutput(w io.Writer) *ExecRunner {
	clone := *r
	clone.LiveOut = w
	return &clone
}

// Run executes the command and captures its output.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- argv comes from pyrelease config, no shell involved
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	if r.LiveOut != nil {
		cmd.Stdout = io.MultiWriter(&outBuf, r.LiveOut)
		cmd.Stderr = io.MultiWriter(&errBuf, r.LiveOut)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("command", Describe(name, args...)).Str("dir", dir).Msg("running command")

	runErr := cmd.Run()
	result := &Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if runErr == nil {
		return result, nil
	}

	// Context errors take precedence over the "signal: killed" they cause.
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s: %w", Describe(name, args...), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = ExitCodeNotFound
	}

	logger.Debug().
		Int("exit_code", result.ExitCode).
		Str("stderr", logging.SafeValue("stderr", strings.TrimSpace(result.Stderr))).
		Msg("command failed")

	return result, relerrors.NewExitCodeError(result.ExitCode, failure(name, args, result, runErr))
}

// failure builds the error for a failed command, including stderr when present.
func failure(name string, args []string, result *Result, runErr error) error {
	desc := Describe(name, args...)
	if msg := strings.TrimSpace(result.Stderr); msg != "" {
		return fmt.Errorf("%s failed: %s: %w", desc, msg, relerrors.ErrCommandFailed)
	}
	return fmt.Errorf("%s failed: %v: %w", desc, runErr, relerrors.ErrCommandFailed)
}

// Describe renders a command line for logs and error messages.
// Only the program and its first argument are included, keeping commit
// messages and tag annotations out of error text.
func Describe(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + args[0]
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
