package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mrz1836/pyrelease/internal/command"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// Call records one invocation of FakeRunner.Run.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as "name arg1 arg2 ...".
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type fakeResponse struct {
	result *command.Result
	err    error
}

// FakeRunner is a command.Runner test double. Responses are keyed by the
// full command line; unconfigured commands succeed with empty output unless
// Strict is set.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []Call

	// Strict makes unconfigured commands fail with ErrCommandNotConfigured.
	Strict bool

	// OnRun, when set, is called before a response is returned. Tests use it
	// to mutate the filesystem the way the real tool would.
	OnRun func(call Call)
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// Respond configures the stdout returned for a command line.
func (f *FakeRunner) Respond(line, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = fakeResponse{result: &command.Result{Stdout: stdout}}
	return f
}

// Fail configures a command line to exit with the given code and stderr.
func (f *FakeRunner) Fail(line string, exitCode int, stderr string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := &command.Result{Stderr: stderr, ExitCode: exitCode}
	err := relerrors.NewExitCodeError(exitCode,
		fmt.Errorf("%s failed: %s: %w", line, stderr, relerrors.ErrCommandFailed))
	f.responses[line] = fakeResponse{result: result, err: err}
	return f
}

// Run implements command.Runner.
func (f *FakeRunner) Run(ctx context.Context, dir, name string, args ...string) (*command.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	resp, ok := f.responses[call.Line()]
	hook := f.OnRun
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	if !ok {
		if f.Strict {
			return nil, fmt.Errorf("%s: %w", call.Line(), relerrors.ErrCommandNotConfigured)
		}
		return &command.Result{}, nil
	}
	return resp.result, resp.err
}

// Calls returns a copy of all recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the recorded calls rendered with Call.Line.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

var _ command.Runner = (*FakeRunner)(nil)
