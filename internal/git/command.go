package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/pyrelease/internal/command"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// RunCommand executes a git command in workDir through runner and returns
// its trimmed stdout. Failures wrap ErrGitOperation while keeping the
// underlying exit code reachable through errors.ExitCodeOf.
func RunCommand(ctx context.Context, runner command.Runner, workDir string, args ...string) (string, error) {
	result, err := runner.Run(ctx, workDir, "git", args...)
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", relerrors.ErrGitOperation, err)
	}
	return strings.TrimSpace(result.Stdout), nil
}
