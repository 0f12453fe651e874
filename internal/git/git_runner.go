package git

import (
	"context"
	"fmt"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/ctxutil"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// CLIRunner implements Runner using the git CLI.
type CLIRunner struct {
	workDir string
	exec    command.Runner
}

// NewRunner creates a new CLIRunner for the given working directory.
// Returns an error if the directory is not a git repository.
func NewRunner(ctx context.Context, exec command.Runner, workDir string) (*CLIRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory cannot be empty: %w", relerrors.ErrEmptyValue)
	}

	r := &CLIRunner{workDir: workDir, exec: exec}

	if _, err := r.runGitCommand(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %w", relerrors.ErrNotGitRepo, err)
	}

	return r, nil
}

// WorkDir returns the repository directory the runner operates in.
func (r *CLIRunner) WorkDir() string {
	return r.workDir
}

// HeadSummary returns `git log -1 --oneline` for HEAD.
func (r *CLIRunner) HeadSummary(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	output, err := r.runGitCommand(ctx, "log", "-1", "--oneline")
	if err != nil {
		return "", fmt.Errorf("failed to describe HEAD: %w", err)
	}
	return output, nil
}

// DiffUnstaged returns the diff of unstaged changes in the working tree.
// This is equivalent to `git diff` (without --cached).
func (r *CLIRunner) DiffUnstaged(ctx context.Context) (string, error) {
	return r.diff(ctx, false)
}

// DiffStaged returns the diff of staged (cached) changes.
// This is equivalent to `git diff --cached`.
func (r *CLIRunner) DiffStaged(ctx context.Context) (string, error) {
	return r.diff(ctx, true)
}

func (r *CLIRunner) diff(ctx context.Context, cached bool) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	args := []string{"diff"}
	if cached {
		args = append(args, "--cached")
	}

	output, err := r.runGitCommand(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get diff: %w", err)
	}
	return output, nil
}

// AddTracked stages changes to files git already tracks. New files stay
// untracked.
func (r *CLIRunner) AddTracked(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.runGitCommand(ctx, "add", "-u"); err != nil {
		return fmt.Errorf("failed to stage tracked files: %w", err)
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *CLIRunner) Commit(ctx context.Context, message string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if message == "" {
		return fmt.Errorf("commit message cannot be empty: %w", relerrors.ErrEmptyValue)
	}

	if _, err := r.runGitCommand(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CreateAnnotatedTag creates an annotated tag named name at HEAD.
func (r *CLIRunner) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if name == "" {
		return fmt.Errorf("tag name cannot be empty: %w", relerrors.ErrEmptyValue)
	}

	if _, err := r.runGitCommand(ctx, "tag", "-a", name, "-m", message); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// Push pushes ref to remote.
func (r *CLIRunner) Push(ctx context.Context, remote, ref string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if remote == "" || ref == "" {
		return fmt.Errorf("remote and ref are required: %w", relerrors.ErrEmptyValue)
	}

	if _, err := r.runGitCommand(ctx, "push", remote, ref); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", ref, remote, err)
	}
	return nil
}

// runGitCommand executes a git command in the runner's working directory.
func (r *CLIRunner) runGitCommand(ctx context.Context, args ...string) (string, error) {
	return RunCommand(ctx, r.exec, r.workDir, args...)
}

// Ensure CLIRunner implements Runner.
var _ Runner = (*CLIRunner)(nil)
