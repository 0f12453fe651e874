// Package git provides the Git operations a release needs.
// This file defines the Runner interface for git CLI operations.
package git

import "context"

// Runner defines the Git operations used by the release workflow.
// All operations run in the repository the runner was created for and use
// context for cancellation.
type Runner interface {
	// HeadSummary returns the one-line description of HEAD
	// (`git log -1 --oneline`).
	HeadSummary(ctx context.Context) (string, error)

	// DiffUnstaged returns the diff of unstaged changes in the working tree.
	DiffUnstaged(ctx context.Context) (string, error)

	// DiffStaged returns the diff of staged (cached) changes.
	DiffStaged(ctx context.Context) (string, error)

	// AddTracked stages modifications to tracked files only (`git add -u`).
	AddTracked(ctx context.Context) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// CreateAnnotatedTag creates an annotated tag at HEAD.
	CreateAnnotatedTag(ctx context.Context, name, message string) error

	// Push pushes a single ref (branch or tag) to the remote.
	Push(ctx context.Context, remote, ref string) error
}
