// Package project reads and edits the Python project files a release
// touches: the packaging descriptor that declares the version and the
// changelog that records one line per release.
package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/pyrelease/internal/command"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// SetupPyReader asks setuptools for the declared version by running
// `<python> <metadata file> --version` in the project root.
type SetupPyReader struct {
	runner       command.Runner
	python       string
	root         string
	metadataFile string
}

// NewSetupPyReader creates a reader that runs python against metadataFile
// inside root.
func NewSetupPyReader(runner command.Runner, python, root, metadataFile string) *SetupPyReader {
	return &SetupPyReader{
		runner:       runner,
		python:       python,
		root:         root,
		metadataFile: metadataFile,
	}
}

// CurrentVersion returns the version setuptools reports.
func (r *SetupPyReader) CurrentVersion(ctx context.Context) (string, error) {
	result, err := r.runner.Run(ctx, r.root, r.python, r.metadataFile, "--version")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", relerrors.ErrVersionQuery, err)
	}

	version := ParseVersionOutput(result.Stdout)
	if version == "" {
		return "", fmt.Errorf("%s %s --version printed nothing: %w", r.python, r.metadataFile, relerrors.ErrVersionQuery)
	}
	return version, nil
}

// ParseVersionOutput extracts the version from `setup.py --version` output.
// setuptools may print warnings before the version, so the last non-blank
// line wins.
func ParseVersionOutput(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
