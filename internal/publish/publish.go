package publish

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/ctxutil"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// Result describes one publish run.
type Result struct {
	Removed    []string `json:"removed"`
	Artifacts  []string `json:"artifacts"`
	Repository string   `json:"repository"`
}

// Options configures a Publisher.
type Options struct {
	Root         string
	MetadataFile string
	Python       string
	Uploader     string
	Repository   string
	DistDir      string
}

// Publisher runs clean, builds an sdist and uploads the archives.
type Publisher struct {
	runner  command.Runner
	cleaner *Cleaner
	opts    Options
}

// NewPublisher creates a Publisher. An empty DistDir means "dist".
func NewPublisher(runner command.Runner, cleaner *Cleaner, opts Options) *Publisher {
	if opts.DistDir == "" {
		opts.DistDir = constants.DistDir
	}
	return &Publisher{runner: runner, cleaner: cleaner, opts: opts}
}

// Publish cleans old artifacts, runs `<python> setup.py sdist` and uploads
// everything in the dist directory with
// `<uploader> upload --repository <repo> <archives...>`.
// The dist glob is expanded here rather than by a shell.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	result := &Result{Repository: p.opts.Repository}

	removed, err := p.cleaner.Clean(ctx)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	result.Removed = removed

	logger.Info().Str("metadata_file", p.opts.MetadataFile).Msg("building source distribution")
	if _, err := p.runner.Run(ctx, p.opts.Root, p.opts.Python, p.opts.MetadataFile, "sdist"); err != nil {
		return nil, fmt.Errorf("build sdist: %w", err)
	}

	artifacts, err := p.distArtifacts()
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	args := append([]string{"upload", "--repository", p.opts.Repository}, artifacts...)
	logger.Info().
		Str("repository", p.opts.Repository).
		Strs("artifacts", artifacts).
		Msg("uploading distributions")
	if _, err := p.runner.Run(ctx, p.opts.Root, p.opts.Uploader, args...); err != nil {
		return nil, fmt.Errorf("upload to %s: %w", p.opts.Repository, err)
	}

	return result, nil
}

// distArtifacts returns dist/* relative to the project root, sorted.
func (p *Publisher) distArtifacts() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.opts.Root, p.opts.DistDir, "*"))
	if err != nil {
		return nil, fmt.Errorf("expand %s/*: %w", p.opts.DistDir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s is empty after build: %w", p.opts.DistDir, relerrors.ErrNoDistributions)
	}

	sort.Strings(matches)
	artifacts := make([]string, len(matches))
	for i, m := range matches {
		rel, err := filepath.Rel(p.opts.Root, m)
		if err != nil {
			return nil, fmt.Errorf("relativize %s: %w", m, err)
		}
		artifacts[i] = rel
	}
	return artifacts, nil
}
