// Package publish builds a source distribution and uploads it to a
// package index, and removes build artifacts between runs.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pyrelease/internal/ctxutil"
)

// Cleaner removes build artifacts from the project root.
type Cleaner struct {
	root  string
	dirs  []string
	globs []string
}

// NewCleaner creates a Cleaner for root. dirs are removed outright; globs
// are expanded relative to root and every match is removed.
func NewCleaner(root string, dirs, globs []string) *Cleaner {
	return &Cleaner{root: root, dirs: dirs, globs: globs}
}

// Clean removes every artifact that exists and returns the removed paths,
// relative to the project root. Missing artifacts are not an error, so
// Clean can run any number of times.
func (c *Cleaner) Clean(ctx context.Context) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	targets, err := c.targets()
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	removed := make([]string, 0, len(targets))
	for _, rel := range targets {
		path := filepath.Join(c.root, rel)
		if _, statErr := os.Lstat(path); os.IsNotExist(statErr) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		logger.Debug().Str("path", rel).Msg("removed build artifact")
		removed = append(removed, rel)
	}
	return removed, nil
}

// targets lists the configured directories followed by the sorted glob
// matches, without duplicates.
func (c *Cleaner) targets() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(rel string) {
		rel = filepath.Clean(rel)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}

	for _, d := range c.dirs {
		add(d)
	}

	for _, pattern := range c.globs {
		matches, err := filepath.Glob(filepath.Join(c.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			rel, err := filepath.Rel(c.root, m)
			if err != nil {
				return nil, fmt.Errorf("relativize %s: %w", m, err)
			}
			add(rel)
		}
	}
	return out, nil
}
