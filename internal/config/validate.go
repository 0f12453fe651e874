package config

import (
	"path/filepath"
	"strings"

	"github.com/mrz1836/pyrelease/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - project root, metadata file, changelog file and history marker must be set
//   - git remote and branch must be set
//   - publish credentials file, repository, python and uploader must be set
//   - publish command timeout must be positive
//   - artifact dirs and globs must stay inside the project root
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateProjectConfig(&cfg.Project); err != nil {
		return err
	}

	if err := validateGitConfig(&cfg.Git); err != nil {
		return err
	}

	return validatePublishConfig(&cfg.Publish)
}

// validateProjectConfig checks project-specific configuration values.
func validateProjectConfig(cfg *ProjectConfig) error {
	required := []struct {
		key   string
		value string
	}{
		{"project.root", cfg.Root},
		{"project.metadata_file", cfg.MetadataFile},
		{"project.changelog_file", cfg.ChangelogFile},
		{"project.history_marker", cfg.HistoryMarker},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidProject, "%s must not be empty", r.key)
		}
	}
	return nil
}

// validateGitConfig checks Git-specific configuration values.
func validateGitConfig(cfg *GitConfig) error {
	if cfg.Remote == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.remote must not be empty")
	}
	if cfg.Branch == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.branch must not be empty")
	}
	return nil
}

// validatePublishConfig checks publish-specific configuration values.
func validatePublishConfig(cfg *PublishConfig) error {
	required := []struct {
		key   string
		value string
	}{
		{"publish.credentials_file", cfg.CredentialsFile},
		{"publish.repository", cfg.Repository},
		{"publish.python", cfg.Python},
		{"publish.uploader", cfg.Uploader},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidPublish, "%s must not be empty", r.key)
		}
	}

	if cfg.CommandTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidPublish,
			"publish.command_timeout must be positive, got %s", cfg.CommandTimeout)
	}

	for _, p := range append(append([]string{}, cfg.ArtifactDirs...), cfg.ArtifactGlobs...) {
		if !isContainedPath(p) {
			return errors.Wrapf(errors.ErrConfigInvalidPublish,
				"artifact path %q must be relative to the project root", p)
		}
	}

	return nil
}

// isContainedPath reports whether p is a non-empty relative path that does
// not climb out of its base directory.
func isContainedPath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(p)
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
