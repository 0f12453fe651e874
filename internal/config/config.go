// Package config provides configuration management for pyrelease with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (PYRELEASE_* prefix)
//  3. Project config (<project root>/.pyrelease.yaml)
//  4. Global config (~/.pyrelease/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrz1836/pyrelease/internal/errors"
)

// Config is the root configuration structure for pyrelease.
// It replaces the working directory and environment lookups of a shell
// release script with explicit values handed to the orchestrator.
type Config struct {
	// Project describes the Python project being released.
	Project ProjectConfig `yaml:"project" mapstructure:"project" json:"project"`

	// Git contains settings for the commit, tag and push steps.
	Git GitConfig `yaml:"git" mapstructure:"git" json:"git"`

	// Publish contains settings for building and uploading distributions.
	Publish PublishConfig `yaml:"publish" mapstructure:"publish" json:"publish"`
}

// ProjectConfig locates the files the release mutates.
type ProjectConfig struct {
	// Root is the repository root. Relative file paths resolve against it.
	// Default: "."
	Root string `yaml:"root" mapstructure:"root" json:"root"`

	// MetadataFile is the packaging descriptor containing the version string.
	// Default: "setup.py"
	MetadataFile string `yaml:"metadata_file" mapstructure:"metadata_file" json:"metadata_file"`

	// ChangelogFile receives one new entry per release.
	// Default: "README.md"
	ChangelogFile string `yaml:"changelog_file" mapstructure:"changelog_file" json:"changelog_file"`

	// HistoryMarker is the changelog line after which entries are inserted.
	// Default: "History"
	HistoryMarker string `yaml:"history_marker" mapstructure:"history_marker" json:"history_marker"`
}

// GitConfig contains settings for git operations.
type GitConfig struct {
	// Remote is the name of the remote that receives the tag and branch.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote" json:"remote"`

	// Branch is the primary branch pushed after the tag.
	// Default: "master"
	Branch string `yaml:"branch" mapstructure:"branch" json:"branch"`
}

// PublishConfig contains settings for the build and upload step.
type PublishConfig struct {
	// CredentialsFile must exist before any release starts.
	// A leading "~/" expands to the user's home directory.
	// Default: "~/.pypirc"
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file" json:"credentials_file"`

	// Repository is the package index section name passed to the uploader.
	// Default: "pypi"
	Repository string `yaml:"repository" mapstructure:"repository" json:"repository"`

	// Python is the interpreter used for setup.py queries and builds.
	// Default: "python"
	Python string `yaml:"python" mapstructure:"python" json:"python"`

	// Uploader is the upload executable (twine-compatible CLI).
	// Default: "twine"
	Uploader string `yaml:"uploader" mapstructure:"uploader" json:"uploader"`

	// ArtifactDirs are removed by clean, relative to the project root.
	// Default: ["build", "dist"]
	ArtifactDirs []string `yaml:"artifact_dirs" mapstructure:"artifact_dirs" json:"artifact_dirs"`

	// ArtifactGlobs are glob patterns whose matches clean also removes.
	// Default: ["*.egg-info"]
	ArtifactGlobs []string `yaml:"artifact_globs" mapstructure:"artifact_globs" json:"artifact_globs"`

	// CommandTimeout bounds each external command.
	// Default: 10 minutes
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout" json:"command_timeout"`
}

// ProjectPath resolves p against the project root unless it is absolute.
func (c *Config) ProjectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.Root, p)
}

// MetadataPath returns the resolved path of the metadata file.
func (c *Config) MetadataPath() string {
	return c.ProjectPath(c.Project.MetadataFile)
}

// ChangelogPath returns the resolved path of the changelog file.
func (c *Config) ChangelogPath() string {
	return c.ProjectPath(c.Project.ChangelogFile)
}

// CredentialsPath returns the credentials file path with "~/" expanded.
// A relative path resolves against the project root.
func (c *Config) CredentialsPath() (string, error) {
	p, err := ExpandHome(c.Publish.CredentialsFile)
	if err != nil {
		return "", err
	}
	return c.ProjectPath(p), nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
