// Package constants provides centralized constant values used throughout pyrelease.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by pyrelease for its own data.
const (
	// AppHome is the hidden directory name where pyrelease stores config and logs.
	// This directory is created in the user's home directory.
	AppHome = ".pyrelease"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// EnvPrefix is the prefix for environment variable overrides (PYRELEASE_*).
	EnvPrefix = "PYRELEASE"

	// EnvHome overrides the location of AppHome.
	EnvHome = "PYRELEASE_HOME"
)

// Project layout defaults, matching a setuptools project.
const (
	// DefaultMetadataFile is the packaging descriptor holding the version string.
	DefaultMetadataFile = "setup.py"

	// DefaultChangelogFile is the document that receives release entries.
	DefaultChangelogFile = "README.md"

	// DefaultHistoryMarker is the line after which new entries are inserted.
	DefaultHistoryMarker = "History"

	// DefaultCredentialsFile is the package index credentials file.
	DefaultCredentialsFile = "~/.pypirc"

	// DefaultRepository is the package index name passed to the uploader.
	DefaultRepository = "pypi"

	// DefaultPython is the interpreter used to run setup.py.
	DefaultPython = "python"

	// DefaultUploader is the executable that uploads distributions.
	DefaultUploader = "twine"

	// DistDir is where sdist writes its archives.
	DistDir = "dist"

	// BuildDir is the setuptools build output directory.
	BuildDir = "build"

	// EggInfoGlob matches packaging metadata directories.
	EggInfoGlob = "*.egg-info"
)

// Git defaults.
const (
	// DefaultRemote is the remote that receives the tag and branch.
	DefaultRemote = "origin"

	// DefaultBranch is the primary branch pushed after tagging.
	DefaultBranch = "master"
)

// Timeout configurations for external commands.
const (
	// DefaultCommandTimeout bounds each external command (build, upload, git).
	DefaultCommandTimeout = 10 * time.Minute
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10
	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3
	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 28
	// LogCompress gzips rotated files.
	LogCompress = true
)
