package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/errors"
)

// HomeDir returns the pyrelease home directory.
// PYRELEASE_HOME wins when set; otherwise ~/.pyrelease.
func HomeDir() (string, error) {
	if home := os.Getenv(constants.EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AppHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.pyrelease/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the path to the project configuration file
// inside projectDir. An empty projectDir yields a path relative to the
// current directory.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, constants.ProjectConfigName)
}
