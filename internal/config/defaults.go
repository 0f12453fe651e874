package config

import (
	"github.com/mrz1836/pyrelease/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These defaults mirror a plain setuptools project released to PyPI
// from the master branch.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root:          ".",
			MetadataFile:  constants.DefaultMetadataFile,
			ChangelogFile: constants.DefaultChangelogFile,
			HistoryMarker: constants.DefaultHistoryMarker,
		},
		Git: GitConfig{
			Remote: constants.DefaultRemote,
			Branch: constants.DefaultBranch,
		},
		Publish: PublishConfig{
			CredentialsFile: constants.DefaultCredentialsFile,
			Repository:      constants.DefaultRepository,
			Python:          constants.DefaultPython,
			Uploader:        constants.DefaultUploader,
			ArtifactDirs:    []string{constants.BuildDir, constants.DistDir},
			ArtifactGlobs:   []string{constants.EggInfoGlob},
			CommandTimeout:  constants.DefaultCommandTimeout,
		},
	}
}
