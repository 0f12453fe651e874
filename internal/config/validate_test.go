package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

// TestValidate_NilConfig tests that nil config returns error
func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	err := Validate(nil)

	require.Error(t, err)
	require.ErrorIs(t, err, relerrors.ErrConfigNil)
}

// TestValidate_DefaultConfig tests that default config is valid
func TestValidate_DefaultConfig(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty metadata file",
			mutate:  func(cfg *Config) { cfg.Project.MetadataFile = "" },
			wantErr: relerrors.ErrConfigInvalidProject,
			wantMsg: "project.metadata_file",
		},
		{
			name:    "blank history marker",
			mutate:  func(cfg *Config) { cfg.Project.HistoryMarker = "   " },
			wantErr: relerrors.ErrConfigInvalidProject,
			wantMsg: "project.history_marker",
		},
		{
			name:    "empty remote",
			mutate:  func(cfg *Config) { cfg.Git.Remote = "" },
			wantErr: relerrors.ErrConfigInvalidGit,
			wantMsg: "git.remote",
		},
		{
			name:    "empty branch",
			mutate:  func(cfg *Config) { cfg.Git.Branch = "" },
			wantErr: relerrors.ErrConfigInvalidGit,
			wantMsg: "git.branch",
		},
		{
			name:    "empty repository",
			mutate:  func(cfg *Config) { cfg.Publish.Repository = "" },
			wantErr: relerrors.ErrConfigInvalidPublish,
			wantMsg: "publish.repository",
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Config) { cfg.Publish.CommandTimeout = 0 },
			wantErr: relerrors.ErrConfigInvalidPublish,
			wantMsg: "command_timeout",
		},
		{
			name:    "absolute artifact dir",
			mutate:  func(cfg *Config) { cfg.Publish.ArtifactDirs = []string{"/tmp"} },
			wantErr: relerrors.ErrConfigInvalidPublish,
			wantMsg: "/tmp",
		},
		{
			name:    "artifact glob escapes root",
			mutate:  func(cfg *Config) { cfg.Publish.ArtifactGlobs = []string{"../*.egg-info"} },
			wantErr: relerrors.ErrConfigInvalidPublish,
			wantMsg: "../*.egg-info",
		},
		{
			name:    "artifact dir is the root itself",
			mutate:  func(cfg *Config) { cfg.Publish.ArtifactDirs = []string{"./"} },
			wantErr: relerrors.ErrConfigInvalidPublish,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestIsContainedPath(t *testing.T) {
	t.Parallel()

	assert.True(t, isContainedPath("build"))
	assert.True(t, isContainedPath("out/dist"))
	assert.True(t, isContainedPath("*.egg-info"))
	assert.False(t, isContainedPath(""))
	assert.False(t, isContainedPath("."))
	assert.False(t, isContainedPath(".."))
	assert.False(t, isContainedPath("../dist"))
	assert.False(t, isContainedPath("/abs"))
}
