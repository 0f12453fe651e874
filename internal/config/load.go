package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/errors"
)

// newViperInstance creates a new Viper instance with standard pyrelease configuration.
// This includes environment variable prefix (PYRELEASE_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence:
//  1. Environment variables (PYRELEASE_* prefix)
//  2. Project config (<projectDir>/.pyrelease.yaml)
//  3. Global config (~/.pyrelease/config.yaml)
//  4. Built-in defaults
//
// projectDir is where the project config is looked up; an empty value means
// the current directory. Missing config files are not an error.
func Load(ctx context.Context, projectDir string) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v, projectDir); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("project.root", cfg.Project.Root).
		Str("project.metadata_file", cfg.Project.MetadataFile).
		Str("publish.repository", cfg.Publish.Repository).
		Dur("publish.command_timeout", cfg.Publish.CommandTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.pyrelease/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file.
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper, projectDir string) error {
	projectConfigPath := ProjectConfigPath(projectDir)
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, projectDir string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, projectDir)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		ApplyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level. This backs the --config flag
// and gives tests precise control over which files are read.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("project.root", d.Project.Root)
	v.SetDefault("project.metadata_file", d.Project.MetadataFile)
	v.SetDefault("project.changelog_file", d.Project.ChangelogFile)
	v.SetDefault("project.history_marker", d.Project.HistoryMarker)

	v.SetDefault("git.remote", d.Git.Remote)
	v.SetDefault("git.branch", d.Git.Branch)

	v.SetDefault("publish.credentials_file", d.Publish.CredentialsFile)
	v.SetDefault("publish.repository", d.Publish.Repository)
	v.SetDefault("publish.python", d.Publish.Python)
	v.SetDefault("publish.uploader", d.Publish.Uploader)
	v.SetDefault("publish.artifact_dirs", d.Publish.ArtifactDirs)
	v.SetDefault("publish.artifact_globs", d.Publish.ArtifactGlobs)
	v.SetDefault("publish.command_timeout", d.Publish.CommandTimeout.String())
}

// ApplyOverrides merges non-zero override values into cfg.
func ApplyOverrides(cfg, overrides *Config) {
	applyProjectOverrides(&cfg.Project, &overrides.Project)

	if overrides.Git.Remote != "" {
		cfg.Git.Remote = overrides.Git.Remote
	}
	if overrides.Git.Branch != "" {
		cfg.Git.Branch = overrides.Git.Branch
	}

	applyPublishOverrides(&cfg.Publish, &overrides.Publish)
}

// applyProjectOverrides applies project-related overrides to the config.
func applyProjectOverrides(cfg, overrides *ProjectConfig) {
	if overrides.Root != "" {
		cfg.Root = overrides.Root
	}
	if overrides.MetadataFile != "" {
		cfg.MetadataFile = overrides.MetadataFile
	}
	if overrides.ChangelogFile != "" {
		cfg.ChangelogFile = overrides.ChangelogFile
	}
	if overrides.HistoryMarker != "" {
		cfg.HistoryMarker = overrides.HistoryMarker
	}
}

// applyPublishOverrides applies publish-related overrides to the config.
func applyPublishOverrides(cfg, overrides *PublishConfig) {
	if overrides.CredentialsFile != "" {
		cfg.CredentialsFile = overrides.CredentialsFile
	}
	if overrides.Repository != "" {
		cfg.Repository = overrides.Repository
	}
	if overrides.Python != "" {
		cfg.Python = overrides.Python
	}
	if overrides.Uploader != "" {
		cfg.Uploader = overrides.Uploader
	}
	if len(overrides.ArtifactDirs) > 0 {
		cfg.ArtifactDirs = overrides.ArtifactDirs
	}
	if len(overrides.ArtifactGlobs) > 0 {
		cfg.ArtifactGlobs = overrides.ArtifactGlobs
	}
	if overrides.CommandTimeout != 0 {
		cfg.CommandTimeout = overrides.CommandTimeout
	}
}

// viperDecoderOption returns the decode hooks used for every Unmarshal.
// Durations are written as strings ("10m") in YAML and env vars.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
