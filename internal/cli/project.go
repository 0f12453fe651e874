package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/project"
	"github.com/mrz1836/pyrelease/internal/publish"
)

// loadConfig resolves the effective configuration for the project in
// flags.Dir. An explicit --config file replaces the project config lookup.
// Override flags are applied last.
// The project root is made absolute so every later step agrees on it.
func loadConfig(ctx context.Context, flags *GlobalFlags) (*config.Config, error) {
	dir := flags.Dir
	if dir == "" {
		dir = "."
	}

	overrides, err := flags.Overrides.toConfig()
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if flags.ConfigFile != "" {
		if _, statErr := os.Stat(flags.ConfigFile); statErr != nil {
			return nil, errors.Wrapf(statErr, "config file %s", flags.ConfigFile)
		}
		// An unresolvable home just skips the global file.
		globalPath, _ := config.GlobalConfigPath()
		cfg, err = config.LoadFromPaths(ctx, flags.ConfigFile, globalPath)
		if err == nil {
			config.ApplyOverrides(cfg, overrides)
			if vErr := config.Validate(cfg); vErr != nil {
				err = errors.Wrap(vErr, "invalid configuration after overrides")
			}
		}
	} else {
		cfg, err = config.LoadWithOverrides(ctx, dir, overrides)
	}
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Join(dir, cfg.Project.Root)
	}
	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve project root")
	}
	cfg.Project.Root = root

	return cfg, nil
}

// toConfig converts the set override flags into a sparse config.
// A credentials file given on the command line is relative to the working
// directory, not the project root.
func (o OverrideFlags) toConfig() (*config.Config, error) {
	overrides := &config.Config{}
	overrides.Project.MetadataFile = o.MetadataFile
	overrides.Git.Remote = o.Remote
	overrides.Git.Branch = o.Branch
	overrides.Publish.Repository = o.Repository

	if o.CredentialsFile != "" {
		p, err := config.ExpandHome(o.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if p, err = filepath.Abs(p); err != nil {
			return nil, errors.Wrap(err, "failed to resolve credentials file")
		}
		overrides.Publish.CredentialsFile = p
	}

	return overrides, nil
}

// runner returns the external command runner for cfg. Command output is
// streamed to live when it is non-nil.
func (e *Env) runner(cfg *config.Config, live io.Writer) command.Runner {
	return e.NewRunner(cfg.Publish.CommandTimeout, live)
}

func newCleaner(cfg *config.Config) *publish.Cleaner {
	return publish.NewCleaner(cfg.Project.Root, cfg.Publish.ArtifactDirs, cfg.Publish.ArtifactGlobs)
}

func newPublisher(runner command.Runner, cfg *config.Config) *publish.Publisher {
	return publish.NewPublisher(runner, newCleaner(cfg), publish.Options{
		Root:         cfg.Project.Root,
		MetadataFile: cfg.Project.MetadataFile,
		Python:       cfg.Publish.Python,
		Uploader:     cfg.Publish.Uploader,
		Repository:   cfg.Publish.Repository,
	})
}

func newMetadataReader(runner command.Runner, cfg *config.Config) *project.SetupPyReader {
	return project.NewSetupPyReader(runner, cfg.Publish.Python, cfg.Project.Root, cfg.Project.MetadataFile)
}

// progressWriter is where command output and prompts go. JSON mode keeps
// stdout for the result document.
func progressWriter(stdout, stderr io.Writer, format string) io.Writer {
	if format == OutputJSON {
		return stderr
	}
	return stdout
}
