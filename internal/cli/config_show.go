package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/tui"
)

// configFile reports one config file considered during loading.
type configFile struct {
	Path   string `json:"path" yaml:"path"`
	Loaded bool   `json:"loaded" yaml:"loaded"`
}

// configDocument is what config show prints. Durations are rendered as
// strings ("10m0s") in both formats.
type configDocument struct {
	Files   []configFile         `json:"files" yaml:"files"`
	Project config.ProjectConfig `json:"project" yaml:"project"`
	Git     config.GitConfig     `json:"git" yaml:"git"`
	Publish publishDocument      `json:"publish" yaml:"publish"`
}

type publishDocument struct {
	CredentialsFile string   `json:"credentials_file" yaml:"credentials_file"`
	Repository      string   `json:"repository" yaml:"repository"`
	Python          string   `json:"python" yaml:"python"`
	Uploader        string   `json:"uploader" yaml:"uploader"`
	ArtifactDirs    []string `json:"artifact_dirs" yaml:"artifact_dirs"`
	ArtifactGlobs   []string `json:"artifact_globs" yaml:"artifact_globs"`
	CommandTimeout  string   `json:"command_timeout" yaml:"command_timeout"`
}

// AddConfigCommand adds the config command group with its show subcommand.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pyrelease configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration a release would use, after merging defaults,
the global config (~/.pyrelease/config.yaml), the project config
(.pyrelease.yaml) and PYRELEASE_* environment variables.

Printed as YAML, or as JSON with --output json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, flags)
		},
	})

	root.AddCommand(cmd)
}

func runConfigShow(cmd *cobra.Command, flags *GlobalFlags) error {
	cfg, err := loadConfig(cmd.Context(), flags)
	if err != nil {
		return err
	}

	doc := configDocument{
		Files:   consideredFiles(flags),
		Project: cfg.Project,
		Git:     cfg.Git,
		Publish: publishDocument{
			CredentialsFile: cfg.Publish.CredentialsFile,
			Repository:      cfg.Publish.Repository,
			Python:          cfg.Publish.Python,
			Uploader:        cfg.Publish.Uploader,
			ArtifactDirs:    cfg.Publish.ArtifactDirs,
			ArtifactGlobs:   cfg.Publish.ArtifactGlobs,
			CommandTimeout:  cfg.Publish.CommandTimeout.String(),
		},
	}

	if flags.Output == OutputJSON {
		return tui.NewJSONOutput(cmd.OutOrStdout()).JSON(doc)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return enc.Close()
}

// consideredFiles lists the global and project config paths in load order.
func consideredFiles(flags *GlobalFlags) []configFile {
	var files []configFile
	if global, err := config.GlobalConfigPath(); err == nil {
		files = append(files, configFile{Path: global, Loaded: exists(global)})
	}
	projectPath := flags.ConfigFile
	if projectPath == "" {
		projectPath = config.ProjectConfigPath(flags.Dir)
	}
	return append(files, configFile{Path: projectPath, Loaded: exists(projectPath)})
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
