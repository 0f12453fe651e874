package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/pyrelease/internal/tui"
)

// versionResult is the JSON document printed by version.
type versionResult struct {
	Version      string `json:"version"`
	MetadataFile string `json:"metadata_file"`
}

// AddVersionCommand adds the version subcommand to the root command.
func AddVersionCommand(root *cobra.Command, flags *GlobalFlags, env *Env) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the project's current version",
		Long: `Print the version declared by the project's setup.py, as reported by
"python setup.py --version". Use --version for pyrelease's own version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, flags, env)
		},
	})
}

func runVersion(cmd *cobra.Command, flags *GlobalFlags, env *Env) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}

	v, err := newMetadataReader(env.runner(cfg, nil), cfg).CurrentVersion(ctx)
	if err != nil {
		return err
	}

	out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
	if flags.Output == OutputJSON {
		return out.JSON(versionResult{Version: v, MetadataFile: cfg.MetadataPath()})
	}
	_, err = cmd.OutOrStdout().Write([]byte(v + "\n"))
	return err
}
