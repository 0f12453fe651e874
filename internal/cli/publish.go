package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pyrelease/internal/tui"
)

// AddPublishCommand adds the publish subcommand to the root command.
func AddPublishCommand(root *cobra.Command, flags *GlobalFlags, env *Env) {
	root.AddCommand(&cobra.Command{
		Use:   "publish",
		Short: "Build a source distribution and upload it",
		Long: `Clean old artifacts, build a source distribution with setup.py sdist
and upload every archive in dist/ with twine to the configured repository.

publish does not touch version control. Use release to cut a new version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, flags, env)
		},
	})
}

func runPublish(cmd *cobra.Command, flags *GlobalFlags, env *Env) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}

	live := progressWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.Output)
	progress := tui.NewTTYOutput(live)
	progress.Info(fmt.Sprintf("publishing %s to %s", cfg.Project.Root, cfg.Publish.Repository))

	res, err := newPublisher(env.runner(cfg, live), cfg).Publish(ctx)
	if err != nil {
		return err
	}

	out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
	if flags.Output == OutputJSON {
		return out.JSON(res)
	}
	out.Success(fmt.Sprintf("uploaded %s to %s", strings.Join(res.Artifacts, ", "), res.Repository))
	return nil
}
