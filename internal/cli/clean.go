package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pyrelease/internal/tui"
)

// cleanResult is the JSON document printed by clean.
type cleanResult struct {
	Root    string   `json:"root"`
	Removed []string `json:"removed"`
}

// AddCleanCommand adds the clean subcommand to the root command.
func AddCleanCommand(root *cobra.Command, flags *GlobalFlags, _ *Env) {
	root.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove build, dist and egg-info directories",
		Long: `Remove the build output, distribution output and packaging metadata
directories from the project root.

Running clean on an already clean project is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, flags)
		},
	})
}

func runClean(cmd *cobra.Command, flags *GlobalFlags) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}

	removed, err := newCleaner(cfg).Clean(ctx)
	if err != nil {
		return err
	}
	if removed == nil {
		removed = []string{}
	}

	return printClean(cmd.OutOrStdout(), flags.Output, cleanResult{Root: cfg.Project.Root, Removed: removed})
}

func printClean(w io.Writer, format string, res cleanResult) error {
	out := tui.NewOutput(w, format)
	if format == OutputJSON {
		return out.JSON(res)
	}
	if len(res.Removed) == 0 {
		out.Info("nothing to clean")
		return nil
	}
	out.Success(fmt.Sprintf("removed %s", strings.Join(res.Removed, ", ")))
	return nil
}
