package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pyrelease/internal/project"
	"github.com/mrz1836/pyrelease/internal/tui"
)

// HistoryFlags holds flags specific to the history command.
type HistoryFlags struct {
	// Render formats the changelog as terminal markdown.
	Render bool
	// Limit caps the number of entries shown. Zero shows all.
	Limit int
}

// AddHistoryCommand adds the history subcommand to the root command.
func AddHistoryCommand(root *cobra.Command, flags *GlobalFlags) {
	histFlags := &HistoryFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the release history from the changelog",
		Long: `List the entries under the history marker of the changelog, newest first.

With --render the whole changelog is rendered as markdown for the terminal.
With --output json the entries are printed as a JSON array.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, flags, histFlags)
		},
	}

	cmd.Flags().BoolVar(&histFlags.Render, "render", false, "render the changelog as markdown")
	cmd.Flags().IntVarP(&histFlags.Limit, "limit", "n", 0, "show at most n entries")

	root.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, flags *GlobalFlags, histFlags *HistoryFlags) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}

	content, err := project.ReadChangelog(cfg.ChangelogPath())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if histFlags.Render && flags.Output != OutputJSON {
		rendered, err := tui.RenderMarkdown(content, tui.DefaultBoxWidth)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, rendered)
		return err
	}

	entries, err := project.ParseHistory(content, cfg.Project.HistoryMarker)
	if err != nil {
		return err
	}
	if histFlags.Limit > 0 && len(entries) > histFlags.Limit {
		entries = entries[:histFlags.Limit]
	}

	if flags.Output == OutputJSON {
		if entries == nil {
			entries = []project.Entry{}
		}
		return tui.NewJSONOutput(w).JSON(entries)
	}

	if len(entries) == 0 {
		tui.NewTTYOutput(w).Info("no releases recorded")
		return nil
	}
	pairs := make([][2]string, len(entries))
	for i, e := range entries {
		pairs[i] = [2]string{e.Version, e.Message}
	}
	tui.NewTTYOutput(w).Fields(pairs)
	_, err = fmt.Fprintf(w, "%d release(s)\n", len(entries))
	return err
}
