package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/git"
	"github.com/mrz1836/pyrelease/internal/prompt"
	"github.com/mrz1836/pyrelease/internal/release"
	"github.com/mrz1836/pyrelease/internal/tui"
)

// ReleaseFlags holds flags specific to the release command.
type ReleaseFlags struct {
	// NewVersion answers the new version prompt.
	NewVersion string
	// Message answers the release message prompt.
	Message string
	// Yes answers the confirmation prompt affirmatively.
	Yes bool
	// SkipPublish stops after the push.
	SkipPublish bool
}

// AddReleaseCommand adds the release subcommand to the root command.
func AddReleaseCommand(root *cobra.Command, flags *GlobalFlags, env *Env) {
	relFlags := &ReleaseFlags{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Bump the version, tag, push and publish",
		Long: `Cut a release of the project.

release cleans old artifacts, reads the current version from setup.py and
refuses to start when the working tree has unstaged or staged changes, or
when the package index credentials file is missing. It then asks for the new
version, a one-line message and a confirmation.

Once confirmed it rewrites the version in setup.py, adds a history entry to
the changelog, commits "[<version>] <message>", creates an annotated tag,
pushes the tag and the branch, and publishes the package.

Nothing is rolled back on failure.

Examples:
  pyrelease release
  pyrelease release --new-version 0.0.6 --message "fix hset" --yes
  pyrelease release --skip-publish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd, flags, relFlags, env)
		},
	}

	cmd.Flags().StringVar(&relFlags.NewVersion, "new-version", "", "new version (skips the prompt)")
	cmd.Flags().StringVarP(&relFlags.Message, "message", "m", "", "release message (skips the prompt)")
	cmd.Flags().BoolVarP(&relFlags.Yes, "yes", "y", false, "confirm without asking")
	cmd.Flags().BoolVar(&relFlags.SkipPublish, "skip-publish", false, "stop after pushing")

	root.AddCommand(cmd)
}

func runRelease(cmd *cobra.Command, flags *GlobalFlags, relFlags *ReleaseFlags, env *Env) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	live := progressWriter(stdout, cmd.ErrOrStderr(), flags.Output)
	progress := tui.NewTTYOutput(live)
	// Only the build and upload stream to the operator. Git and version
	// queries are parsed and stay off the terminal.
	quiet := env.runner(cfg, nil)

	removed, err := newCleaner(cfg).Clean(ctx)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		progress.Info(fmt.Sprintf("cleaned %d artifact paths", len(removed)))
	}

	repo, err := git.NewRunner(ctx, quiet, cfg.Project.Root)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("work_dir", repo.WorkDir()).Msg("git repository found")

	orch := release.New(cfg, release.Deps{
		Git:       repo,
		Metadata:  newMetadataReader(quiet, cfg),
		Publisher: newPublisher(env.runner(cfg, live), cfg),
		Prompter:  newReleasePrompter(env, flags, relFlags, live),
		Reporter:  progress,
	}, release.Options{SkipPublish: relFlags.SkipPublish})

	res, err := orch.Run(ctx)
	if stderrors.Is(err, errors.ErrReleaseDeclined) {
		progress.Warning("release declined, nothing changed")
		if flags.Output == OutputJSON {
			if jerr := tui.NewJSONOutput(stdout).JSON(res); jerr != nil {
				return jerr
			}
		}
		return err
	}
	if err != nil {
		return err
	}

	return printRelease(stdout, flags.Output, cfg, res)
}

// newReleasePrompter answers from flags first and asks the operator for the
// rest. Forms are used only on an interactive terminal in text mode.
func newReleasePrompter(env *Env, flags *GlobalFlags, relFlags *ReleaseFlags, out io.Writer) prompt.Prompter {
	lines := prompt.NewLinePrompter(env.Stdin, out)
	interactive := flags.Output != OutputJSON && env.Interactive != nil && env.Interactive()
	base := prompt.ForTerminal(interactive, lines)

	var answers [3]*string
	if relFlags.NewVersion != "" {
		answers[0] = prompt.Answer(relFlags.NewVersion)
	}
	if relFlags.Message != "" {
		answers[1] = prompt.Answer(relFlags.Message)
	}
	if relFlags.Yes {
		answers[2] = prompt.Answer("y")
	}
	return prompt.NewScriptedPrompter(base, answers[:]...)
}

func printRelease(w io.Writer, format string, cfg *config.Config, res *release.Result) error {
	out := tui.NewOutput(w, format)
	if format == OutputJSON {
		return out.JSON(res)
	}

	published := "skipped"
	if res.Published != nil {
		published = res.Published.Repository
	}
	out.Fields([][2]string{
		{"Version", res.CurrentVersion + " -> " + res.NewVersion},
		{"Commit", res.CommitMessage},
		{"Tag", res.Tag},
		{"Remote", cfg.Git.Remote},
		{"Published", published},
	})
	out.Success("released " + res.NewVersion)
	return nil
}
