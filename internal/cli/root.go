package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// Env holds the process-level dependencies commands use. Tests replace
// them to avoid real terminals and real external commands.
type Env struct {
	// Stdin is read by the line prompter.
	Stdin io.Reader
	// Interactive reports whether prompts can use terminal forms.
	Interactive func() bool
	// NewRunner builds the external command runner. live, when non-nil,
	// receives command output as it is produced.
	NewRunner func(timeout time.Duration, live io.Writer) command.Runner
}

// DefaultEnv returns the Env for a real process.
func DefaultEnv() *Env {
	return &Env{
		Stdin:       os.Stdin,
		Interactive: tui.IsInteractive,
		NewRunner: func(timeout time.Duration, live io.Writer) command.Runner {
			r := command.NewExecRunner(timeout)
			if live != nil {
				return r.WithLiveOutput(live)
			}
			return r
		},
	}
}

// globalLogger stores the initialized logger for use by subcommands.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed; before that it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates the root command for the pyrelease CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, env *Env) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "pyrelease",
		Short: "Release a Python package: bump, tag, push and upload",
		Long: `pyrelease cuts a release of a setuptools project.

It reads the current version from setup.py, asks for the new version and a
one-line message, rewrites the version and the changelog, commits, creates an
annotated tag, pushes both, and uploads a fresh source distribution with twine.

Nothing is changed until the release is confirmed, and the working tree must
be clean before it starts.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			logger := InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddCleanCommand(cmd, flags, env)
	AddPublishCommand(cmd, flags, env)
	AddReleaseCommand(cmd, flags, env)
	AddVersionCommand(cmd, flags, env)
	AddHistoryCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the CLI with os.Args and reports any error.
// Errors go to stderr in text mode and to stdout as JSON in json mode.
// A declined release is reported as a warning and returned so the caller
// can map it to exit code 0.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, DefaultEnv())
	err := cmd.ExecuteContext(ctx)
	reportError(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.Output, err)
	return err
}

// reportError prints err for the operator. Declined releases were already
// reported by the release command.
func reportError(stdout, stderr io.Writer, format string, err error) {
	if err == nil || stderrors.Is(err, errors.ErrReleaseDeclined) {
		return
	}
	if format == OutputJSON {
		tui.NewJSONOutput(stdout).Error(err)
		return
	}
	tui.NewTTYOutput(stderr).Error(err)
}
