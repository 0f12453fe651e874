// Package cli provides the command-line interface for pyrelease.
package cli

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/signal"
	"github.com/mrz1836/pyrelease/internal/tui"
)

// Exit codes for the CLI. External command failures exit with the
// command's own status instead.
const (
	// ExitSuccess indicates successful execution, including a declined release.
	ExitSuccess = 0
	// ExitError indicates a general error or unstaged changes.
	ExitError = 1
	// ExitStagedChanges indicates staged changes were present at start.
	ExitStagedChanges = 2
	// ExitCredentialsMissing indicates the package index credentials file is missing.
	ExitCredentialsMissing = 3
	// ExitProjectFile indicates the metadata or changelog file cannot be
	// updated: the version string or the history marker is missing.
	ExitProjectFile = 4
	// ExitPromptCanceled indicates the operator aborted a prompt.
	ExitPromptCanceled = 5
	// ExitInvalidInput indicates invalid flags or arguments (EX_USAGE).
	ExitInvalidInput = 64
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = tui.FormatText
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = tui.FormatJSON
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile replaces the project config lookup with an explicit file.
	ConfigFile string
	// Dir is the project directory. Defaults to the current directory.
	Dir string
	// Overrides holds per-invocation config values that beat every file
	// and environment setting.
	Overrides OverrideFlags
}

// OverrideFlags mirrors the config keys that can be set for one run.
// Empty values leave the loaded configuration untouched.
type OverrideFlags struct {
	Repository      string
	Remote          string
	Branch          string
	CredentialsFile string
	MetadataFile    string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "project config file (default <dir>/"+constants.ProjectConfigName+")")
	cmd.PersistentFlags().StringVarP(&flags.Dir, "dir", "C", ".", "project directory")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	o := &flags.Overrides
	cmd.PersistentFlags().StringVar(&o.Repository, "repository", "", "package index repository name (overrides publish.repository)")
	cmd.PersistentFlags().StringVar(&o.Remote, "remote", "", "git remote to push to (overrides git.remote)")
	cmd.PersistentFlags().StringVar(&o.Branch, "branch", "", "git branch to push (overrides git.branch)")
	cmd.PersistentFlags().StringVar(&o.CredentialsFile, "credentials-file", "", "package index credentials file (overrides publish.credentials_file)")
	cmd.PersistentFlags().StringVar(&o.MetadataFile, "metadata-file", "", "metadata file relative to the project root (overrides project.metadata_file)")
}

// BindGlobalFlags binds global flags to Viper for environment variable
// support. The PYRELEASE_ prefix is used (e.g., PYRELEASE_OUTPUT).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Use Root().PersistentFlags() to find flags defined on the root command,
	// even when called from a subcommand's PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// applyBoundFlags copies environment-provided values into flags for any
// flag not set on the command line.
func applyBoundFlags(v *viper.Viper, cmd *cobra.Command, flags *GlobalFlags) {
	rootFlags := cmd.Root().PersistentFlags()
	if !rootFlags.Changed("output") {
		flags.Output = v.GetString("output")
	}
	if !rootFlags.Changed("verbose") && !rootFlags.Changed("quiet") {
		flags.Verbose = v.GetBool("verbose")
		flags.Quiet = v.GetBool("quiet")
	}
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the process exit code for err.
//
//   - nil and a declined release exit 0
//   - unstaged changes exit 1, staged changes 2, missing credentials 3
//   - a failed external command exits with that command's status
//   - a version string or history marker missing from its file exits 4
//   - an aborted prompt exits 5
//   - an interrupt exits 130
//   - invalid flags or arguments exit 64
//   - anything else exits 1
func ExitCodeForError(err error) int {
	if err == nil || stderrors.Is(err, errors.ErrReleaseDeclined) {
		return ExitSuccess
	}

	switch {
	case stderrors.Is(err, errors.ErrUnstagedChanges):
		return ExitError
	case stderrors.Is(err, errors.ErrStagedChanges):
		return ExitStagedChanges
	case stderrors.Is(err, errors.ErrCredentialsMissing):
		return ExitCredentialsMissing
	}

	if code, ok := errors.ExitCodeOf(err); ok && code > 0 {
		return code
	}

	switch {
	case stderrors.Is(err, errors.ErrVersionNotFound), stderrors.Is(err, errors.ErrHistoryMarkerNotFound):
		return ExitProjectFile
	case stderrors.Is(err, errors.ErrPromptCanceled):
		return ExitPromptCanceled
	}

	if stderrors.Is(err, context.Canceled) {
		return signal.ExitCodeInterrupted
	}

	if stderrors.Is(err, errors.ErrInvalidOutputFormat) || isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts 0 arg(s)",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
