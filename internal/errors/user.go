package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Release preconditions
	// ===================
	{
		err: ErrCredentialsMissing,
		info: ErrorInfo{
			Message: "No package index credentials found; nothing was changed.",
			Action:  "Create ~/.pypirc (or set publish.credentials_file) with your index credentials before releasing.",
		},
	},
	{
		err: ErrUnstagedChanges,
		info: ErrorInfo{
			Message: "The working tree has unstaged changes.",
			Action:  "Commit or stash your changes, then run the release again.",
		},
	},
	{
		err: ErrStagedChanges,
		info: ErrorInfo{
			Message: "There are staged but uncommitted changes.",
			Action:  "Commit or reset the staged changes, then run the release again.",
		},
	},
	{
		err: ErrReleaseDeclined,
		info: ErrorInfo{
			Message: "Release aborted; nothing was changed.",
		},
	},
	{
		err: ErrPromptCanceled,
		info: ErrorInfo{
			Message: "Prompt canceled; nothing was changed.",
		},
	},

	// ===================
	// Project files
	// ===================
	{
		err: ErrVersionQuery,
		info: ErrorInfo{
			Message: "Could not read the current version from the project metadata.",
			Action:  "Check that 'python setup.py --version' works in the project root.",
		},
	},
	{
		err: ErrVersionNotFound,
		info: ErrorInfo{
			Message: "The current version string does not appear in the metadata file.",
			Action: "Check project.metadata_file points at the file that declares the version. " +
				"setuptools normalizes versions (1.0.0b01 is reported as 1.0.0b1), so write the version " +
				"in the file exactly as 'python setup.py --version' prints it.",
		},
	},
	{
		err: ErrHistoryMarkerNotFound,
		info: ErrorInfo{
			Message: "The changelog has no history marker line.",
			Action:  "Add the marker line (project.history_marker) to the changelog file.",
		},
	},

	// ===================
	// External commands
	// ===================
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "Git operation failed. Earlier release steps are not rolled back.",
			Action:  "Inspect 'git log' and 'git tag', finish or undo the release by hand.",
		},
	},
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "The project root is not a git repository.",
			Action:  "Run pyrelease from the repository, or pass --dir.",
		},
	},
	{
		err: ErrNoDistributions,
		info: ErrorInfo{
			Message: "The build produced no distribution archives.",
			Action:  "Run 'python setup.py sdist' manually and check its output.",
		},
	},
	{
		err: ErrCommandFailed,
		info: ErrorInfo{
			Message: "An external command failed.",
			Action:  "See the command output above; earlier release steps are not rolled back.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidProject,
		info: ErrorInfo{
			Message: "Invalid project configuration.",
			Action:  "Review the project section of .pyrelease.yaml.",
		},
	},
	{
		err: ErrConfigInvalidGit,
		info: ErrorInfo{
			Message: "Invalid git configuration.",
			Action:  "Review the git section of .pyrelease.yaml.",
		},
	},
	{
		err: ErrConfigInvalidPublish,
		info: ErrorInfo{
			Message: "Invalid publish configuration.",
			Action:  "Review the publish section of .pyrelease.yaml.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error using errors.Is()
// traversal. Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
