// Package release runs the release workflow: read the current version,
// check the repository is clean, ask for the new version and message,
// rewrite the project files, commit, tag, push and publish.
//
// The workflow is strictly linear. Any failure stops it where it is and
// nothing already done is undone; a failed push can leave a local commit
// and tag behind.
package release

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/ctxutil"
	relerrors "github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/git"
	"github.com/mrz1836/pyrelease/internal/project"
	"github.com/mrz1836/pyrelease/internal/prompt"
	"github.com/mrz1836/pyrelease/internal/publish"
)

// VersionReader reports the version currently declared by the project.
type VersionReader interface {
	CurrentVersion(ctx context.Context) (string, error)
}

// Publisher builds and uploads the distribution.
type Publisher interface {
	Publish(ctx context.Context) (*publish.Result, error)
}

// Reporter receives progress messages. tui.Output satisfies it.
type Reporter interface {
	Info(msg string)
	Success(msg string)
}

// Deps are the collaborators an Orchestrator drives.
type Deps struct {
	Git       git.Runner
	Metadata  VersionReader
	Publisher Publisher
	Prompter  prompt.Prompter
	Reporter  Reporter
}

// Options tune a single run.
type Options struct {
	// SkipPublish stops the run after the push.
	SkipPublish bool
}

// Result records what a run did. Fields are filled in as steps complete,
// so a partial Result accompanies a mid-run failure.
type Result struct {
	CurrentVersion string          `json:"current_version"`
	NewVersion     string          `json:"new_version,omitempty"`
	Message        string          `json:"message,omitempty"`
	Head           string          `json:"head"`
	FilesChanged   []string        `json:"files_changed,omitempty"`
	CommitMessage  string          `json:"commit_message,omitempty"`
	Tag            string          `json:"tag,omitempty"`
	Pushed         []string        `json:"pushed,omitempty"`
	Published      *publish.Result `json:"published,omitempty"`
	Declined       bool            `json:"declined"`
}

// Orchestrator runs the release workflow.
type Orchestrator struct {
	cfg  *config.Config
	deps Deps
	opts Options
}

// New creates an Orchestrator.
func New(cfg *config.Config, deps Deps, opts Options) *Orchestrator {
	if deps.Reporter == nil {
		deps.Reporter = nopReporter{}
	}
	return &Orchestrator{cfg: cfg, deps: deps, opts: opts}
}

// Run executes the workflow. When the operator declines, Run returns the
// partial Result together with ErrReleaseDeclined and nothing has been
// changed.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "release").Logger()
	res := &Result{}

	current, err := o.deps.Metadata.CurrentVersion(ctx)
	if err != nil {
		return res, fmt.Errorf("read current version: %w", err)
	}
	res.CurrentVersion = current

	head, err := o.deps.Git.HeadSummary(ctx)
	if err != nil {
		return res, fmt.Errorf("describe HEAD: %w", err)
	}
	res.Head = head
	logger.Debug().Str("current_version", current).Str("head", head).Msg("release starting")

	if err := o.checkCredentials(); err != nil {
		return res, err
	}
	if err := o.checkUnstaged(ctx); err != nil {
		return res, err
	}
	if err := o.checkStaged(ctx); err != nil {
		return res, err
	}

	newVersion, err := o.deps.Prompter.ReadLine(ctx, fmt.Sprintf("New version (current %s):", current))
	if err != nil {
		return res, fmt.Errorf("read new version: %w", err)
	}
	res.NewVersion = newVersion

	message, err := o.deps.Prompter.ReadLine(ctx, "Release message:")
	if err != nil {
		return res, fmt.Errorf("read release message: %w", err)
	}
	res.Message = message

	answer, err := o.deps.Prompter.ReadLine(ctx, ConfirmPrompt(newVersion, message, head))
	if err != nil {
		return res, fmt.Errorf("read confirmation: %w", err)
	}
	if !prompt.IsAffirmative(answer) {
		logger.Info().Str("answer", answer).Msg("release declined")
		res.Declined = true
		return res, relerrors.ErrReleaseDeclined
	}

	if err := o.applyEdits(ctx, res); err != nil {
		return res, err
	}

	if err := o.commitAndTag(ctx, res); err != nil {
		return res, err
	}

	if err := o.push(ctx, res); err != nil {
		return res, err
	}

	if o.opts.SkipPublish {
		logger.Info().Msg("publish skipped")
		return res, nil
	}

	o.deps.Reporter.Info("publishing to " + o.cfg.Publish.Repository)
	published, err := o.deps.Publisher.Publish(ctx)
	if err != nil {
		return res, fmt.Errorf("publish: %w", err)
	}
	res.Published = published
	o.deps.Reporter.Success(fmt.Sprintf("published %s to %s", newVersion, o.cfg.Publish.Repository))

	return res, nil
}

// ConfirmPrompt renders the confirmation question for a planned release.
func ConfirmPrompt(newVersion, message, head string) string {
	return fmt.Sprintf("Making [%s] %s at %s\nProceed? [Y/n]", newVersion, message, head)
}

// CommitMessage renders the release commit message.
func CommitMessage(newVersion, message string) string {
	return "[" + newVersion + "] " + message
}

func (o *Orchestrator) checkCredentials() error {
	path, err := o.cfg.CredentialsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %w", path, relerrors.ErrCredentialsMissing)
		}
		return fmt.Errorf("check credentials file %s: %w", path, err)
	}
	return nil
}

func (o *Orchestrator) checkUnstaged(ctx context.Context) error {
	diff, err := o.deps.Git.DiffUnstaged(ctx)
	if err != nil {
		return fmt.Errorf("check unstaged changes: %w", err)
	}
	if diff != "" {
		return relerrors.ErrUnstagedChanges
	}
	return nil
}

func (o *Orchestrator) checkStaged(ctx context.Context) error {
	diff, err := o.deps.Git.DiffStaged(ctx)
	if err != nil {
		return fmt.Errorf("check staged changes: %w", err)
	}
	if diff != "" {
		return relerrors.ErrStagedChanges
	}
	return nil
}

// applyEdits rewrites the metadata and changelog files. Both new contents
// are computed before either file is written.
func (o *Orchestrator) applyEdits(ctx context.Context, res *Result) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	edits, err := project.PrepareEdits(project.ReleaseInput{
		MetadataPath:  o.cfg.MetadataPath(),
		ChangelogPath: o.cfg.ChangelogPath(),
		HistoryMarker: o.cfg.Project.HistoryMarker,
		OldVersion:    res.CurrentVersion,
		NewVersion:    res.NewVersion,
		Message:       res.Message,
	})
	if err != nil {
		return err
	}
	if err := edits.Apply(); err != nil {
		return err
	}
	res.FilesChanged = edits.Paths()

	zerolog.Ctx(ctx).Debug().Strs("files", res.FilesChanged).Msg("project files updated")
	return nil
}

func (o *Orchestrator) commitAndTag(ctx context.Context, res *Result) error {
	if err := o.deps.Git.AddTracked(ctx); err != nil {
		return fmt.Errorf("stage release: %w", err)
	}

	// Staging must leave nothing behind; anything still unstaged was
	// changed by someone else during the run.
	if err := o.checkUnstaged(ctx); err != nil {
		return err
	}

	commitMsg := CommitMessage(res.NewVersion, res.Message)
	if err := o.deps.Git.Commit(ctx, commitMsg); err != nil {
		return fmt.Errorf("commit release: %w", err)
	}
	res.CommitMessage = commitMsg
	o.deps.Reporter.Success("committed " + commitMsg)

	if err := o.deps.Git.CreateAnnotatedTag(ctx, res.NewVersion, res.Message); err != nil {
		return fmt.Errorf("tag release: %w", err)
	}
	res.Tag = res.NewVersion
	o.deps.Reporter.Success("tagged " + res.NewVersion)
	return nil
}

// push sends the tag first, then the primary branch.
func (o *Orchestrator) push(ctx context.Context, res *Result) error {
	remote := o.cfg.Git.Remote
	for _, ref := range []string{res.Tag, o.cfg.Git.Branch} {
		if err := o.deps.Git.Push(ctx, remote, ref); err != nil {
			return fmt.Errorf("push %s: %w", ref, err)
		}
		res.Pushed = append(res.Pushed, ref)
	}
	o.deps.Reporter.Success(fmt.Sprintf("pushed %s and %s to %s", res.Tag, o.cfg.Git.Branch, remote))
	return nil
}

type nopReporter struct{}

func (nopReporter) Info(string)    {}
func (nopReporter) Success(string) {}
