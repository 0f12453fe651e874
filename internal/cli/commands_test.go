package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/testutil"
)

func TestCleanCommand(t *testing.T) {
	p := newTestProject(t)
	for _, dir := range []string{"build", "dist", "redis_types.egg-info"} {
		require.NoError(t, os.MkdirAll(filepath.Join(p.root, dir), 0o750))
	}

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "-o", "json", "clean")
	require.NoError(t, err)

	var res cleanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, []string{"build", "dist", "redis_types.egg-info"}, res.Removed)
	for _, dir := range res.Removed {
		assert.NoDirExists(t, filepath.Join(p.root, dir))
	}

	// A second run finds nothing and still succeeds.
	stdout, _, err = executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "clean")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nothing to clean")
}

func TestPublishCommand(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	stdout, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "-o", "json", "publish")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"python setup.py sdist",
		"twine upload --repository pypi " + filepath.Join("dist", "redis-types-1.2.4.tar.gz"),
	}, fake.Lines())

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "pypi", res["repository"])
}

func TestPublishCommand_UploadFailureExitCode(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)
	fake.Fail("twine upload --repository pypi "+filepath.Join("dist", "redis-types-1.2.4.tar.gz"), 5, "403 Forbidden")

	_, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "publish")
	require.Error(t, err)
	assert.Equal(t, 5, ExitCodeForError(err))
}

func TestVersionCommand(t *testing.T) {
	p := newTestProject(t)
	fake := testutil.NewFakeRunner().Respond("python setup.py --version", "warning: something\n1.2.3\n")

	stdout, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", stdout)

	stdout, _, err = executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "-o", "json", "version")
	require.NoError(t, err)
	var res versionResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "1.2.3", res.Version)
	assert.Equal(t, filepath.Join(p.root, "setup.py"), res.MetadataFile)
}

func TestVersionCommand_QueryFails(t *testing.T) {
	p := newTestProject(t)
	fake := testutil.NewFakeRunner().Fail("python setup.py --version", 2, "SyntaxError")

	_, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "version")
	require.ErrorIs(t, err, errors.ErrVersionQuery)
	assert.Equal(t, 2, ExitCodeForError(err))
}

func TestHistoryCommand(t *testing.T) {
	p := newTestProject(t)

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "-o", "json", "history")
	require.NoError(t, err)

	var entries []map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "1.2.3", entries[0]["version"])
	assert.Equal(t, "add hset", entries[0]["message"])

	stdout, _, err = executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "history", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")
	assert.NotContains(t, stdout, "1.2.2")
	assert.Contains(t, stdout, "1 release(s)")
}

func TestHistoryCommand_Render(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	p := newTestProject(t)

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "history", "--render")
	require.NoError(t, err)
	assert.Contains(t, stdout, "redis-types")
	assert.Contains(t, stdout, "History")
}

func TestConfigShowCommand(t *testing.T) {
	p := newTestProject(t)
	t.Setenv("PYRELEASE_GIT_BRANCH", "main")

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "config", "show")
	require.NoError(t, err)

	var doc configDocument
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, p.root, doc.Project.Root)
	assert.Equal(t, "setup.py", doc.Project.MetadataFile)
	assert.Equal(t, "main", doc.Git.Branch)
	assert.Equal(t, p.credentials, doc.Publish.CredentialsFile)
	assert.Equal(t, "10m0s", doc.Publish.CommandTimeout)
	require.Len(t, doc.Files, 2)
	assert.True(t, doc.Files[1].Loaded)
}

func TestConfigShowCommand_ExplicitFile(t *testing.T) {
	p := newTestProject(t)
	explicit := filepath.Join(t.TempDir(), "release.yaml")
	writeTestFile(t, explicit, "publish:\n  repository: testpypi\n")

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""),
		"-C", p.root, "-c", explicit, "-o", "json", "config", "show")
	require.NoError(t, err)

	var doc configDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "testpypi", doc.Publish.Repository)
	assert.Equal(t, explicit, doc.Files[len(doc.Files)-1].Path)
}

func TestReleaseCommand_FlagsAnswerPrompts(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	stdout, _, err := executeCmd(t, newTestEnv(fake, ""),
		"-C", p.root, "release", "--new-version", "1.2.4", "-m", "fix hget", "--yes")
	require.NoError(t, err)

	assert.Contains(t, readTestFile(t, filepath.Join(p.root, "setup.py")), "version='1.2.4'")
	assert.Contains(t, readTestFile(t, filepath.Join(p.root, "README.md")), "History\n* 1.2.4\tfix hget\n* 1.2.3\tadd hset\n")
	assert.Contains(t, stdout, "released 1.2.4")

	lines := fake.Lines()
	assert.Contains(t, lines, "git commit -m [1.2.4] fix hget")
	assert.Contains(t, lines, "git tag -a 1.2.4 -m fix hget")
	assert.Contains(t, lines, "git push origin 1.2.4")
	assert.Contains(t, lines, "git push origin master")
	assert.Contains(t, lines, "python setup.py sdist")
}

func TestReleaseCommand_PromptsFromStdin(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	stdout, _, err := executeCmd(t, newTestEnv(fake, "1.2.4\nfix hget\n\n"),
		"-C", p.root, "release", "--skip-publish")
	require.NoError(t, err)

	assert.Contains(t, stdout, "New version (current 1.2.3):")
	assert.Contains(t, stdout, "Making [1.2.4] fix hget at abc1234 add hset")
	assert.NotContains(t, fake.Lines(), "python setup.py sdist")
	assert.Contains(t, stdout, "skipped")
}

func TestReleaseCommand_Declined(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	stdout, _, err := executeCmd(t, newTestEnv(fake, "1.2.4\nfix hget\nn\n"), "-C", p.root, "release")
	require.ErrorIs(t, err, errors.ErrReleaseDeclined)
	assert.Equal(t, ExitSuccess, ExitCodeForError(err))
	assert.Contains(t, stdout, "release declined")

	assert.Equal(t, testSetupPy, readTestFile(t, filepath.Join(p.root, "setup.py")))
	assert.Equal(t, testReadme, readTestFile(t, filepath.Join(p.root, "README.md")))
	for _, line := range fake.Lines() {
		assert.False(t, strings.HasPrefix(line, "git commit"), line)
	}
}

func TestReleaseCommand_Guards(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *testProject, fake *testutil.FakeRunner)
		wantErr  error
		wantCode int
	}{
		{
			name: "missing credentials",
			setup: func(p *testProject, _ *testutil.FakeRunner) {
				require.NoError(t, os.Remove(p.credentials))
			},
			wantErr:  errors.ErrCredentialsMissing,
			wantCode: ExitCredentialsMissing,
		},
		{
			name: "unstaged changes",
			setup: func(_ *testProject, fake *testutil.FakeRunner) {
				fake.Respond("git diff", "diff --git a/setup.py b/setup.py\n")
			},
			wantErr:  errors.ErrUnstagedChanges,
			wantCode: ExitError,
		},
		{
			name: "staged changes",
			setup: func(_ *testProject, fake *testutil.FakeRunner) {
				fake.Respond("git diff --cached", "diff --git a/README.md b/README.md\n")
			},
			wantErr:  errors.ErrStagedChanges,
			wantCode: ExitStagedChanges,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestProject(t)
			fake := releaseRunner(t, p.root)
			tc.setup(p, fake)

			_, _, err := executeCmd(t, newTestEnv(fake, "1.2.4\nfix\ny\n"), "-C", p.root, "release")
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantCode, ExitCodeForError(err))
			assert.Equal(t, testSetupPy, readTestFile(t, filepath.Join(p.root, "setup.py")))
		})
	}
}

func TestReleaseCommand_JSON(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	stdout, stderr, err := executeCmd(t, newTestEnv(fake, "1.2.4\nfix hget\ny\n"), "-C", p.root, "-o", "json", "release")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "1.2.3", res["current_version"])
	assert.Equal(t, "1.2.4", res["new_version"])
	assert.Equal(t, "1.2.4", res["tag"])
	assert.Contains(t, stderr, "Proceed? [Y/n]")
}

func TestReleaseCommand_RejectsArgs(t *testing.T) {
	p := newTestProject(t)
	_, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""), "-C", p.root, "release", "1.2.4")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestConfigShowCommand_MissingExplicitFile(t *testing.T) {
	p := newTestProject(t)
	_, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""),
		"-C", p.root, "-c", filepath.Join(p.root, "missing.yaml"), "config", "show")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

func TestPublishCommand_RepositoryFlagBeatsEnv(t *testing.T) {
	t.Setenv("PYRELEASE_PUBLISH_REPOSITORY", "envindex")
	archive := filepath.Join("dist", "redis-types-1.2.4.tar.gz")

	p := newTestProject(t)
	fake := releaseRunner(t, p.root)
	_, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "publish")
	require.NoError(t, err)
	assert.Contains(t, fake.Lines(), "twine upload --repository envindex "+archive)

	fake = releaseRunner(t, p.root)
	stdout, _, err := executeCmd(t, newTestEnv(fake, ""), "-C", p.root, "-o", "json", "publish", "--repository", "testpypi")
	require.NoError(t, err)
	assert.Contains(t, fake.Lines(), "twine upload --repository testpypi "+archive)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "testpypi", res["repository"])
}

func TestConfigShowCommand_OverrideFlags(t *testing.T) {
	p := newTestProject(t)
	t.Setenv("PYRELEASE_GIT_BRANCH", "develop")
	creds, err := filepath.Abs("other.pypirc")
	require.NoError(t, err)

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""),
		"-C", p.root, "-o", "json", "config", "show",
		"--branch", "main", "--remote", "upstream",
		"--metadata-file", "pkg/setup.py", "--credentials-file", "other.pypirc")
	require.NoError(t, err)

	var doc configDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "main", doc.Git.Branch)
	assert.Equal(t, "upstream", doc.Git.Remote)
	assert.Equal(t, "pkg/setup.py", doc.Project.MetadataFile)
	assert.Equal(t, creds, doc.Publish.CredentialsFile)
	assert.Equal(t, "pypi", doc.Publish.Repository)
}

func TestConfigShowCommand_OverridesApplyToExplicitFile(t *testing.T) {
	p := newTestProject(t)
	explicit := filepath.Join(t.TempDir(), "release.yaml")
	writeTestFile(t, explicit, "publish:\n  repository: testpypi\ngit:\n  remote: upstream\n")

	stdout, _, err := executeCmd(t, newTestEnv(testutil.NewFakeRunner(), ""),
		"-C", p.root, "-c", explicit, "-o", "json", "config", "show", "--repository", "internal")
	require.NoError(t, err)

	var doc configDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "internal", doc.Publish.Repository)
	assert.Equal(t, "upstream", doc.Git.Remote)
}

// liveRecorder notes which commands were given a live output writer.
type liveRecorder struct {
	runner command.Runner
	live   bool
	lines  *[]string
}

func (r liveRecorder) Run(ctx context.Context, dir, name string, args ...string) (*command.Result, error) {
	if r.live {
		*r.lines = append(*r.lines, testutil.Call{Name: name, Args: args}.Line())
	}
	return r.runner.Run(ctx, dir, name, args...)
}

func TestReleaseCommand_OnlyPublishStreamsOutput(t *testing.T) {
	p := newTestProject(t)
	fake := releaseRunner(t, p.root)

	var streamed []string
	env := newTestEnv(fake, "")
	env.NewRunner = func(_ time.Duration, live io.Writer) command.Runner {
		return liveRecorder{runner: fake, live: live != nil, lines: &streamed}
	}

	_, _, err := executeCmd(t, env, "-C", p.root, "release", "--new-version", "1.2.4", "-m", "fix hget", "--yes")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"python setup.py sdist",
		"twine upload --repository pypi " + filepath.Join("dist", "redis-types-1.2.4.tar.gz"),
	}, streamed)
	assert.Contains(t, fake.Lines(), "git push origin master")
}

func TestReleaseCommand_MissingHistoryMarkerExitCode(t *testing.T) {
	p := newTestProject(t)
	writeTestFile(t, filepath.Join(p.root, "README.md"), "# redis-types\n\nNo releases yet.\n")
	fake := releaseRunner(t, p.root)

	_, _, err := executeCmd(t, newTestEnv(fake, ""),
		"-C", p.root, "release", "--new-version", "1.2.4", "-m", "fix hget", "--yes")
	require.ErrorIs(t, err, errors.ErrHistoryMarkerNotFound)
	assert.Equal(t, ExitProjectFile, ExitCodeForError(err))
	assert.Equal(t, testSetupPy, readTestFile(t, filepath.Join(p.root, "setup.py")))
}
