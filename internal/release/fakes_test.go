package release

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pyrelease/internal/config"
	"github.com/mrz1836/pyrelease/internal/publish"
)

// fakeGit records calls and serves canned diffs.
type fakeGit struct {
	mu sync.Mutex

	head string
	// unstaged is consumed one entry per DiffUnstaged call; the last entry repeats.
	unstaged []string
	staged   string
	errs     map[string]error
	calls    []string
}

func newFakeGit() *fakeGit {
	return &fakeGit{head: "abc1234 initial commit", errs: map[string]error{}}
}

func (g *fakeGit) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.errs[call]
}

func (g *fakeGit) HeadSummary(_ context.Context) (string, error) {
	if err := g.record("head"); err != nil {
		return "", err
	}
	return g.head, nil
}

func (g *fakeGit) DiffUnstaged(_ context.Context) (string, error) {
	if err := g.record("diff"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.unstaged) == 0 {
		return "", nil
	}
	d := g.unstaged[0]
	if len(g.unstaged) > 1 {
		g.unstaged = g.unstaged[1:]
	}
	return d, nil
}

func (g *fakeGit) DiffStaged(_ context.Context) (string, error) {
	if err := g.record("diff --cached"); err != nil {
		return "", err
	}
	return g.staged, nil
}

func (g *fakeGit) AddTracked(_ context.Context) error {
	return g.record("add -u")
}

func (g *fakeGit) Commit(_ context.Context, message string) error {
	return g.record("commit " + message)
}

func (g *fakeGit) CreateAnnotatedTag(_ context.Context, name, message string) error {
	return g.record("tag " + name + " " + message)
}

func (g *fakeGit) Push(_ context.Context, remote, ref string) error {
	return g.record("push " + remote + " " + ref)
}

func (g *fakeGit) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type fakeMetadata struct {
	version string
	err     error
}

func (m fakeMetadata) CurrentVersion(_ context.Context) (string, error) {
	return m.version, m.err
}

type fakePublisher struct {
	calls int
	err   error
}

func (p *fakePublisher) Publish(_ context.Context) (*publish.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &publish.Result{Artifacts: []string{"dist/redis-types-1.2.4.tar.gz"}, Repository: "pypi"}, nil
}

type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) Info(msg string)    { r.messages = append(r.messages, "info: "+msg) }
func (r *recordingReporter) Success(msg string) { r.messages = append(r.messages, "ok: "+msg) }

// projectFixture is a temp project with setup.py, README.md and a
// credentials file.
type projectFixture struct {
	cfg       *config.Config
	setupPath string
	readPath  string
	credsPath string
}

const (
	fixtureSetup  = "from setuptools import setup\n\nsetup(name='redis-types',\n      version='1.2.3',\n)\n"
	fixtureReadme = "redis-types\n\nHistory\n* 1.2.3\tprevious\n"
)

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()

	root := t.TempDir()
	f := &projectFixture{
		setupPath: filepath.Join(root, "setup.py"),
		readPath:  filepath.Join(root, "README.md"),
		credsPath: filepath.Join(t.TempDir(), ".pypirc"),
	}
	require.NoError(t, os.WriteFile(f.setupPath, []byte(fixtureSetup), 0o644))
	require.NoError(t, os.WriteFile(f.readPath, []byte(fixtureReadme), 0o644))
	require.NoError(t, os.WriteFile(f.credsPath, []byte("[pypi]\n"), 0o600))

	cfg := config.DefaultConfig()
	cfg.Project.Root = root
	cfg.Publish.CredentialsFile = f.credsPath
	f.cfg = cfg
	return f
}

func (f *projectFixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test temp file
	require.NoError(t, err)
	return string(data)
}

func (f *projectFixture) assertUnchanged(t *testing.T) {
	t.Helper()
	require.Equal(t, fixtureSetup, f.read(t, f.setupPath))
	require.Equal(t, fixtureReadme, f.read(t, f.readPath))
}
