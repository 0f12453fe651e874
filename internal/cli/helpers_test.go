package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pyrelease/internal/command"
	"github.com/mrz1836/pyrelease/internal/constants"
	"github.com/mrz1836/pyrelease/internal/testutil"
)

const (
	testSetupPy = "from setuptools import setup\n\nsetup(name='redis-types', version='1.2.3')\n"
	testReadme  = "# redis-types\n\nHistory\n* 1.2.3\tadd hset\n* 1.2.2\tinitial\n"
)

// testProject is a project directory with a config pointing the
// credentials check at a file inside it.
type testProject struct {
	root        string
	credentials string
}

func newTestProject(t *testing.T) *testProject {
	t.Helper()
	root := t.TempDir()
	p := &testProject{root: root, credentials: filepath.Join(root, ".pypirc")}

	writeTestFile(t, filepath.Join(root, "setup.py"), testSetupPy)
	writeTestFile(t, filepath.Join(root, "README.md"), testReadme)
	writeTestFile(t, p.credentials, "[pypi]\n")
	writeTestFile(t, filepath.Join(root, constants.ProjectConfigName),
		"publish:\n  credentials_file: "+p.credentials+"\n")
	return p
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test fixture path
	require.NoError(t, err)
	return string(data)
}

// newTestEnv wires fake into an Env with stdin and no terminal.
func newTestEnv(fake command.Runner, stdin string) *Env {
	return &Env{
		Stdin:       strings.NewReader(stdin),
		Interactive: func() bool { return false },
		NewRunner: func(time.Duration, io.Writer) command.Runner {
			return fake
		},
	}
}

// releaseRunner answers the commands a successful release runs and
// creates an archive when sdist is invoked.
func releaseRunner(t *testing.T, root string) *testutil.FakeRunner {
	t.Helper()
	fake := testutil.NewFakeRunner()
	fake.Respond("python setup.py --version", "1.2.3\n")
	fake.Respond("git log -1 --oneline", "abc1234 add hset\n")
	fake.OnRun = func(c testutil.Call) {
		if c.Line() == "python setup.py sdist" {
			writeTestFile(t, filepath.Join(root, "dist", "redis-types-1.2.4.tar.gz"), "archive")
		}
	}
	return fake
}

// executeCmd runs the CLI with args. The pyrelease home is redirected to
// a temp dir so the log file stays out of the real home.
func executeCmd(t *testing.T, env *Env, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(constants.EnvHome, t.TempDir())
	t.Cleanup(CloseLogFile)

	var outBuf, errBuf bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"}, env)
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}
