package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
	"github.com/mrz1836/pyrelease/internal/testutil"
)

func newTestPublisher(root string, fake *testutil.FakeRunner) *Publisher {
	cleaner := NewCleaner(root, []string{"build", "dist"}, []string{"*.egg-info"})
	return NewPublisher(fake, cleaner, Options{
		Root:         root,
		MetadataFile: "setup.py",
		Python:       "python",
		Uploader:     "twine",
		Repository:   "pypi",
		DistDir:      "dist",
	})
}

// buildOnSdist makes the fake runner produce archives the way sdist does.
func buildOnSdist(t *testing.T, root string, files ...string) func(testutil.Call) {
	return func(c testutil.Call) {
		if c.Line() != "python setup.py sdist" {
			return
		}
		dist := filepath.Join(root, "dist")
		assert.NoError(t, os.MkdirAll(dist, 0o750))
		for _, f := range files {
			assert.NoError(t, os.WriteFile(filepath.Join(dist, f), []byte("archive"), 0o600))
		}
	}
}

func TestPublisher_Publish(t *testing.T) {
	root := t.TempDir()
	mkArtifact(t, root, "dist")
	stale := filepath.Join(root, "dist", "redis-types-0.0.4.tar.gz")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	fake := testutil.NewFakeRunner()
	fake.OnRun = buildOnSdist(t, root, "redis-types-0.0.5.tar.gz", "redis-types-0.0.5.zip")

	result, err := newTestPublisher(root, fake).Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"dist"}, result.Removed)
	assert.Equal(t, []string{
		filepath.Join("dist", "redis-types-0.0.5.tar.gz"),
		filepath.Join("dist", "redis-types-0.0.5.zip"),
	}, result.Artifacts)
	assert.Equal(t, "pypi", result.Repository)

	assert.Equal(t, []string{
		"python setup.py sdist",
		"twine upload --repository pypi dist/redis-types-0.0.5.tar.gz dist/redis-types-0.0.5.zip",
	}, fake.Lines())
	for _, c := range fake.Calls() {
		assert.Equal(t, root, c.Dir)
	}
	assert.NoFileExists(t, stale)
}

func TestPublisher_BuildFailureStopsUpload(t *testing.T) {
	root := t.TempDir()
	fake := testutil.NewFakeRunner().Fail("python setup.py sdist", 4, "error: invalid command")

	_, err := newTestPublisher(root, fake).Publish(context.Background())
	require.ErrorIs(t, err, relerrors.ErrCommandFailed)
	code, ok := relerrors.ExitCodeOf(err)
	require.True(t, ok)
	assert.Equal(t, 4, code)
	assert.Equal(t, []string{"python setup.py sdist"}, fake.Lines())
}

func TestPublisher_NoArtifacts(t *testing.T) {
	root := t.TempDir()
	fake := testutil.NewFakeRunner()

	_, err := newTestPublisher(root, fake).Publish(context.Background())
	require.ErrorIs(t, err, relerrors.ErrNoDistributions)
	assert.Equal(t, []string{"python setup.py sdist"}, fake.Lines())
}

func TestPublisher_UploadFailurePropagatesExitCode(t *testing.T) {
	root := t.TempDir()
	fake := testutil.NewFakeRunner().
		Fail("twine upload --repository pypi dist/pkg-1.0.tar.gz", 1, "HTTPError: 403 Forbidden")
	fake.OnRun = buildOnSdist(t, root, "pkg-1.0.tar.gz")

	_, err := newTestPublisher(root, fake).Publish(context.Background())
	require.ErrorIs(t, err, relerrors.ErrCommandFailed)
	assert.Contains(t, err.Error(), "upload to pypi")
	code, ok := relerrors.ExitCodeOf(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
}
