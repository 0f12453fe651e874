package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/mrz1836/pyrelease/internal/errors"
)

func TestSubstituteVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		old      string
		new      string
		expected string
	}{
		{
			name:     "single occurrence",
			content:  "setup(name='redis-types',\n      version='1.2.3',\n)\n",
			old:      "1.2.3",
			new:      "1.2.4",
			expected: "setup(name='redis-types',\n      version='1.2.4',\n)\n",
		},
		{
			name:     "every occurrence is replaced",
			content:  "version='0.0.5'\ndownload_url='.../0.0.5.tar.gz'\n",
			old:      "0.0.5",
			new:      "0.1.0",
			expected: "version='0.1.0'\ndownload_url='.../0.1.0.tar.gz'\n",
		},
		{
			name:     "substring inside a longer version",
			content:  "version='1.2.30'\n",
			old:      "1.2.3",
			new:      "1.2.4",
			expected: "version='1.2.40'\n",
		},
		{
			name:     "dots are literal",
			content:  "version='1x2x3' version='1.2.3'",
			old:      "1.2.3",
			new:      "9",
			expected: "version='1x2x3' version='9'",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := SubstituteVersion(tc.content, tc.old, tc.new)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.NotContains(t, got, "'"+tc.old+"'")
		})
	}
}

func TestSubstituteVersion_Errors(t *testing.T) {
	t.Parallel()

	_, err := SubstituteVersion("version='1.0'", "2.0", "2.1")
	require.ErrorIs(t, err, relerrors.ErrVersionNotFound)

	_, err = SubstituteVersion("version='1.0'", "", "2.1")
	require.ErrorIs(t, err, relerrors.ErrEmptyValue)

	// setuptools reports 1.0.0b01 as 1.0.0b1; the file text no longer matches.
	_, err = SubstituteVersion("setup(version='1.0.0b01')", "1.0.0b1", "1.0.0b2")
	require.ErrorIs(t, err, relerrors.ErrVersionNotFound)
	_, action := relerrors.Actionable(err)
	assert.Contains(t, action, "normalizes")
}
