package vcfio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.tsv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestOpenParsesAndSortsRecords(t *testing.T) {
	path := writeFile(t, "# comment\nchr1\t20\tA\tT\t30\t0.9\t40\nchr1\t4\tA\tG\t50\t0.95\t30\n")
	r, err := Open(path)
	require.NoError(t, err)

	rec1, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec1)
	assert.Equal(t, int64(4), rec1.Position)

	rec2, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec2)
	assert.Equal(t, int64(20), rec2.Position)

	rec3, err := r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec3)
}

func TestOpenMarksHighestFrequencyPrimary(t *testing.T) {
	path := writeFile(t, "chr1\t4\tA\tG\t50\t0.30\t30\nchr1\t4\tA\tC\t50\t0.60\t30\n")
	r, err := Open(path)
	require.NoError(t, err)

	seen := map[string]bool{}
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		seen[rec.AlternateContent] = rec.IsPrimary
	}
	assert.True(t, seen["C"])
	assert.False(t, seen["G"])
}

func TestOpenRejectsMalformedLine(t *testing.T) {
	path := writeFile(t, "chr1\tnotanumber\tA\tG\t50\t0.9\t30\n")
	_, err := Open(path)
	assert.Error(t, err)
}
