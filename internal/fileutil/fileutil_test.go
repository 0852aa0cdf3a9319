package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomicCreatesParents(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a", "b", "out.bin")

	require.NoError(t, WriteAtomic(dst, []byte("payload"), 0o600))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteAtomicReplacesExisting(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(dst, []byte("old contents"), 0o644))

	require.NoError(t, WriteAtomic(dst, []byte("new"), 0o644))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteAtomicFailsUnderFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	assert.Error(t, WriteAtomic(filepath.Join(blocker, "out.bin"), []byte("x"), 0o644))
}

func TestCopyLinesRewritesEachLine(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("one\ntwo\nthree"), 0o644))

	var seen []string
	err := CopyLines(src, dst, 0o644, func(line string) string {
		seen = append(seen, line)
		return strings.ToUpper(line)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "ONE\nTWO\nTHREE", string(data))
	assert.Equal(t, []string{"one\n", "two\n", "three"}, seen)
}

func TestCopyLinesMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyLines(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"), 0o644, nil)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "dst"))
}
