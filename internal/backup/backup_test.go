package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// archiveEntries returns the file names inside a tar.gz archive.
func archiveEntries(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
	}
	return names
}

func TestRun_ArchivesSourcesAndAppliesExcludes(t *testing.T) {
	work := t.TempDir()

	vault := filepath.Join(work, "vaults")
	require.NoError(t, os.MkdirAll(filepath.Join(vault, "General"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vault, "General", "note.md"), []byte("# hi\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(vault, "__pycache__"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vault, "__pycache__", "junk.pyc"), []byte("x"), 0644))

	envFile := filepath.Join(work, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_HOST=localhost\n"), 0644))

	dir := filepath.Join(work, "backups")
	a := New([]string{vault, envFile, filepath.Join(work, "does-not-exist")}, dir, nil)
	a.now = func() time.Time { return time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC) }

	path, err := a.Run()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sprintreader-backup-20260829-103000.tar.gz"), path)

	names := archiveEntries(t, path)
	assert.Contains(t, names, "vaults/General/note.md")
	assert.Contains(t, names, ".env")
	for _, n := range names {
		assert.NotContains(t, n, "__pycache__", "excluded path leaked into the archive")
	}
}

func TestRun_PrunesBeyondKeep(t *testing.T) {
	work := t.TempDir()
	src := filepath.Join(work, "data")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.md"), []byte("x"), 0644))

	dir := filepath.Join(work, "backups")
	a := New([]string{src}, dir, nil)
	a.Keep = 2

	clock := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return clock }

	var last string
	for i := 0; i < 4; i++ {
		p, err := a.Run()
		require.NoError(t, err)
		last = p
		clock = clock.Add(time.Minute)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only the newest archives survive")
	assert.Equal(t, filepath.Base(last), entries[1].Name())
}

func TestPrune_KeepsNewestByName(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 13; i++ {
		name := fmt.Sprintf("sprintreader-backup-20260829-%06d.tar.gz", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	// Unrelated files are never pruned.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep-me.txt"), []byte("x"), 0644))

	removed, err := Prune(dir, 10)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 11)

	// The oldest three are the ones that went.
	for _, r := range removed {
		base := filepath.Base(r)
		assert.Contains(t, []string{
			"sprintreader-backup-20260829-000000.tar.gz",
			"sprintreader-backup-20260829-000001.tar.gz",
			"sprintreader-backup-20260829-000002.tar.gz",
		}, base)
	}
}

func TestPrune_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	removed, err := Prune(dir, 10)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestDefaultExcludes(t *testing.T) {
	a := New(nil, t.TempDir(), nil)
	excluded := []string{
		"vaults/__pycache__/mod.pyc",
		"project/.venv/lib/python/thing.py",
		"repo/.git/config",
		"vaults/stale.pyc",
		"backups/sprintreader-backup-20260101-000000.tar.gz",
	}
	for _, name := range excluded {
		assert.True(t, a.excluded(name), "expected %s to be excluded", name)
	}
	assert.False(t, a.excluded("vaults/General/note.md"))
}
