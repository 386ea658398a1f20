package launcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	work := t.TempDir()
	return &Generator{
		BinPath:      "/usr/local/bin/sprintreader",
		WorkDir:      work,
		LogDir:       filepath.Join(work, "logs"),
		LauncherPath: filepath.Join(work, "sprintreader.sh"),
		Logger:       discard(t),
	}
}

func TestWriteWrapper(t *testing.T) {
	g := testGenerator(t)

	require.NoError(t, g.WriteWrapper())

	info, err := os.Stat(g.LauncherPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), "wrapper must be executable")

	content, err := os.ReadFile(g.LauncherPath)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.HasPrefix(text, "#!/bin/sh\n"))
	assert.Contains(t, text, `cd "`+g.WorkDir+`"`)
	assert.Contains(t, text, `exec "/usr/local/bin/sprintreader" launch`)
}

func TestWriteDesktopEntry(t *testing.T) {
	g := testGenerator(t)

	path := filepath.Join(g.WorkDir, "apps", "sprintreader.desktop")
	require.NoError(t, g.WriteDesktopEntry(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "[Desktop Entry]")
	assert.Contains(t, text, "Exec="+g.LauncherPath)
	assert.Contains(t, text, "Path="+g.WorkDir)
}

func TestWriteSystemdUnit(t *testing.T) {
	g := testGenerator(t)

	path := filepath.Join(g.WorkDir, "units", "sprintreader.service")
	require.NoError(t, g.WriteSystemdUnit(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "ExecStart="+g.LauncherPath)
	assert.Contains(t, text, "WorkingDirectory="+g.WorkDir)
	assert.Contains(t, text, "WantedBy=default.target")
}

func TestEnsureAlias_AppendsOnce(t *testing.T) {
	g := testGenerator(t)

	profile := filepath.Join(g.WorkDir, ".bashrc")
	require.NoError(t, os.WriteFile(profile, []byte("export PATH=$PATH:/opt/bin"), 0644))

	added, err := g.EnsureAlias(profile)
	require.NoError(t, err)
	assert.True(t, added)

	first, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(first), g.AliasLine())
	assert.Contains(t, string(first), "export PATH", "existing profile content survives")

	added, err = g.EnsureAlias(profile)
	require.NoError(t, err)
	assert.False(t, added, "alias is only appended once")

	second, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureAlias_CreatesMissingProfile(t *testing.T) {
	g := testGenerator(t)

	profile := filepath.Join(g.WorkDir, ".profile")
	added, err := g.EnsureAlias(profile)
	require.NoError(t, err)
	assert.True(t, added)

	content, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, g.AliasLine()+"\n", string(content))
}
