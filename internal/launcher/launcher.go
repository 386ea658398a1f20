// Package launcher writes the OS integration artifacts: a wrapper script,
// a desktop entry, a systemd user unit and a shell alias. Each artifact
// only ever invokes the sprintreader binary with the right working
// directory; no logic lives in the generated files.
package launcher

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var wrapperTemplate = template.Must(template.New("wrapper").Parse(`#!/bin/sh
# Generated by sprintreader integrate. Edits will be overwritten.
set -e
cd "{{.WorkDir}}"
mkdir -p "{{.LogDir}}"
exec "{{.BinPath}}" launch "$@"
`))

var desktopTemplate = template.Must(template.New("desktop").Parse(`[Desktop Entry]
Type=Application
Name=SprintReader
Comment=PDF reading with sprint timers and notes
Exec={{.LauncherPath}}
Path={{.WorkDir}}
Terminal=false
Categories=Office;Viewer;
`))

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=SprintReader reading tracker
After=network.target

[Service]
Type=simple
WorkingDirectory={{.WorkDir}}
ExecStart={{.LauncherPath}}
Restart=on-failure

[Install]
WantedBy=default.target
`))

// Generator holds the paths baked into the generated artifacts.
type Generator struct {
	BinPath      string // absolute path of the sprintreader binary
	WorkDir      string // application home the artifacts cd into
	LogDir       string
	LauncherPath string // where the wrapper script is written
	Logger       *slog.Logger
}

// NewGenerator resolves the running binary and returns a Generator.
func NewGenerator(workDir, logDir, launcherPath string, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bin, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &Generator{
		BinPath:      bin,
		WorkDir:      workDir,
		LogDir:       logDir,
		LauncherPath: launcherPath,
		Logger:       logger,
	}, nil
}

// WriteWrapper writes the executable launcher script.
func (g *Generator) WriteWrapper() error {
	return g.render(wrapperTemplate, g.LauncherPath, 0755)
}

// WriteDesktopEntry writes the freedesktop .desktop file.
func (g *Generator) WriteDesktopEntry(path string) error {
	return g.render(desktopTemplate, path, 0644)
}

// WriteSystemdUnit writes the user-level service unit.
func (g *Generator) WriteSystemdUnit(path string) error {
	return g.render(unitTemplate, path, 0644)
}

func (g *Generator) render(t *template.Template, path string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, g); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	g.Logger.Info("wrote integration artifact", "path", path)
	return nil
}

// AliasLine is the shell profile line EnsureAlias appends.
func (g *Generator) AliasLine() string {
	return fmt.Sprintf("alias sprintreader='%s'", g.LauncherPath)
}

// EnsureAlias appends the alias to the shell profile unless an identical
// line is already present. Returns true when the profile was modified.
func (g *Generator) EnsureAlias(profilePath string) (bool, error) {
	aliasLine := g.AliasLine()

	content, err := os.ReadFile(profilePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == aliasLine {
			return false, nil
		}
	}

	f, err := os.OpenFile(profilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(aliasLine + "\n"); err != nil {
		return false, err
	}
	g.Logger.Info("added shell alias", "profile", profilePath)
	return true, nil
}
