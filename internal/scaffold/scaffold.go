// Package scaffold creates the runtime directory layout: logs, vault,
// backups and the per-user configuration tree. Every step is
// create-if-absent; re-running never disturbs existing content.
package scaffold

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sprintreader/sprintreader/internal/config"
)

// userConfigSubdirs live under the per-user configuration root.
var userConfigSubdirs = []string{"themes", "plugins", "exports"}

// Scaffolder creates the directory layout described by the configuration.
type Scaffolder struct {
	cfg    config.Config
	logger *slog.Logger
}

// New creates a Scaffolder.
func New(cfg config.Config, logger *slog.Logger) *Scaffolder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scaffolder{cfg: cfg, logger: logger}
}

// Run creates all runtime directories. The per-user configuration root is
// created with restrictive permissions; the rest use the umask defaults.
func (s *Scaffolder) Run() error {
	for _, dir := range []string{s.cfg.LogPath, s.cfg.VaultPath, s.cfg.BackupPath} {
		if dir == "" {
			continue
		}
		if err := ensureDir(dir, 0755, s.logger); err != nil {
			return err
		}
	}

	userDir, err := config.UserConfigDir()
	if err != nil {
		return err
	}
	if err := ensureDir(userDir, 0700, s.logger); err != nil {
		return err
	}
	for _, sub := range userConfigSubdirs {
		if err := ensureDir(filepath.Join(userDir, sub), 0700, s.logger); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(path string, perm os.FileMode, logger *slog.Logger) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	// MkdirAll honors the umask; enforce the requested mode explicitly.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	logger.Info("created directory", "path", path)
	return nil
}
