// Package backup bundles the vault, configuration and any extra paths
// into a timestamped tar.gz archive, optionally adds a SQL dump of the
// database, and prunes old archives.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	archivePrefix   = "sprintreader-backup-"
	archiveSuffix   = ".tar.gz"
	timestampLayout = "20060102-150405"

	// DefaultKeep is the retention count: archives beyond the newest 10
	// are deleted after each successful backup.
	DefaultKeep = 10
)

// DefaultExcludes are glob patterns (matched against the archive-relative
// path) for content that never belongs in a backup.
var DefaultExcludes = []string{
	"**/.venv/**",
	"**/venv/**",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.git/**",
	"**/node_modules/**",
	"**/" + archivePrefix + "*",
}

// Archiver creates and prunes backup archives.
type Archiver struct {
	// Sources are the files and directories to bundle. Missing entries
	// are skipped with a warning, not an error.
	Sources []string

	// Dir is where archives are written.
	Dir string

	// Excludes are doublestar patterns; DefaultExcludes when nil.
	Excludes []string

	// Keep bounds how many archives survive pruning; DefaultKeep when 0.
	Keep int

	// Dump, when non-nil, writes a SQL dump next to the archive.
	Dump *DumpClient

	Logger *slog.Logger

	now func() time.Time
}

// New creates an Archiver with the default excludes and retention.
func New(sources []string, dir string, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		Sources:  sources,
		Dir:      dir,
		Excludes: DefaultExcludes,
		Keep:     DefaultKeep,
		Logger:   logger,
		now:      time.Now,
	}
}

// Run creates one archive, attempts the SQL dump, then prunes. It returns
// the path of the archive it wrote.
func (a *Archiver) Run() (string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	stamp := a.now().Format(timestampLayout)
	archivePath := filepath.Join(a.Dir, archivePrefix+stamp+archiveSuffix)

	if err := a.writeArchive(archivePath); err != nil {
		os.Remove(archivePath)
		return "", err
	}
	a.Logger.Info("created backup archive", "path", archivePath)

	if a.Dump != nil {
		if IsInstalled() {
			dumpPath := filepath.Join(a.Dir, archivePrefix+stamp+".sql")
			if err := a.Dump.DumpTo(dumpPath); err != nil {
				return "", err
			}
			a.Logger.Info("wrote database dump", "path", dumpPath)
		} else {
			a.Logger.Warn("pg_dump not found, skipping database dump")
		}
	}

	removed, err := Prune(a.Dir, a.keep())
	if err != nil {
		return "", err
	}
	for _, r := range removed {
		a.Logger.Info("pruned old backup", "path", r)
	}

	return archivePath, nil
}

func (a *Archiver) keep() int {
	if a.Keep <= 0 {
		return DefaultKeep
	}
	return a.Keep
}

func (a *Archiver) excludes() []string {
	if a.Excludes == nil {
		return DefaultExcludes
	}
	return a.Excludes
}

func (a *Archiver) writeArchive(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, src := range a.Sources {
		info, err := os.Stat(src)
		if err != nil {
			if os.IsNotExist(err) {
				a.Logger.Warn("backup source missing, skipping", "path", src)
				continue
			}
			return err
		}

		if info.IsDir() {
			if err := a.addDir(tw, src); err != nil {
				return err
			}
			continue
		}
		if err := addFile(tw, src, filepath.Base(src), info); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archiver) addDir(tw *tar.Writer, root string) error {
	base := filepath.Base(root)
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))

		if a.excluded(name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return addFile(tw, path, name, info)
	})
}

func (a *Archiver) excluded(name string) bool {
	for _, pattern := range a.excludes() {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func addFile(tw *tar.Writer, path, name string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar header for %s: %w", path, err)
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write tar header for %s: %w", name, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}

// Prune deletes all but the keep most recent archives in dir. The
// timestamped names sort lexicographically in creation order, so newest
// means highest name.
func Prune(dir string, keep int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, archivePrefix) && strings.HasSuffix(name, archiveSuffix) {
			archives = append(archives, name)
		}
	}
	if len(archives) <= keep {
		return nil, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(archives)))

	var removed []string
	for _, name := range archives[keep:] {
		full := filepath.Join(dir, name)
		if err := os.Remove(full); err != nil {
			return removed, fmt.Errorf("prune %s: %w", full, err)
		}
		removed = append(removed, full)
	}
	return removed, nil
}
