package backup

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DumpClient wraps pg_dump execution.
type DumpClient struct {
	DatabaseURL string
	Logger      *slog.Logger
}

// NewDumpClient creates a pg_dump client for the given connection string.
func NewDumpClient(databaseURL string, logger *slog.Logger) *DumpClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &DumpClient{DatabaseURL: databaseURL, Logger: logger}
}

// IsInstalled checks if pg_dump is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("pg_dump")
	return err == nil
}

// DumpTo writes a plain SQL dump of the database to outPath.
func (c *DumpClient) DumpTo(outPath string) error {
	c.Logger.Debug("executing pg_dump", "out", outPath)

	cmd := exec.Command("pg_dump", "--no-owner", "--format=plain", "--file", outPath, c.DatabaseURL)
	out, err := cmd.CombinedOutput()
	if err != nil {
		// A half-written dump is worse than none.
		os.Remove(outPath)
		return fmt.Errorf("pg_dump failed: %w\nOutput: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
