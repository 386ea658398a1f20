package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/internal/backup"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup [extra-paths...]",
	Short: "Archive the vault and configuration",
	Long: `Write a timestamped tar.gz archive of the vault, the .env file and any
extra paths given as arguments. When pg_dump is installed, a SQL dump of the
database is written next to the archive. After a successful run only the 10
newest archives are kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		sources := append([]string{app.Config.VaultPath, app.EnvFile}, args...)

		archiver := backup.New(sources, app.Config.BackupPath, slog.Default())
		if backup.IsInstalled() {
			archiver.Dump = backup.NewDumpClient(app.Config.DatabaseURL(), slog.Default())
		} else {
			slog.Warn("pg_dump not found on PATH, skipping SQL dump")
		}

		path, err := archiver.Run()
		if err != nil {
			fatal("Backup failed", err)
		}

		fmt.Printf("Backup written to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
