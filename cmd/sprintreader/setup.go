package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/internal/config"
	"github.com/sprintreader/sprintreader/internal/db"
	"github.com/sprintreader/sprintreader/internal/launcher"
	"github.com/sprintreader/sprintreader/internal/scaffold"
)

var (
	setupSkipDB        bool
	setupSkipIntegrate bool
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the full provisioning pipeline",
	Long: `Provision everything SprintReader needs, in order: the .env file, the
PostgreSQL role, database, schema and default settings, the storage
directories, the note vault with its sample content, and the OS launcher
integration. Each step is idempotent; the pipeline stops at the first
failure and is safe to re-run.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slog.Default()

		fmt.Println("SprintReader setup")

		// Step 1: configuration file.
		app, err := newApp()
		if err != nil {
			fatal("Failed to initialize", err)
		}
		created, err := config.EnsureEnvFile(app.EnvFile, config.Default())
		if err != nil {
			fatal("Step 1/5 (env file) failed", err)
		}
		if created {
			fmt.Printf("  [1/5] env file: created %s\n", app.EnvFile)
			// Reload so the pipeline runs on what was written.
			app, err = newApp()
			if err != nil {
				fatal("Failed to reload configuration", err)
			}
		} else {
			fmt.Printf("  [1/5] env file: %s exists, untouched\n", app.EnvFile)
		}

		// Step 2: database role, schema, settings.
		if setupSkipDB {
			fmt.Println("  [2/5] database: skipped")
		} else {
			prov := db.NewProvisioner(app.Config, logger)
			if err := prov.Run(ctx); err != nil {
				fatal("Step 2/5 (database) failed", err)
			}
			fmt.Printf("  [2/5] database: '%s' ready for role '%s'\n", app.Config.DBName, app.Config.DBUser)
		}

		// Step 3: storage directories.
		if err := scaffold.New(app.Config, logger).Run(); err != nil {
			fatal("Step 3/5 (directories) failed", err)
		}
		fmt.Println("  [3/5] directories: logs, backups and user config ready")

		// Step 4: vault with sample content.
		if err := app.Vault.Initialize(ctx); err != nil {
			fatal("Step 4/5 (vault) failed", err)
		}
		if err := app.Vault.Scaffold(ctx); err != nil {
			fatal("Step 4/5 (vault) failed", err)
		}
		fmt.Printf("  [4/5] vault: ready at %s\n", app.Config.VaultPath)

		// Step 5: launcher integration.
		if setupSkipIntegrate {
			fmt.Println("  [5/5] integration: skipped")
		} else {
			if err := writeIntegration(app, logger); err != nil {
				fatal("Step 5/5 (integration) failed", err)
			}
			fmt.Println("  [5/5] integration: launcher artifacts written")
		}

		fmt.Println("Setup complete. Run 'sprintreader smoke' to verify the wiring.")
	},
}

func writeIntegration(app *sprintreader.App, logger *slog.Logger) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	gen, err := launcher.NewGenerator(
		app.Home,
		app.Config.LogPath,
		filepath.Join(app.Home, "sprintreader.sh"),
		logger,
	)
	if err != nil {
		return err
	}

	if err := gen.WriteWrapper(); err != nil {
		return err
	}
	if err := gen.WriteDesktopEntry(filepath.Join(home, ".local", "share", "applications", "sprintreader.desktop")); err != nil {
		return err
	}
	if err := gen.WriteSystemdUnit(filepath.Join(home, ".config", "systemd", "user", "sprintreader.service")); err != nil {
		return err
	}
	_, err = gen.EnsureAlias(filepath.Join(home, ".bashrc"))
	return err
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVar(&setupSkipDB, "skip-db", false, "Skip database provisioning")
	setupCmd.Flags().BoolVar(&setupSkipIntegrate, "skip-integration", false, "Skip launcher integration artifacts")
}
