package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/internal/launcher"
)

var (
	integrateProfile string
	skipAlias        bool
)

// integrateCmd represents the integrate command
var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Write the launcher script and OS integration artifacts",
	Long: `Generate the wrapper script, a desktop entry, a systemd user unit and a
shell alias for launching SprintReader. Files are overwritten so the
artifacts always match the installed binary; the alias line is only appended
when absent.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		home, err := os.UserHomeDir()
		if err != nil {
			fatal("Failed to resolve home directory", err)
		}

		gen, err := launcher.NewGenerator(
			app.Home,
			app.Config.LogPath,
			filepath.Join(app.Home, "sprintreader.sh"),
			slog.Default(),
		)
		if err != nil {
			fatal("Failed to initialize generator", err)
		}

		if err := gen.WriteWrapper(); err != nil {
			fatal("Failed to write launcher script", err)
		}
		desktopPath := filepath.Join(home, ".local", "share", "applications", "sprintreader.desktop")
		if err := gen.WriteDesktopEntry(desktopPath); err != nil {
			fatal("Failed to write desktop entry", err)
		}
		unitPath := filepath.Join(home, ".config", "systemd", "user", "sprintreader.service")
		if err := gen.WriteSystemdUnit(unitPath); err != nil {
			fatal("Failed to write systemd unit", err)
		}

		if !skipAlias {
			profile := integrateProfile
			if profile == "" {
				profile = filepath.Join(home, ".bashrc")
			}
			added, err := gen.EnsureAlias(profile)
			if err != nil {
				fatal("Failed to update shell profile", err)
			}
			if added {
				fmt.Printf("Added alias to %s (restart your shell to use it).\n", profile)
			}
		}

		fmt.Printf("Launcher script: %s\n", gen.LauncherPath)
		fmt.Printf("Desktop entry:   %s\n", desktopPath)
		fmt.Printf("Systemd unit:    %s\n", unitPath)
	},
}

func init() {
	rootCmd.AddCommand(integrateCmd)
	integrateCmd.Flags().StringVar(&integrateProfile, "profile", "", "Shell profile for the alias (default ~/.bashrc)")
	integrateCmd.Flags().BoolVar(&skipAlias, "no-alias", false, "Skip the shell alias")
}
