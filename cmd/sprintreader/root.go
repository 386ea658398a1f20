package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
)

var (
	verbose bool
	homeDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sprintreader",
	Short: "Provision and operate the SprintReader local environment",
	Long: `SprintReader provisions everything the desktop reading app needs to run:
the .env configuration, the PostgreSQL role/database/schema, the note vault,
backups and the OS launcher integration. Every step is idempotent, so the
commands are safe to re-run.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newApp wires an App for the current invocation, honoring --home.
func newApp(opts ...sprintreader.Option) (*sprintreader.App, error) {
	if homeDir != "" {
		opts = append([]sprintreader.Option{sprintreader.WithHome(homeDir)}, opts...)
	}
	opts = append(opts, sprintreader.WithLogger(slog.Default()))
	return sprintreader.New(opts...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Application home directory (default $SPRINTREADER_HOME or CWD)")
}
