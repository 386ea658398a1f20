package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
)

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the SprintReader application",
	Long: `Run the pre-flight database check, set up file and console logging, then
start the configured application command. Ctrl-C stops the application and
exits cleanly; any other failure exits non-zero.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		// Pre-flight: the GUI is unusable without its database.
		handle, err := app.OpenDB()
		if err != nil {
			fatal("Pre-flight failed", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = handle.PingContext(pingCtx)
		cancel()
		handle.Close()
		if err != nil {
			fatal("Pre-flight failed: database unreachable", err)
		}

		logger, closeLog, err := launchLogger(app)
		if err != nil {
			fatal("Failed to set up logging", err)
		}
		defer closeLog()
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger.Info("starting application", "command", app.Config.AppCommand)
		run := exec.CommandContext(ctx, app.Config.AppCommand)
		run.Dir = app.Home
		run.Stdout = os.Stdout
		run.Stderr = os.Stderr
		run.Stdin = os.Stdin

		if err := run.Run(); err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nSprintReader stopped.")
				return
			}
			logger.Error("application exited with error", "error", err)
			os.Exit(1)
		}
	},
}

// launchLogger tees structured logs to the console and a log file.
func launchLogger(app *sprintreader.App) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(app.Config.LogPath, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	logFile := filepath.Join(app.Config.LogPath, "sprintreader.log")
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose || app.Config.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, f), &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { f.Close() }, nil
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
