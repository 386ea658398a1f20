package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var watchPattern string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream vault change events",
	Long: `Watch the vault for note changes and print one line per event. The GUI
uses the same mechanism to reload notes edited outside the application.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		events, err := app.Service.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", app.Config.VaultPath)
		for {
			select {
			case <-ctx.Done():
				fmt.Println("\nWatcher stopped.")
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				fmt.Println(ev.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "**/*.md", "Glob of files to watch")
}
