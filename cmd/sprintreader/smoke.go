package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader/internal/smoke"
)

// smokeCmd represents the smoke command
var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run fail-fast wiring checks",
	Long: `Verify the provisioned environment end to end: database reachability,
one count query per entity table, and the vault index. The first failing
check stops the run with a non-zero exit.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			fatal("Failed to initialize", err)
		}

		handle, err := app.OpenDB()
		if err != nil {
			fatal("Failed to open database", err)
		}
		defer handle.Close()

		runner := &smoke.Runner{
			Checks: smoke.DefaultChecks(handle, app.Vault),
			Out:    os.Stdout,
		}
		if err := runner.Run(context.Background()); err != nil {
			os.Exit(1)
		}

		fmt.Println("All checks passed.")
	},
}

func init() {
	rootCmd.AddCommand(smokeCmd)
}
