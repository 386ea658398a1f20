package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/internal/config"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Write the .env file with defaults if absent",
	Long: `Create the .env configuration file with default values. An existing
file is never modified; re-running only reports that it exists.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		created, err := config.EnsureEnvFile(app.EnvFile, config.Default())
		if err != nil {
			fatal("Failed to write env file", err)
		}

		if created {
			fmt.Printf("Created %s with default configuration.\n", app.EnvFile)
		} else {
			fmt.Printf("%s already exists, left untouched.\n", app.EnvFile)
		}
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
