package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Note vault commands",
}

// vaultInitCmd represents the vault init command
var vaultInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold the note vault",
	Long: `Create the vault directory, the General topic and the welcome note.
Each is only created when absent; user edits survive re-runs.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			fatal("Failed to initialize", err)
		}

		ctx := context.Background()
		if err := app.Vault.Initialize(ctx); err != nil {
			fatal("Failed to open vault", err)
		}
		if err := app.Vault.Scaffold(ctx); err != nil {
			fatal("Failed to scaffold vault", err)
		}

		fmt.Printf("Vault ready at %s\n", app.Config.VaultPath)
	},
}

func init() {
	rootCmd.AddCommand(vaultCmd)
	vaultCmd.AddCommand(vaultInitCmd)
}
