package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/internal/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database provisioning commands",
}

// dbProvisionCmd represents the db provision command
var dbProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the application role, database, schema and default settings",
	Long: `Run the full database provisioning protocol: connect as a superuser,
create the application role and database if absent, grant privileges, verify
the connection as the application role, then ensure the schema and seed the
default settings. Every step is idempotent.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		prov := db.NewProvisioner(app.Config, slog.Default())
		if err := prov.Run(context.Background()); err != nil {
			fatal("Database provisioning failed", err)
		}

		fmt.Printf("Database '%s' provisioned for role '%s'.\n", app.Config.DBName, app.Config.DBUser)
	},
}

// dbVerifyCmd represents the db verify command
var dbVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Connect as the application role and report the server version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(sprintreader.WithoutVault())
		if err != nil {
			fatal("Failed to initialize", err)
		}

		prov := db.NewProvisioner(app.Config, slog.Default())
		version, err := prov.Verify(context.Background())
		if err != nil {
			fatal("Database verification failed", err)
		}

		fmt.Printf("Connected as '%s': %s\n", app.Config.DBUser, version)
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbProvisionCmd)
	dbCmd.AddCommand(dbVerifyCmd)
}
