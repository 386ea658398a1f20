// Package smoke wires-checks the provisioned environment: every check is
// trivial on purpose, the point is that each subsystem answers at all.
package smoke

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/sprintreader/sprintreader/internal/db"
	"github.com/sprintreader/sprintreader/pkg/vault"
)

// Check is one named verification step.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes checks in order and stops at the first failure.
type Runner struct {
	Checks []Check
	Out    io.Writer
}

// Run reports one line per passed check and returns the first failure,
// without running anything after it.
func (r *Runner) Run(ctx context.Context) error {
	for _, c := range r.Checks {
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(r.Out, "FAIL %s: %v\n", c.Name, err)
			return fmt.Errorf("smoke check %q failed: %w", c.Name, err)
		}
		fmt.Fprintf(r.Out, "ok   %s\n", c.Name)
	}
	return nil
}

// DefaultChecks is the fixed check order: database reachability, one count
// query per entity table, then the vault.
func DefaultChecks(handle *sql.DB, vaultRepo *vault.Repository) []Check {
	store := db.NewStore(handle)

	checks := []Check{
		{
			Name: "database ping",
			Run:  store.Ping,
		},
	}

	for _, table := range db.EntityTables {
		table := table
		checks = append(checks, Check{
			Name: "count " + table,
			Run: func(ctx context.Context) error {
				_, err := store.Count(ctx, table)
				return err
			},
		})
	}

	checks = append(checks, Check{
		Name: "vault index",
		Run: func(ctx context.Context) error {
			if err := vaultRepo.Initialize(ctx); err != nil {
				return err
			}
			_, err := vaultRepo.ListNotes(ctx)
			return err
		},
	})

	return checks
}
