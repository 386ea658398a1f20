// Package db brings a PostgreSQL server from "absent" to "ready for the
// application", idempotently. Every step checks before it creates, so a
// failed run can be retried from the top without cleanup.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/user"

	"github.com/lib/pq"

	"github.com/sprintreader/sprintreader/internal/config"
)

// defaultSuperuser is probed first; the invoking OS user is the fallback.
const defaultSuperuser = "postgres"

// OpenFunc matches sql.Open, injectable for tests.
type OpenFunc func(driverName, dataSourceName string) (*sql.DB, error)

// Provisioner creates the application role and database and installs the
// schema and default settings.
type Provisioner struct {
	cfg    config.Config
	logger *slog.Logger
	open   OpenFunc
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(cfg config.Config, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{cfg: cfg, logger: logger, open: sql.Open}
}

// WithOpen overrides the connection factory. Tests use this to observe the
// DSNs the provisioner would dial.
func (p *Provisioner) WithOpen(open OpenFunc) *Provisioner {
	p.open = open
	return p
}

// Run executes the full provisioning protocol in order: superuser probe,
// role, database, grants, verification, schema, settings. Any failure is
// fatal to the run; no rollback is attempted.
func (p *Provisioner) Run(ctx context.Context) error {
	admin, superuser, err := p.connectSuperuser(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()
	p.logger.Info("connected as superuser", "role", superuser)

	if err := p.ensureRole(ctx, admin); err != nil {
		return err
	}
	if err := p.ensureDatabase(ctx, admin); err != nil {
		return err
	}
	if err := p.grantPrivileges(ctx, admin); err != nil {
		return err
	}

	version, err := p.Verify(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("database reachable as application role", "server", version)

	app, err := p.open("postgres", p.cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("open application database: %w", err)
	}
	defer app.Close()

	if err := EnsureSchema(ctx, app); err != nil {
		return err
	}
	if err := SeedDefaultSettings(ctx, app, p.logger); err != nil {
		return err
	}
	return nil
}

// Verify opens a connection as the application role and returns the server
// version string as evidence of end-to-end reachability.
func (p *Provisioner) Verify(ctx context.Context) (string, error) {
	db, err := p.open("postgres", p.cfg.DatabaseURL())
	if err != nil {
		return "", fmt.Errorf("open application database: %w", err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("verify application connection: %w", err)
	}
	return version, nil
}

// connectSuperuser probes the default superuser name, then falls back to
// the invoking OS user. Both failing fails the whole run.
func (p *Provisioner) connectSuperuser(ctx context.Context) (*sql.DB, string, error) {
	var lastErr error
	for _, candidate := range superuserCandidates() {
		db, err := p.open("postgres", p.cfg.MaintenanceURL(candidate, ""))
		if err != nil {
			lastErr = err
			continue
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			lastErr = err
			p.logger.Debug("superuser probe failed", "role", candidate, "error", err)
			continue
		}
		return db, candidate, nil
	}
	return nil, "", fmt.Errorf(
		"cannot connect to PostgreSQL as %q or the current user: %w (is the server running, and does your user have a role?)",
		defaultSuperuser, lastErr)
}

// superuserCandidates returns the probe order: "postgres" first, then the
// invoking OS user when it differs.
func superuserCandidates() []string {
	candidates := []string{defaultSuperuser}

	name := os.Getenv("USER")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	if name != "" && name != defaultSuperuser {
		candidates = append(candidates, name)
	}
	return candidates
}

func (p *Provisioner) ensureRole(ctx context.Context, admin *sql.DB) error {
	var exists bool
	err := admin.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_roles WHERE rolname = $1)", p.cfg.DBUser).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check role %s: %w", p.cfg.DBUser, err)
	}
	if exists {
		p.logger.Warn("role already exists, skipping", "role", p.cfg.DBUser)
		return nil
	}

	if _, err := admin.ExecContext(ctx, createRoleStmt(p.cfg.DBUser, p.cfg.DBPassword)); err != nil {
		return fmt.Errorf("create role %s: %w", p.cfg.DBUser, err)
	}
	p.logger.Info("created role", "role", p.cfg.DBUser)
	return nil
}

func (p *Provisioner) ensureDatabase(ctx context.Context, admin *sql.DB) error {
	var exists bool
	err := admin.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)", p.cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %s: %w", p.cfg.DBName, err)
	}
	if exists {
		p.logger.Warn("database already exists, skipping", "database", p.cfg.DBName)
		return nil
	}

	// CREATE DATABASE cannot run inside a transaction and has no
	// IF NOT EXISTS, hence the catalog guard above.
	if _, err := admin.ExecContext(ctx, createDatabaseStmt(p.cfg.DBName, p.cfg.DBUser)); err != nil {
		return fmt.Errorf("create database %s: %w", p.cfg.DBName, err)
	}
	p.logger.Info("created database", "database", p.cfg.DBName)
	return nil
}

// grantPrivileges runs unconditionally; GRANT is safe to repeat.
func (p *Provisioner) grantPrivileges(ctx context.Context, admin *sql.DB) error {
	if _, err := admin.ExecContext(ctx, grantStmt(p.cfg.DBName, p.cfg.DBUser)); err != nil {
		return fmt.Errorf("grant privileges on %s to %s: %w", p.cfg.DBName, p.cfg.DBUser, err)
	}
	return nil
}

// DDL statements take identifiers, not parameters, so they are assembled
// with pq's quoting helpers.

func createRoleStmt(role, password string) string {
	return fmt.Sprintf("CREATE ROLE %s LOGIN PASSWORD %s",
		pq.QuoteIdentifier(role), pq.QuoteLiteral(password))
}

func createDatabaseStmt(name, owner string) string {
	return fmt.Sprintf("CREATE DATABASE %s OWNER %s",
		pq.QuoteIdentifier(name), pq.QuoteIdentifier(owner))
}

func grantStmt(name, role string) string {
	return fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s",
		pq.QuoteIdentifier(name), pq.QuoteIdentifier(role))
}
