// Package platform wires configuration, logging, the database handle and
// the vault into an App the commands consume. Business logic stays in the
// component packages; this is assembly only.
package platform

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/sprintreader/sprintreader/internal/config"
	"github.com/sprintreader/sprintreader/pkg/core"
	"github.com/sprintreader/sprintreader/pkg/vault"
)

// homeEnvVar overrides the application home for tests and portable installs.
const homeEnvVar = "SPRINTREADER_HOME"

// App bundles the wired components for one command invocation.
type App struct {
	Home    string
	EnvFile string
	Config  config.Config
	Logger  *slog.Logger

	Vault   *vault.Repository
	Service *core.Service
}

// New resolves the home directory, loads the configuration and opens the
// vault (unless skipped). It does not touch the database; commands that
// need one call OpenDB.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	home, err := resolveHome(o.home)
	if err != nil {
		return nil, err
	}

	envFile := o.envFile
	if envFile == "" {
		envFile = filepath.Join(home, config.EnvFileName)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	cfg = cfg.Resolve(home)

	app := &App{
		Home:    home,
		EnvFile: envFile,
		Config:  cfg,
		Logger:  logger,
	}

	if !o.skipVault {
		repo := vault.NewRepository(vault.Config{
			Path:         cfg.VaultPath,
			MustExist:    o.mustExist,
			Logger:       logger,
			ErrorHandler: o.errHandler,
		})
		app.Vault = repo
		app.Service = core.NewService(repo)
	}

	return app, nil
}

// OpenDB opens the application database handle.
func (a *App) OpenDB() (*sql.DB, error) {
	db, err := sql.Open("postgres", a.Config.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// resolveHome picks the application home: explicit option, then the
// environment override, then the working directory.
func resolveHome(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	if env := os.Getenv(homeEnvVar); env != "" {
		return filepath.Abs(env)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}
