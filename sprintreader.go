// Package sprintreader is the public entry point for the SprintReader
// provisioning tool. It re-exports the wiring from internal/platform so
// commands and embedders configure the application through one surface.
package sprintreader

import (
	"log/slog"

	"github.com/sprintreader/sprintreader/internal/platform"
)

// App bundles the wired components for one invocation.
type App = platform.App

// Option defines a functional option for configuring the application.
type Option = platform.Option

// WithHome overrides the application home directory.
func WithHome(dir string) Option {
	return platform.WithHome(dir)
}

// WithEnvFile overrides the path of the .env file.
func WithEnvFile(path string) Option {
	return platform.WithEnvFile(path)
}

// WithLogger sets the logger injected into every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMustExist requires the vault directory to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithoutVault skips opening the vault, for commands that only touch
// the database or the filesystem scaffolding.
func WithoutVault() Option {
	return platform.WithoutVault()
}

// WithErrorHandler installs a callback for asynchronous watcher errors.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// New wires configuration, logging and the vault into an App.
func New(opts ...Option) (*App, error) {
	return platform.New(opts...)
}
