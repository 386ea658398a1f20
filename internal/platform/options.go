package platform

import (
	"log/slog"
)

// options holds the internal configuration for the application factory.
type options struct {
	home       string
	envFile    string
	logger     *slog.Logger
	mustExist  bool
	skipVault  bool
	errHandler func(error)
}

// Option defines a functional option for configuring the application.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		envFile: "",
		logger:  nil,
	}
}

// WithHome overrides the application home directory. The default is
// $SPRINTREADER_HOME, falling back to the current working directory.
func WithHome(dir string) Option {
	return func(o *options) {
		o.home = dir
	}
}

// WithEnvFile overrides the configuration file location.
func WithEnvFile(path string) Option {
	return func(o *options) {
		o.envFile = path
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMustExist requires the vault directory to already exist instead of
// creating it on demand.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithoutVault skips opening the vault, for commands that only touch the
// database or configuration.
func WithoutVault() Option {
	return func(o *options) {
		o.skipVault = true
	}
}

// WithErrorHandler routes background errors (e.g. from the vault watcher)
// to the given function instead of the log.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errHandler = fn
	}
}
