// Package config owns the flat key/value configuration of SprintReader.
// It is persisted as a .env file, written once with defaults if absent,
// read once at process start and never mutated afterwards.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// EnvFileName is the configuration file looked up in the application home.
const EnvFileName = ".env"

// Config is the provisioning configuration. Every field maps to one key
// in the .env file.
type Config struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	Debug    bool
	LogLevel string

	FocusModeEnabled     bool
	NotificationsEnabled bool
	AutoSaveNotes        bool

	VaultPath  string
	LogPath    string
	BackupPath string

	DefaultSessionMinutes int
	SprintMinutes         int
	BreakMinutes          int

	AppCommand string
}

// Default returns the configuration written on first-time setup. Storage
// paths are relative to the application home until Resolve is called.
func Default() Config {
	return Config{
		DBHost:     "localhost",
		DBPort:     5432,
		DBName:     "sprintreader",
		DBUser:     "sprintreader",
		DBPassword: "sprintreader_dev",

		Debug:    false,
		LogLevel: "info",

		FocusModeEnabled:     true,
		NotificationsEnabled: true,
		AutoSaveNotes:        true,

		VaultPath:  "vaults",
		LogPath:    "logs",
		BackupPath: "backups",

		DefaultSessionMinutes: 25,
		SprintMinutes:         5,
		BreakMinutes:          5,

		AppCommand: "sprintreader-gui",
	}
}

// DatabaseURL derives the connection string from the individual DB keys.
// The derived value and the DB_* keys written alongside always agree.
func (c Config) DatabaseURL() string {
	return c.urlFor(c.DBUser, c.DBPassword, c.DBName)
}

// MaintenanceURL builds a connection string to the maintenance database
// for the given role, used while the application database may not exist.
func (c Config) MaintenanceURL(user, password string) string {
	return c.urlFor(user, password, "postgres")
}

func (c Config) urlFor(user, password, dbname string) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + dbname,
		RawQuery: "sslmode=disable",
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else if user != "" {
		u.User = url.User(user)
	}
	return u.String()
}

// Resolve absolutizes the storage paths against the application home.
func (c Config) Resolve(baseDir string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.VaultPath = abs(c.VaultPath)
	c.LogPath = abs(c.LogPath)
	c.BackupPath = abs(c.BackupPath)
	return c
}

// UserConfigDir is the per-user configuration root (themes, plugins,
// exports). Created with restrictive permissions by the scaffolder.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sprintreader"), nil
}

// fromEnvMap overlays the parsed .env values onto the defaults. Unknown
// keys are ignored; missing keys keep their default.
func fromEnvMap(env map[string]string) Config {
	c := Default()

	getStr := func(key string, dst *string) {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}
	getInt := func(key string, dst *int) {
		if v, ok := env[key]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	getBool := func(key string, dst *bool) {
		if v, ok := env[key]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	getStr("DB_HOST", &c.DBHost)
	getInt("DB_PORT", &c.DBPort)
	getStr("DB_NAME", &c.DBName)
	getStr("DB_USER", &c.DBUser)
	getStr("DB_PASSWORD", &c.DBPassword)
	getBool("DEBUG", &c.Debug)
	getStr("LOG_LEVEL", &c.LogLevel)
	getBool("FOCUS_MODE_ENABLED", &c.FocusModeEnabled)
	getBool("NOTIFICATIONS_ENABLED", &c.NotificationsEnabled)
	getBool("AUTO_SAVE_NOTES", &c.AutoSaveNotes)
	getStr("VAULT_PATH", &c.VaultPath)
	getStr("LOG_PATH", &c.LogPath)
	getStr("BACKUP_PATH", &c.BackupPath)
	getInt("DEFAULT_SESSION_MINUTES", &c.DefaultSessionMinutes)
	getInt("SPRINT_MINUTES", &c.SprintMinutes)
	getInt("BREAK_MINUTES", &c.BreakMinutes)
	getStr("APP_COMMAND", &c.AppCommand)

	return c
}

// envMap is the inverse of fromEnvMap, including the derived DATABASE_URL.
func (c Config) envMap() map[string]string {
	return map[string]string{
		"DB_HOST":                 c.DBHost,
		"DB_PORT":                 strconv.Itoa(c.DBPort),
		"DB_NAME":                 c.DBName,
		"DB_USER":                 c.DBUser,
		"DB_PASSWORD":             c.DBPassword,
		"DATABASE_URL":            c.DatabaseURL(),
		"DEBUG":                   strconv.FormatBool(c.Debug),
		"LOG_LEVEL":               c.LogLevel,
		"FOCUS_MODE_ENABLED":      strconv.FormatBool(c.FocusModeEnabled),
		"NOTIFICATIONS_ENABLED":   strconv.FormatBool(c.NotificationsEnabled),
		"AUTO_SAVE_NOTES":         strconv.FormatBool(c.AutoSaveNotes),
		"VAULT_PATH":              c.VaultPath,
		"LOG_PATH":                c.LogPath,
		"BACKUP_PATH":             c.BackupPath,
		"DEFAULT_SESSION_MINUTES": strconv.Itoa(c.DefaultSessionMinutes),
		"SPRINT_MINUTES":          strconv.Itoa(c.SprintMinutes),
		"BREAK_MINUTES":           strconv.Itoa(c.BreakMinutes),
		"APP_COMMAND":             c.AppCommand,
	}
}
