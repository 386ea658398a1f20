package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads the .env file at path. A missing file is not an error: the
// defaults apply, matching a fresh checkout before setup has run.
func Load(path string) (Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return fromEnvMap(env), nil
}

// EnsureEnvFile writes the default configuration to path only when no file
// exists there. An existing file is left byte-for-byte untouched.
// Returns true when the file was created.
func EnsureEnvFile(path string, c Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := godotenv.Write(c.envMap(), path); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
