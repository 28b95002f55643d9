package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvFile is the optional dotenv file read from the corpus root.
const EnvFile = ".env"

// Environment variables that override the config file.
const (
	EnvStrict   = "KBAUDIT_STRICT"
	EnvManifest = "KBAUDIT_MANIFEST"
	EnvLogLevel = "KBAUDIT_LOG_LEVEL"
)

// applyEnv overlays KBAUDIT_* settings. The process environment wins over
// values from <root>/.env.
func applyEnv(cfg *Config, root string) error {
	fileVars := map[string]string{}
	envPath := filepath.Join(root, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		fileVars, err = godotenv.Read(envPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := lookup(EnvStrict); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		cfg.Strict = strict
	}
	if v, ok := lookup(EnvManifest); ok && v != "" {
		cfg.Manifest = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}
