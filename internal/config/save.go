package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/kbaudit/internal/atomicfile"
)

const defaultFile = `# kbaudit configuration

manifest   = "manifest.yaml"
index_file = "index.md"
templates  = "templates"
exclude    = ["templates/**"]
strict     = false

# Per-type stale thresholds in days.
[freshness]
# topic = 90

[urls]
enabled     = false
timeout     = "10s"
concurrency = 4
cache_ttl   = "168h"
`

// WriteDefault creates <root>/kbaudit.toml with commented defaults. An
// existing file is left alone and reported as not created.
func WriteDefault(root string) (path string, created bool, err error) {
	path = filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := atomicfile.WriteFile(path, []byte(defaultFile), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return path, true, nil
}

// Encode renders the effective configuration as toml.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}
