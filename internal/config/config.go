// Package config loads corpus-level settings from kbaudit.toml with an
// optional .env overlay.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/indexgen"
	"github.com/aidanlsb/kbaudit/internal/manifest"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/walk"
)

// FileName is the config file looked up at the corpus root.
const FileName = "kbaudit.toml"

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for toml.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for toml.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the effective configuration for one corpus.
type Config struct {
	Manifest  string   `toml:"manifest"`
	IndexFile string   `toml:"index_file"`
	Templates string   `toml:"templates"`
	Exclude   []string `toml:"exclude"`
	Strict    bool     `toml:"strict"`
	LogLevel  string   `toml:"log_level"`

	// Accent is an ANSI code or #RRGGBB used for paths and headings.
	Accent string `toml:"accent"`

	// RunLog disables .kbaudit/runs.log when false.
	RunLog *bool `toml:"run_log,omitempty"`

	// Freshness maps a document type to its stale threshold in days.
	Freshness map[string]int `toml:"freshness"`

	URLs URLConfig `toml:"urls"`

	// path is the file the config was read from; empty for defaults.
	path string
}

// URLConfig configures the source URL checker.
type URLConfig struct {
	Enabled     bool     `toml:"enabled"`
	Timeout     Duration `toml:"timeout"`
	Concurrency int      `toml:"concurrency"`
	CacheTTL    Duration `toml:"cache_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Manifest:  manifest.DefaultFile,
		IndexFile: indexgen.DefaultFile,
		Templates: "templates",
		LogLevel:  "warn",
		URLs: URLConfig{
			Timeout:     Duration{10 * time.Second},
			Concurrency: 4,
			CacheTTL:    Duration{7 * 24 * time.Hour},
		},
	}
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string { return c.path }

// RunLogEnabled reports whether audit runs are recorded.
func (c *Config) RunLogEnabled() bool {
	return c.RunLog == nil || *c.RunLog
}

// Load reads the config for root. An explicit path must exist; otherwise
// <root>/kbaudit.toml is used when present. The .env overlay is applied last.
func Load(root, explicit string) (*Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		candidate := filepath.Join(root, FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			slog.Warn("unknown config keys", "path", path, "keys", fmt.Sprint(undecoded))
		}
		cfg.path = path
	}

	if err := applyEnv(cfg, root); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Manifest, validation.Required, validation.By(corpusRelative)),
		validation.Field(&c.IndexFile, validation.Required, validation.By(plainMarkdownName)),
		validation.Field(&c.Templates, validation.By(corpusRelative)),
		validation.Field(&c.Exclude, validation.By(func(any) error { return walk.ValidatePatterns(c.Exclude) })),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Freshness, validation.By(c.validateFreshness)),
	); err != nil {
		return err
	}
	return c.URLs.Validate()
}

// Validate checks the URL checker settings.
func (u *URLConfig) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Concurrency, validation.Min(1), validation.Max(64)),
		validation.Field(&u.Timeout, validation.By(positiveDuration)),
		validation.Field(&u.CacheTTL, validation.By(positiveDuration)),
	)
}

func (c *Config) validateFreshness(any) error {
	known := doctype.Default()
	for name, days := range c.Freshness {
		schema, err := known.Lookup(doctype.DocumentType(name))
		if err != nil {
			return err
		}
		if !schema.FreshnessTracked {
			return fmt.Errorf("%s is not freshness-tracked", name)
		}
		if days <= 0 {
			return fmt.Errorf("%s: threshold must be a positive number of days", name)
		}
	}
	return nil
}

// StaleAfter converts the freshness table into registry overrides.
func (c *Config) StaleAfter() map[doctype.DocumentType]time.Duration {
	if len(c.Freshness) == 0 {
		return nil
	}
	out := make(map[doctype.DocumentType]time.Duration, len(c.Freshness))
	for name, days := range c.Freshness {
		out[doctype.DocumentType(name)] = time.Duration(days) * 24 * time.Hour
	}
	return out
}

// Registry returns the default registry with configured thresholds applied.
func (c *Config) Registry() *doctype.Registry {
	reg := doctype.Default()
	if overrides := c.StaleAfter(); overrides != nil {
		reg = reg.WithStaleAfter(overrides)
	}
	return reg
}

// ManifestPath returns the corpus-relative manifest path.
func (c *Config) ManifestPath() string {
	return paths.NormalizeRef(c.Manifest)
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto a slog level, defaulting to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func corpusRelative(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if filepath.IsAbs(s) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(s)), "../") {
		return errors.New("must be a path inside the corpus")
	}
	return nil
}

func plainMarkdownName(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must be a file name, not a path")
	}
	if !strings.HasSuffix(s, paths.MarkdownExt) {
		return errors.New("must end in .md")
	}
	return nil
}

func positiveDuration(value any) error {
	d, _ := value.(Duration)
	if d.Duration <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
}
