package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aidanlsb/kbaudit/internal/atomicfile"
	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/config"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/urlcheck"
	"github.com/aidanlsb/kbaudit/internal/walk"
)

// auditOptions builds the pipeline options shared by every command from the
// loaded config.
func auditOptions(c *config.Config) audit.Options {
	return audit.Options{
		Root:     getRoot(),
		Registry: c.Registry(),
		Walk: walk.Options{
			IndexFile: c.IndexFile,
			Exclude:   excludePatterns(c),
		},
		ManifestPath: c.ManifestPath(),
		Strict:       c.Strict,
		RunLog:       runlogFor(c),
		Logger:       logger,
	}
}

// excludePatterns adds the template directory to the configured excludes;
// templates are not corpus documents.
func excludePatterns(c *config.Config) []string {
	patterns := append([]string(nil), c.Exclude...)
	if dir := paths.NormalizeDir(c.Templates); dir != "" {
		patterns = append(patterns, dir+"/**")
	}
	return patterns
}

func runlogFor(c *config.Config) *runlog.Logger {
	return runlog.New(getRoot(), c.RunLogEnabled())
}

// openURLChecker returns a checker backed by the corpus's result cache. The
// returned close function must be called when done.
func openURLChecker(c *config.Config, useCache bool) (*urlcheck.Checker, func(), error) {
	opts := urlcheck.Options{
		Timeout:     c.URLs.Timeout.Duration,
		Concurrency: c.URLs.Concurrency,
		TTL:         c.URLs.CacheTTL.Duration,
		Logger:      logger,
	}
	closeFn := func() {}

	if useCache {
		path := filepath.Join(getRoot(), filepath.FromSlash(urlcheck.CacheFile))
		cache, err := urlcheck.OpenCache(path)
		if err != nil {
			return nil, nil, err
		}
		opts.Cache = cache
		closeFn = func() {
			if err := cache.Close(); err != nil {
				logger.Warn("failed to close url cache", "error", err)
			}
		}
	}
	return urlcheck.New(opts), closeFn, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// writeErrorCode maps a write failure onto an error code.
func writeErrorCode(err error) string {
	if errors.Is(err, atomicfile.ErrLocked) {
		return ErrFileLocked
	}
	return ErrFileWriteError
}

// runErrorCode maps an aborted pipeline run onto an error code.
func runErrorCode(err error) string {
	switch {
	case errors.Is(err, atomicfile.ErrLocked):
		return ErrFileLocked
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ErrFileReadError
	}
	return ErrInternal
}
