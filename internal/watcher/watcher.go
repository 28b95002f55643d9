// Package watcher re-runs a callback when corpus files change.
//
// It is used by `kba watch` to re-audit after edits.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/walk"
)

// Watcher monitors a corpus directory and batches changes into runs.
type Watcher struct {
	root string
	walk walk.Options
	// extra are corpus-relative non-document files that also trigger a run.
	extra map[string]bool

	debounceDelay time.Duration
	logger        *slog.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onChange func(ctx context.Context, changed []string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Root          string
	Walk          walk.Options
	Extra         []string      // e.g. the manifest and config file
	DebounceDelay time.Duration // Default: 300ms
	Logger        *slog.Logger
	OnChange      func(ctx context.Context, changed []string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("root is required")
	}
	if cfg.OnChange == nil {
		return nil, errors.New("change callback is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	extra := make(map[string]bool, len(cfg.Extra))
	for _, p := range cfg.Extra {
		if p != "" {
			extra[filepath.ToSlash(filepath.Clean(p))] = true
		}
	}

	return &Watcher{
		root:          cfg.Root,
		walk:          cfg.Walk,
		extra:         extra,
		debounceDelay: debounce,
		logger:        logger,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
	}, nil
}

// Start watches the corpus until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch corpus: %w", err)
	}
	w.logger.Debug("watching corpus", "root", w.root)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addWatchRecursive(event.Name); err != nil {
				w.logger.Debug("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	rel, ok := w.relevant(event.Name)
	if !ok {
		return
	}
	w.logger.Debug("change", "op", event.Op.String(), "path", rel)
	w.schedule(rel)
}

// relevant reports whether path is a corpus document or a watched extra file.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := paths.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	if w.extra[rel] {
		return rel, true
	}
	if !strings.HasSuffix(rel, paths.MarkdownExt) {
		return "", false
	}
	return rel, w.walk.IsCandidate(rel)
}

func (w *Watcher) schedule(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if changed := w.takeReady(time.Now()); len(changed) > 0 {
				w.onChange(ctx, changed)
			}
		}
	}
}

// takeReady drains the pending set once every entry has been quiet for the
// debounce delay, so a burst of saves produces one run.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	for _, at := range w.pending {
		if now.Sub(at) < w.debounceDelay {
			return nil
		}
	}

	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	w.pending = make(map[string]time.Time)
	return changed
}

func (w *Watcher) addWatchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}
