// Package walk discovers the markdown files that make up a corpus.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/kbaudit/internal/paths"
)

// File is one discovered markdown file. Error is set when it could not be
// read; the walk continues past it.
type File struct {
	Path         string // absolute filesystem path
	RelativePath string // corpus key, slash separated
	Content      []byte
	Error        error
}

// Options controls discovery.
type Options struct {
	// IndexFile names generated index files, which are never corpus documents.
	IndexFile string
	// Exclude holds doublestar patterns matched against corpus keys.
	Exclude []string
}

// Excluded reports whether a corpus key matches any exclude pattern.
func (o Options) Excluded(rel string) bool {
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (o Options) excludedDir(rel string) bool {
	return o.Excluded(rel) || o.Excluded(rel+"/")
}

// IsCandidate reports whether a corpus key would be discovered as a document.
func (o Options) IsCandidate(rel string) bool {
	base := filepath.Base(rel)
	if !strings.HasSuffix(base, paths.MarkdownExt) || strings.HasPrefix(base, ".") {
		return false
	}
	if o.IndexFile != "" && base == o.IndexFile {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return !o.Excluded(rel)
}

// ValidatePatterns checks exclude patterns for syntax errors.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// WalkMarkdownFiles calls handler for every corpus document under root in
// lexical order. It:
// - Skips hidden directories and files
// - Skips index files and excluded paths
// - Reads each file once
// An unreadable root is returned as an error; per-file failures are passed to
// the handler.
func WalkMarkdownFiles(ctx context.Context, root string, opts Options, handler func(File) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("read corpus root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus root %s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := paths.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if err != nil {
			if path == root {
				return fmt.Errorf("read corpus root: %w", err)
			}
			if d != nil && d.IsDir() {
				return handler(File{Path: path, RelativePath: rel, Error: err})
			}
			if opts.IsCandidate(rel) {
				return handler(File{Path: path, RelativePath: rel, Error: err})
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || opts.excludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !opts.IsCandidate(rel) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return handler(File{Path: path, RelativePath: rel, Error: err})
		}
		return handler(File{Path: path, RelativePath: rel, Content: content})
	})
}
