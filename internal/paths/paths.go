// Package paths provides canonical helpers for corpus-relative document paths:
// - converting filesystem paths under the corpus root to slash-separated keys
// - normalizing `related` and `scope` entries written by hand
// - checking that files stay inside the corpus root
package paths

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathOutsideRoot is returned when a path escapes the corpus root.
var ErrPathOutsideRoot = errors.New("path is outside the corpus root")

// MarkdownExt is the extension of every corpus document.
const MarkdownExt = ".md"

// normalizeRelPath normalizes a corpus-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func normalizeRelPath(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	p = strings.TrimLeft(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// NormalizeDir normalizes a directory entry to have no leading or trailing
// slash. The corpus root normalizes to "".
func NormalizeDir(dir string) string {
	dir = normalizeRelPath(dir)
	dir = strings.TrimRight(dir, "/")
	if dir == "" || dir == "." {
		return ""
	}
	return path.Clean(dir)
}

// NormalizeRef turns a hand-written document reference into a corpus key.
// A reference without an extension is assumed to name a markdown file.
func NormalizeRef(ref string) string {
	ref = normalizeRelPath(ref)
	if ref == "" {
		return ""
	}
	ref = path.Clean(ref)
	if path.Ext(ref) == "" {
		ref += MarkdownExt
	}
	return ref
}

// Rel converts an absolute or root-joined filesystem path into a corpus key.
func Rel(root, fsPath string) (string, error) {
	rel, err := filepath.Rel(root, fsPath)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s: %w", fsPath, ErrPathOutsideRoot)
	}
	return rel, nil
}

// Abs joins a corpus key onto the root.
func Abs(root, key string) string {
	return filepath.Join(root, filepath.FromSlash(key))
}

// Dir returns the directory (area) of a corpus key, "" for the root.
func Dir(key string) string {
	d := path.Dir(key)
	if d == "." {
		return ""
	}
	return d
}

// InDir reports whether key lives in dir or any of its subdirectories.
func InDir(key, dir string) bool {
	dir = NormalizeDir(dir)
	if dir == "" {
		return true
	}
	return strings.HasPrefix(key, dir+"/")
}

// ValidateWithinRoot checks that target resolves inside root.
func ValidateWithinRoot(root, target string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if absTarget != absRoot && !strings.HasPrefix(absTarget, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("%s: %w", target, ErrPathOutsideRoot)
	}
	return nil
}
