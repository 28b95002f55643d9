// Package slugs provides the slug helpers behind the naming-convention checks
// and skeleton filenames. Slugs are built on gosimple/slug.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// IsSlug reports whether s is already a canonical slug: lowercase ASCII letters
// and digits separated by single dashes.
func IsSlug(s string) bool {
	return goslug.IsSlug(s) && !strings.Contains(s, "_") && !strings.Contains(s, "--")
}

// ComponentSlug converts a string to a slug appropriate for a file or
// directory component.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
	}
	return slugged
}

// PathSlug slugifies each component of a slash-separated path and strips a
// trailing ".md".
func PathSlug(path string) string {
	path = strings.TrimSuffix(path, ".md")

	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = ComponentSlug(part)
	}
	return strings.Join(parts, "/")
}

// NonSlugDirs returns the directory components of a slash-separated path that
// are not slugs, in order. The final component (the filename) is ignored.
func NonSlugDirs(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) <= 1 {
		return nil
	}
	var bad []string
	for _, dir := range parts[:len(parts)-1] {
		if !IsSlug(dir) {
			bad = append(bad, dir)
		}
	}
	return bad
}
