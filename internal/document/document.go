// Package document turns raw corpus files into typed, immutable documents and
// collects them into a Corpus for one run.
package document

import (
	"strings"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
	"github.com/aidanlsb/kbaudit/internal/paths"
)

// Heading is an H1 or H2 heading found in a document body.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-indexed, relative to the whole file
}

// Document is a loaded corpus file. It is not modified after Load returns.
type Document struct {
	Path        string
	Type        doctype.DocumentType
	Frontmatter *frontmatter.Frontmatter
	Body        string
	Headings    []Heading
}

// Title returns the text of the first H1 heading and whether one exists.
func (d *Document) Title() (string, bool) {
	for _, h := range d.Headings {
		if h.Level == 1 {
			return h.Text, true
		}
	}
	return "", false
}

// Sections returns the H2 headings in body order.
func (d *Document) Sections() []Heading {
	var out []Heading
	for _, h := range d.Headings {
		if h.Level == 2 {
			out = append(out, h)
		}
	}
	return out
}

// Name returns the display name, falling back to the title.
func (d *Document) Name() string {
	if name := d.Frontmatter.String(doctype.FieldName); name != "" {
		return name
	}
	title, _ := d.Title()
	return title
}

// Description returns the description field.
func (d *Document) Description() string {
	return d.Frontmatter.String(doctype.FieldDescription)
}

// Updated returns the raw freshness marker.
func (d *Document) Updated() string {
	return d.Frontmatter.String(doctype.FieldUpdated)
}

// Sources returns the raw sources list.
func (d *Document) Sources() []string {
	return d.Frontmatter.List(doctype.FieldSources)
}

// Related returns the normalized related targets in declaration order, with
// blanks and repeated targets dropped.
func (d *Document) Related() []string {
	raw := d.Frontmatter.List(doctype.FieldRelated)
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		ref := paths.NormalizeRef(r)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// Scope returns the normalized scope directories of an overview. ok is false
// when the document declares no scope.
func (d *Document) Scope() (dirs []string, ok bool) {
	v, present := d.Frontmatter.Get(doctype.FieldScope)
	if !present {
		return nil, false
	}
	items, isList := v.AsList()
	if !isList {
		if s, isScalar := v.AsString(); isScalar && strings.TrimSpace(s) != "" {
			items = []string{s}
		}
	}
	for _, item := range items {
		dirs = append(dirs, paths.NormalizeDir(item))
	}
	return dirs, len(dirs) > 0
}

// Dir returns the document's area.
func (d *Document) Dir() string {
	return paths.Dir(d.Path)
}

// WordCount counts whitespace-separated words in the body.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Body))
}
