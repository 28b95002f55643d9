// Package testutil provides reusable builders for corpus-level tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
)

// TestCorpus is a temporary corpus directory for testing.
type TestCorpus struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestCorpus creates a new test corpus builder.
// Call Build() to create the actual directory.
func NewTestCorpus(t *testing.T) *TestCorpus {
	t.Helper()
	return &TestCorpus{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file. The path is relative to the corpus root.
func (c *TestCorpus) WithFile(path, content string) *TestCorpus {
	c.files[path] = content
	return c
}

// WithDoc adds a document built with Doc.
func (c *TestCorpus) WithDoc(path string, d *DocBuilder) *TestCorpus {
	return c.WithFile(path, d.String())
}

// WithConfig sets the kbaudit.toml content.
func (c *TestCorpus) WithConfig(toml string) *TestCorpus {
	c.files["kbaudit.toml"] = toml
	return c
}

// Build creates the corpus directory and all configured files.
func (c *TestCorpus) Build() *TestCorpus {
	c.t.Helper()
	c.Path = c.t.TempDir()
	for path, content := range c.files {
		c.WriteFile(path, content)
	}
	return c
}

// WriteFile writes a file into a built corpus, creating directories as needed.
func (c *TestCorpus) WriteFile(relPath, content string) {
	c.t.Helper()
	fullPath := filepath.Join(c.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the corpus.
func (c *TestCorpus) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Path, filepath.FromSlash(relPath)))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the corpus.
func (c *TestCorpus) FileExists(relPath string) bool {
	c.t.Helper()
	_, err := os.Stat(filepath.Join(c.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// LoadCorpus loads in-memory files into a corpus with the default registry.
// Files that fail to load are marked failed; field issues are discarded.
func LoadCorpus(t *testing.T, files map[string]string) *document.Corpus {
	t.Helper()
	loader := document.NewLoader(doctype.Default())
	corpus := document.NewCorpus()

	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, path := range keys {
		doc, _, err := loader.Load(path, files[path])
		if err != nil {
			corpus.MarkFailed(path)
			continue
		}
		corpus.Add(doc)
	}
	return corpus
}

// DocBuilder assembles document text with a header in insertion order.
type DocBuilder struct {
	lines []string
	body  string
}

// Doc starts a document of type typ.
func Doc(typ doctype.DocumentType) *DocBuilder {
	return &DocBuilder{lines: []string{"document_type: " + string(typ)}}
}

// Field adds a scalar field.
func (d *DocBuilder) Field(key, value string) *DocBuilder {
	d.lines = append(d.lines, key+": "+value)
	return d
}

// List adds a list field; no items yields `key: []`.
func (d *DocBuilder) List(key string, items ...string) *DocBuilder {
	if len(items) == 0 {
		d.lines = append(d.lines, key+": []")
		return d
	}
	d.lines = append(d.lines, key+":")
	for _, item := range items {
		d.lines = append(d.lines, "  - "+item)
	}
	return d
}

// Body sets the body.
func (d *DocBuilder) Body(body string) *DocBuilder {
	d.body = body
	return d
}

// String renders the document.
func (d *DocBuilder) String() string {
	return "---\n" + strings.Join(d.lines, "\n") + "\n---\n" + d.body
}

// Words returns n filler words.
func Words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

// ValidTopic returns a topic that passes every per-document check as of
// updated, linking to related.
func ValidTopic(name, updated string, related ...string) *DocBuilder {
	return Doc(doctype.Topic).
		Field("name", name).
		Field("description", name+" in brief").
		Field("last_updated", updated).
		List("sources", "https://example.com/"+strings.ToLower(strings.ReplaceAll(name, " ", "-"))).
		List("related", related...).
		Body("# " + name + "\n\n## Summary\n\n" + Words(60) + "\n\n## Details\n\nDetails.\n\n## Sources\n\n- example\n")
}

// ValidOverview returns an overview that passes every per-document check as
// of updated, linking to related.
func ValidOverview(name, updated string, related ...string) *DocBuilder {
	return Doc(doctype.Overview).
		Field("name", name).
		Field("description", name+" overview").
		Field("last_updated", updated).
		List("sources").
		List("related", related...).
		Body("# " + name + "\n\n## Summary\n\n" + Words(40) + "\n\n## Topics\n\nSee related.\n")
}
