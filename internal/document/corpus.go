package document

import (
	"sort"

	"github.com/aidanlsb/kbaudit/internal/doctype"
)

// Corpus is the set of documents loaded for one run, keyed by path, plus the
// paths that were discovered but could not be loaded.
type Corpus struct {
	docs   map[string]*Document
	failed map[string]bool
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		docs:   make(map[string]*Document),
		failed: make(map[string]bool),
	}
}

// Add inserts a loaded document, replacing any earlier one at the same path.
func (c *Corpus) Add(doc *Document) {
	delete(c.failed, doc.Path)
	c.docs[doc.Path] = doc
}

// MarkFailed records a discovered path that did not load.
func (c *Corpus) MarkFailed(path string) {
	if _, ok := c.docs[path]; ok {
		return
	}
	c.failed[path] = true
}

// Get returns the document at path.
func (c *Corpus) Get(path string) (*Document, bool) {
	d, ok := c.docs[path]
	return d, ok
}

// Has reports whether a document loaded at path.
func (c *Corpus) Has(path string) bool {
	_, ok := c.docs[path]
	return ok
}

// IsFailed reports whether path was discovered but failed to load.
func (c *Corpus) IsFailed(path string) bool {
	return c.failed[path]
}

// Paths returns the loaded document paths in sorted order.
func (c *Corpus) Paths() []string {
	out := make([]string, 0, len(c.docs))
	for p := range c.docs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Documents returns the loaded documents ordered by path.
func (c *Corpus) Documents() []*Document {
	out := make([]*Document, 0, len(c.docs))
	for _, p := range c.Paths() {
		out = append(out, c.docs[p])
	}
	return out
}

// ByType returns the loaded documents of type t ordered by path.
func (c *Corpus) ByType(t doctype.DocumentType) []*Document {
	var out []*Document
	for _, d := range c.Documents() {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Failed returns the paths that failed to load, sorted.
func (c *Corpus) Failed() []string {
	out := make([]string, 0, len(c.failed))
	for p := range c.failed {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of loaded documents.
func (c *Corpus) Len() int { return len(c.docs) }
