// Package manifest reads and writes the corpus manifest: the authoritative
// list of context documents, stored as YAML at the corpus root.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/kbaudit/internal/atomicfile"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/paths"
)

// DefaultFile is the manifest filename at the corpus root.
const DefaultFile = "manifest.yaml"

// ErrNotFound is returned by Load when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// Entry lists one context document.
type Entry struct {
	Path        string `yaml:"path"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// Manifest is the decoded manifest file.
type Manifest struct {
	Documents []Entry `yaml:"documents"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes manifest YAML. Entry paths are normalized; blank and
// repeated paths are errors.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Documents))
	for i := range m.Documents {
		e := &m.Documents[i]
		e.Path = paths.NormalizeRef(e.Path)
		if e.Path == "" {
			return nil, fmt.Errorf("parse manifest: entry %d has no path", i+1)
		}
		if seen[e.Path] {
			return nil, fmt.Errorf("parse manifest: %s is listed more than once", e.Path)
		}
		seen[e.Path] = true
	}
	return &m, nil
}

// Paths returns the listed paths.
func (m *Manifest) Paths() []string {
	out := make([]string, 0, len(m.Documents))
	for _, e := range m.Documents {
		out = append(out, e.Path)
	}
	return out
}

// Has reports whether path is listed.
func (m *Manifest) Has(path string) bool {
	for _, e := range m.Documents {
		if e.Path == path {
			return true
		}
	}
	return false
}

// FromCorpus builds the manifest that matches the live context documents.
func FromCorpus(corpus *document.Corpus, reg *doctype.Registry) *Manifest {
	m := &Manifest{Documents: []Entry{}}
	for _, doc := range corpus.Documents() {
		if !reg.IsContext(doc.Type) {
			continue
		}
		m.Documents = append(m.Documents, Entry{
			Path:        doc.Path,
			Type:        string(doc.Type),
			Description: strings.TrimSpace(doc.Description()),
		})
	}
	sort.Slice(m.Documents, func(i, j int) bool { return m.Documents[i].Path < m.Documents[j].Path })
	return m
}

// Marshal encodes the manifest with two-space indentation.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the manifest under an exclusive lock. It reports whether the
// file changed.
func Save(path string, m *Manifest) (bool, error) {
	data, err := Marshal(m)
	if err != nil {
		return false, err
	}
	return atomicfile.WriteIfChanged(path, data, 0)
}
