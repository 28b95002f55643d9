package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
)

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`documents:
  - path: ./topics/go
    type: topic
    description: Go notes
  - path: overview.md
    type: overview
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.Paths(); strings.Join(got, ",") != "topics/go.md,overview.md" {
		t.Errorf("Paths() = %v", got)
	}
	if !m.Has("overview.md") || m.Has("missing.md") {
		t.Error("Has() mismatch")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"duplicate", "documents:\n  - path: a.md\n  - path: ./a.md\n"},
		{"blank path", "documents:\n  - type: topic\n"},
		{"unknown field", "docs:\n  - path: a.md\n"},
		{"not yaml", "documents: [\n"},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.data)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if len(m.Documents) != 0 {
		t.Errorf("Documents = %v", m.Documents)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFromCorpusSaveLoad(t *testing.T) {
	corpus := document.NewCorpus()
	add := func(path string, typ doctype.DocumentType, desc string) {
		fm := frontmatter.New()
		fm.Set(doctype.FieldType, frontmatter.Scalar(string(typ)))
		fm.Set(doctype.FieldDescription, frontmatter.Scalar(desc))
		corpus.Add(&document.Document{Path: path, Type: typ, Frontmatter: fm})
	}
	add("topics/b.md", doctype.Topic, "B")
	add("overview.md", doctype.Overview, "All")
	add("plans/2025-01-01-x.md", doctype.Plan, "not context")

	m := FromCorpus(corpus, doctype.Default())
	if got := strings.Join(m.Paths(), ","); got != "overview.md,topics/b.md" {
		t.Fatalf("Paths() = %s", got)
	}

	path := filepath.Join(t.TempDir(), DefaultFile)
	changed, err := Save(path, m)
	if err != nil || !changed {
		t.Fatalf("Save = %v, %v", changed, err)
	}
	changed, err = Save(path, m)
	if err != nil || changed {
		t.Fatalf("second Save = %v, %v", changed, err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Documents) != 2 || loaded.Documents[1].Description != "B" {
		t.Errorf("loaded = %+v", loaded.Documents)
	}

	data, _ := os.ReadFile(path)
	text := string(data)
	if !strings.HasPrefix(text, "documents:\n") || strings.Index(text, "path: overview.md") > strings.Index(text, "path: topics/b.md") {
		t.Errorf("unexpected encoding:\n%s", text)
	}
}
