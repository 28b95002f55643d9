package skeleton

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/validate"
)

var now = time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

func TestEverySkeletonValidatesClean(t *testing.T) {
	reg := doctype.Default()
	loader := document.NewLoader(reg)

	for _, schema := range reg.Schemas() {
		t.Run(string(schema.Type), func(t *testing.T) {
			vars := NewVariables("Release Checklist", schema.Type, now)
			text, err := Render(schema, vars, "")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			doc, issues, err := loader.Load(Filename(schema, vars), text)
			if err != nil {
				t.Fatalf("Load: %v\n%s", err, text)
			}
			more, err := validate.Validate(doc, schema, validate.Options{Now: func() time.Time { return now }})
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			issues = append(issues, more...)
			if len(issues) != 0 {
				t.Errorf("skeleton has issues: %v\n%s", issues, text)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	reg := doctype.Default()
	tests := []struct {
		typ  doctype.DocumentType
		want string
	}{
		{doctype.Topic, "release-checklist.md"},
		{doctype.Plan, "2025-03-09-release-checklist.md"},
		{doctype.Note, "release-checklist.md"},
	}
	for _, tt := range tests {
		schema, _ := reg.Lookup(tt.typ)
		if got := Filename(schema, NewVariables("Release Checklist", tt.typ, now)); got != tt.want {
			t.Errorf("Filename(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestCustomTemplate(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "# {{.Vars.Title}}\n\nCreated {{.Vars.Date}}.\n"
	if err := os.WriteFile(filepath.Join(root, "templates", "note.md"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplate(root, "templates/", doctype.Note)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	schema, _ := doctype.Default().Lookup(doctype.Note)
	text, err := Render(schema, NewVariables("Scratch", doctype.Note, now), tmpl)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasSuffix(text, "# Scratch\n\nCreated 2025-03-09.\n") {
		t.Errorf("unexpected render:\n%s", text)
	}

	missing, err := LoadTemplate(root, "templates", doctype.Topic)
	if err != nil || missing != "" {
		t.Errorf("missing template = %q, %v", missing, err)
	}

	if _, err := LoadTemplate(root, "../elsewhere", doctype.Topic); err == nil {
		t.Error("expected error for template directory outside the corpus")
	}
}
