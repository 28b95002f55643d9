package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
	"github.com/aidanlsb/kbaudit/internal/issue"
)

const topicText = `---
document_type: topic
name: Go modules
description: How module versions resolve
last_updated: 2025-01-10
sources:
  - https://go.dev/ref/mod
related:
  - ./topics/go/workspaces
---
# Go modules

## Summary

Short.

## Details

### Minimal version selection

Long.

## Sources

- https://go.dev/ref/mod
`

func TestLoadTopic(t *testing.T) {
	l := NewLoader(doctype.Default())

	doc, issues, err := l.Load("topics/go/modules.md", topicText)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if doc.Type != doctype.Topic {
		t.Errorf("Type = %q", doc.Type)
	}
	if title, ok := doc.Title(); !ok || title != "Go modules" {
		t.Errorf("Title() = %q, %v", title, ok)
	}

	var got []string
	for _, s := range doc.Sections() {
		got = append(got, s.Text)
	}
	if strings.Join(got, ",") != "Summary,Details,Sources" {
		t.Errorf("Sections() = %v", got)
	}
	if doc.Headings[0].Line != 11 {
		t.Errorf("title line = %d, want 11", doc.Headings[0].Line)
	}

	related := doc.Related()
	if len(related) != 1 || related[0] != "topics/go/workspaces.md" {
		t.Errorf("Related() = %v", related)
	}
	if doc.Dir() != "topics/go" {
		t.Errorf("Dir() = %q", doc.Dir())
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(doctype.Default())

	tests := []struct {
		name      string
		text      string
		wantCheck string
		wantErr   error
	}{
		{"no header", "# Just prose\n", issue.CheckParse, frontmatter.ErrMissingOpening},
		{"malformed", "---\nnot a field\n---\n", issue.CheckParse, frontmatter.ErrMalformedLine},
		{"missing type", "---\ndescription: x\n---\n", issue.CheckDocType, doctype.ErrNoType},
		{"null type", "---\ndocument_type:\n---\n", issue.CheckDocType, doctype.ErrNoType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.Load("a.md", tt.text)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if le.Check != tt.wantCheck {
				t.Errorf("Check = %q, want %q", le.Check, tt.wantCheck)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
			if got := le.Issue(); got.Severity != issue.Fail || got.Path != "a.md" {
				t.Errorf("Issue() = %+v", got)
			}
		})
	}
}

func TestLoadUnknownType(t *testing.T) {
	l := NewLoader(doctype.Default())

	_, _, err := l.Load("a.md", "---\ndocument_type: journal\n---\n")
	var ute *doctype.UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if ute.Type != "journal" {
		t.Errorf("Type = %q", ute.Type)
	}
}

func TestLoadFieldIssues(t *testing.T) {
	l := NewLoader(doctype.Default())

	text := `---
document_type: topic
name: A
name: B
description:
last_updated: 2025-01-01
sources: https://example.com
---
# A
`
	doc, issues, err := l.Load("a.md", text)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name() != "B" {
		t.Errorf("Name() = %q, want last assignment", doc.Name())
	}

	want := map[string]bool{
		`required field "description" is empty`:                            false,
		`missing required field "related"`:                                 false,
		`field "sources" must be a list, got scalar "https://example.com"`: false,
		`field "name" is assigned more than once; the last value wins`:     false,
	}
	for _, i := range issues {
		if _, ok := want[i.Message]; ok {
			want[i.Message] = true
		} else {
			t.Errorf("unexpected issue: %s", i)
		}
	}
	for msg, seen := range want {
		if !seen {
			t.Errorf("missing issue %q in %v", msg, issues)
		}
	}

	dup := issue.Filter(issues, issue.CheckFrontmatter)
	if len(dup) != 1 || dup[0].Severity != issue.Warn {
		t.Errorf("duplicate key issues = %v", dup)
	}
}

func TestLoadNoteNeedsMinimalFields(t *testing.T) {
	l := NewLoader(doctype.Default())

	_, issues, err := l.Load("scratch.md", "---\ndocument_type: note\ndescription: scratch pad\n---\nanything\n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
}

func TestExtractHeadingsKeepsEmptyAndInlineText(t *testing.T) {
	body := "#\n\n## The `go` *tool*\n\n### Deep\n\n## Next\n"
	hs := ExtractHeadings(body, 1)
	if len(hs) != 3 {
		t.Fatalf("headings = %+v", hs)
	}
	if hs[0].Level != 1 || hs[0].Text != "" {
		t.Errorf("first heading = %+v", hs[0])
	}
	if hs[1].Text != "The go tool" {
		t.Errorf("inline heading text = %q", hs[1].Text)
	}
	if hs[2].Text != "Next" || hs[2].Line != 7 {
		t.Errorf("last heading = %+v", hs[2])
	}
}

func TestLoadMultiLineLegacySources(t *testing.T) {
	text := `---
document_type: topic
name: Real Name
description: d
last_updated: 2025-01-10
sources:
  - url: https://a.example
    name: Legacy A
  - url: https://b.example
    name: Legacy B
related: []
---
# Real Name
`
	doc, issues, err := NewLoader(doctype.Default()).Load("topics/real.md", text)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
	if got := doc.Name(); got != "Real Name" {
		t.Errorf("Name() = %q, want Real Name", got)
	}

	sources := doc.Sources()
	if len(sources) != 2 {
		t.Fatalf("Sources() = %q", sources)
	}
	for i, want := range []string{"https://a.example", "https://b.example"} {
		src := ParseSource(sources[i])
		if !src.Legacy || src.URL != want {
			t.Errorf("ParseSource(%q) = %+v", sources[i], src)
		}
	}
}
