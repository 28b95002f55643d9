package frontmatter

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	content := `---
document_type: topic
name: Go modules
description: "How modules resolve versions"
last_updated: 2026-01-10
sources:
  - https://go.dev/ref/mod
  - 'Go blog: modules'
related:
tags: []
---
# Go modules

Body text.
`
	fm, body, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fm.String("document_type"); got != "topic" {
		t.Errorf("document_type = %q, want topic", got)
	}
	if got := fm.String("description"); got != "How modules resolve versions" {
		t.Errorf("description = %q", got)
	}

	sources := fm.List("sources")
	if len(sources) != 2 || sources[0] != "https://go.dev/ref/mod" || sources[1] != "Go blog: modules" {
		t.Errorf("sources = %#v", sources)
	}

	related, ok := fm.Get("related")
	if !ok || !related.IsNull() {
		t.Errorf("related = %v, want null", related)
	}

	tags, ok := fm.Get("tags")
	if !ok || tags.Kind() != KindList {
		t.Fatalf("tags = %v, want empty list", tags)
	}
	if items, _ := tags.AsList(); len(items) != 0 {
		t.Errorf("tags = %v, want empty list", items)
	}

	wantKeys := []string{"document_type", "name", "description", "last_updated", "sources", "related", "tags"}
	keys := fm.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", keys, wantKeys)
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], wantKeys[i])
		}
	}

	if body != "# Go modules\n\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		line    int
	}{
		{
			name:    "no opening delimiter",
			content: "# Title\n",
			want:    ErrMissingOpening,
		},
		{
			name:    "header never closed before body",
			content: "---\ndocument_type: note\n# Title\n",
			want:    ErrMissingClosing,
		},
		{
			name:    "unclosed header",
			content: "---\ndocument_type: note\n",
			want:    ErrMissingClosing,
		},
		{
			name:    "list item after scalar",
			content: "---\nname: x\n- item\n---\n",
			want:    ErrOrphanListItem,
			line:    3,
		},
		{
			name:    "invalid key",
			content: "---\nbad key: x\n---\n",
			want:    ErrMalformedLine,
			line:    2,
		},
		{
			name:    "indented field under plain list item",
			content: "---\nsources:\n  - https://go.dev\n    name: Go\n---\n",
			want:    ErrMalformedLine,
			line:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.content)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestParseLastAssignmentWins(t *testing.T) {
	content := "---\ntags:\n  - a\n  - b\nname: x\ntags: scalar now\n---\n"
	fm, _, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, _ := fm.Get("tags")
	if s, ok := v.AsString(); !ok || s != "scalar now" {
		t.Errorf("tags = %v, want scalar %q", v, "scalar now")
	}
	if keys := fm.Keys(); keys[0] != "tags" || keys[1] != "name" {
		t.Errorf("keys = %v, want tags first", keys)
	}
	if dups := fm.Duplicates(); len(dups) != 1 || dups[0] != "tags" {
		t.Errorf("duplicates = %v, want [tags]", dups)
	}
}

func TestParseIndentedFieldsContinueListItem(t *testing.T) {
	text := "---\nname: Real Name\nsources:\n  - url: https://a.example\n    name: Legacy A\n" +
		"  - url: https://b.example\n    title: 'Legacy B'\n  - https://c.example\ndescription: d\n---\n"

	fm, _, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := fm.String("name"); got != "Real Name" {
		t.Errorf("name = %q, want Real Name", got)
	}
	if d := fm.Duplicates(); len(d) != 0 {
		t.Errorf("Duplicates() = %v", d)
	}
	if got := fm.String("description"); got != "d" {
		t.Errorf("description = %q", got)
	}

	want := []string{
		`{url: "https://a.example", name: "Legacy A"}`,
		`{url: "https://b.example", title: "Legacy B"}`,
		"https://c.example",
	}
	got := fm.List("sources")
	if len(got) != len(want) {
		t.Fatalf("sources = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseCRLF(t *testing.T) {
	fm, body, err := Parse("---\r\ndocument_type: note\r\n---\r\n# T\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm.String("document_type") != "note" {
		t.Errorf("document_type = %q", fm.String("document_type"))
	}
	if body != "# T\n" {
		t.Errorf("body = %q", body)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"---\ndocument_type: note\ndescription: a scratch note about X\n---\n# Scratch\n",
		"---\nname:\nsources:\n  - one\n  - \"\"\n  - ' padded '\nrelated: []\n---\n",
		"---\nliteral: \"[]\"\nhash: \"#not a comment\"\nquoted: \"\"x\"\"\nempty: ''\n---\nbody",
		"---\n---\n",
		"---\nsources:\n  - url: https://a.example\n    name: \"A \\\"quoted\\\" name\"\n---\n",
	}

	for _, in := range inputs {
		fm, body, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}

		out, err := Serialize(fm, body)
		if err != nil {
			t.Fatalf("serialize %q: %v", in, err)
		}

		again, againBody, err := Parse(out)
		if err != nil {
			t.Fatalf("reparse %q: %v", out, err)
		}
		if !fm.Equal(again) {
			t.Errorf("round trip changed frontmatter:\n in: %q\nout: %q", in, out)
		}
		if againBody != body {
			t.Errorf("round trip changed body: %q != %q", againBody, body)
		}
	}
}

func TestSerializeRejectsNewlines(t *testing.T) {
	fm := New()
	fm.Set("description", Scalar("two\nlines"))
	if _, err := Serialize(fm, ""); !errors.Is(err, ErrUnrepresentable) {
		t.Fatalf("err = %v, want ErrUnrepresentable", err)
	}
}

func TestSerialize(t *testing.T) {
	fm := New()
	fm.Set("document_type", Scalar("plan"))
	fm.Set("related", List("topics/a.md", "topics/b.md"))
	fm.Set("sources", List())
	fm.Set("name", Null())

	out, err := Serialize(fm, "# Plan\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "---\ndocument_type: plan\nrelated:\n  - topics/a.md\n  - topics/b.md\nsources: []\nname:\n---\n# Plan\n"
	if out != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", out, want)
	}
}
