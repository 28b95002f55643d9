package cli

import (
	"testing"

	"github.com/aidanlsb/kbaudit/internal/config"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/manifest"
)

func TestExcludePatternsAddsTemplates(t *testing.T) {
	c := config.Default()
	c.Exclude = []string{"archive/**"}

	got := excludePatterns(c)
	if len(got) != 2 || got[0] != "archive/**" || got[1] != "templates/**" {
		t.Errorf("excludePatterns = %v", got)
	}
	if len(c.Exclude) != 1 {
		t.Errorf("config excludes were modified: %v", c.Exclude)
	}

	c.Templates = ""
	if got := excludePatterns(c); len(got) != 1 {
		t.Errorf("excludePatterns without templates = %v", got)
	}
}

func TestManifestDiff(t *testing.T) {
	live := &manifest.Manifest{Documents: []manifest.Entry{{Path: "a.md"}, {Path: "b.md"}}}
	current := &manifest.Manifest{Documents: []manifest.Entry{{Path: "b.md"}, {Path: "c.md"}}}

	missing, extra := manifestDiff(current, live)
	if len(missing) != 1 || missing[0] != "a.md" {
		t.Errorf("missing = %v", missing)
	}
	if len(extra) != 1 || extra[0] != "c.md" {
		t.Errorf("extra = %v", extra)
	}

	missing, extra = manifestDiff(nil, live)
	if len(missing) != 2 || extra != nil {
		t.Errorf("diff against absent manifest = %v, %v", missing, extra)
	}
}

func TestDescribeType(t *testing.T) {
	topic, _ := doctype.Default().Lookup(doctype.Topic)
	info := describeType(topic)
	if info.StaleAfterDays != 180 || !info.Context || info.Filename != "lowercase-slug.md" {
		t.Errorf("unexpected topic info: %+v", info)
	}

	note, _ := doctype.Default().Lookup(doctype.Note)
	info = describeType(note)
	if info.RequiredSections == nil || len(info.RequiredSections) != 0 || info.StaleAfterDays != 0 {
		t.Errorf("unexpected note info: %+v", info)
	}
}

func TestListGuides(t *testing.T) {
	topics, err := listGuides()
	if err != nil {
		t.Fatalf("listGuides: %v", err)
	}
	want := []string{"checks", "configuration"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i], want[i])
		}
	}
}

func TestDocumentDir(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"./", ""},
		{"decisions/", "decisions"},
		{"Go Decisions/Q3 Plans", "go-decisions/q3-plans"},
	}
	for _, tt := range tests {
		if got := documentDir(tt.in); got != tt.want {
			t.Errorf("documentDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
