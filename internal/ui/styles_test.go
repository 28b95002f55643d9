package ui

import (
	"strings"
	"testing"
)

func TestNormalizeAccentColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "empty", input: "", expected: "", ok: false},
		{name: "off", input: "off", expected: "", ok: false},
		{name: "ansi code", input: "39", expected: "39", ok: true},
		{name: "ansi with whitespace", input: "  244 ", expected: "244", ok: true},
		{name: "ansi out of range", input: "256", expected: "", ok: false},
		{name: "hex 6", input: "#7aa2f7", expected: "#7aa2f7", ok: true},
		{name: "hex 3", input: "#abc", expected: "#aabbcc", ok: true},
		{name: "bad hex", input: "#zzzzzz", expected: "", ok: false},
		{name: "bad string", input: "blue", expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeAccentColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("topic", "context", "Summary, Details")
	tbl.AddRow("note", "-", "")

	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "note   -") {
		t.Errorf("second row not aligned: %q", lines[1])
	}
}

func TestRenderIssueTable(t *testing.T) {
	DisableStyles()
	out := RenderIssueTable(NewDisplayContextWithWidth(80),
		[]Column{{Header: "PATH"}, {Header: "MESSAGE", Flex: true, MinWidth: 10}},
		[][]string{{"topics/a.md", "broken link"}})

	if !strings.Contains(out, "PATH") || !strings.Contains(out, "topics/a.md") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestDisplayForNonTerminal(t *testing.T) {
	t.Setenv("COLUMNS", "90")
	d := DisplayFor(&strings.Builder{})
	if d.IsTTY || d.TermWidth != 90 {
		t.Errorf("DisplayFor = %+v, want width 90 and no tty", d)
	}

	t.Setenv("COLUMNS", "abc")
	if d := DisplayFor(&strings.Builder{}); d.TermWidth != DefaultTermWidth {
		t.Errorf("TermWidth = %d, want %d", d.TermWidth, DefaultTermWidth)
	}

	if got := NewDisplayContextWithWidth(25).AvailableWidth(10); got != 20 {
		t.Errorf("AvailableWidth = %d, want 20", got)
	}
}
