package indexgen

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RootTitle is the title of the corpus root's index.
const RootTitle = "Index"

// Entry is one row of an index table.
type Entry struct {
	Filename    string
	Type        string
	Description string
}

var titleCaser = cases.Title(language.English)

// Title returns the display title for an area directory.
func Title(dir string) string {
	if dir == "" {
		return RootTitle
	}
	name := strings.NewReplacer("-", " ", "_", " ").Replace(path.Base(dir))
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// Render produces the full index text. entries must already be sorted.
func Render(title, preamble string, entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")
	if preamble != "" {
		sb.WriteString(preamble)
		sb.WriteString("\n\n")
	}
	sb.WriteString("| File | Type | Description |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for _, e := range entries {
		sb.WriteString("| [")
		sb.WriteString(escapeCell(e.Filename))
		sb.WriteString("](")
		sb.WriteString(e.Filename)
		sb.WriteString(") | ")
		sb.WriteString(escapeCell(e.Type))
		sb.WriteString(" | ")
		sb.WriteString(escapeCell(e.Description))
		sb.WriteString(" |\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExtractPreamble returns the human-written text between an index's first
// heading and its first table row, without surrounding blank lines. Text
// before the heading is not part of the preamble.
func ExtractPreamble(existing string) string {
	lines := strings.Split(strings.ReplaceAll(existing, "\r\n", "\n"), "\n")

	start := 0
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			start = i + 1
			break
		}
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
			end = i
			break
		}
	}

	body := lines[start:end]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return strings.Join(body, "\n")
}
