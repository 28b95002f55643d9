package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// ExtractHeadings returns the H1 and H2 headings of body in order. Headings
// with no text are kept so the title check can report them. startLine is the
// file line on which body begins.
func ExtractHeadings(body string, startLine int) []Heading {
	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))
	lineStarts := computeLineStarts(body)

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level > 2 {
			return ast.WalkSkipChildren, nil
		}

		line := startLine
		if heading.Lines().Len() > 0 {
			line = startLine + offsetToLine(lineStarts, heading.Lines().At(0).Start)
		}
		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  strings.TrimSpace(nodeText(heading, source)),
			Line:  line,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// nodeText concatenates the literal text below n, including text nested in
// emphasis, links and code spans.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return sb.String()
}

func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
