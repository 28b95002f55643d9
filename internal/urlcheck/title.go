package urlcheck

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// maxTitleScan bounds how much of a page is read looking for <title>.
const maxTitleScan = 1 << 20

// extractTitle returns the text of the first <title> element, or "".
func extractTitle(r io.Reader) string {
	z := html.NewTokenizer(io.LimitReader(r, maxTitleScan))
	inTitle := false
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" && inTitle {
				return strings.Join(strings.Fields(sb.String()), " ")
			}
			if string(name) == "head" {
				return strings.TrimSpace(sb.String())
			}
		case html.TextToken:
			if inTitle {
				sb.Write(z.Text())
			}
		}
	}
}

// titleWords returns the lowercase words of s that carry meaning: three or
// more letters or digits.
func titleWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) >= 3 {
			words[w] = true
		}
	}
	return words
}

// titlesShareWord reports whether cited and page titles have a word in
// common. Titles with no meaningful words always match.
func titlesShareWord(cited, page string) bool {
	a, b := titleWords(cited), titleWords(page)
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	for w := range a {
		if b[w] {
			return true
		}
	}
	return false
}
