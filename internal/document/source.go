package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LegacySourceKeys are the keys of the structured source records older
// documents carried before sources became plain strings.
var LegacySourceKeys = map[string]bool{
	"url":      true,
	"title":    true,
	"path":     true,
	"name":     true,
	"accessed": true,
}

var (
	markdownLinkRe = regexp.MustCompile(`^\[([^\]]*)\]\((\S+)\)$`)
	urlRe          = regexp.MustCompile(`https?://\S+`)
)

// Source is one interpreted `sources` entry.
type Source struct {
	Raw   string
	URL   string
	Title string
	// Legacy is set when the entry is a serialized mapping of LegacySourceKeys.
	Legacy bool
}

// ParseSource interprets a sources entry. Accepted shapes are a bare URL,
// a markdown link, free text containing a URL, or free text alone.
func ParseSource(raw string) Source {
	s := Source{Raw: raw}
	trimmed := strings.TrimSpace(raw)

	if fields, ok := legacyFields(trimmed); ok {
		s.Legacy = true
		s.URL = fields["url"]
		s.Title = fields["title"]
		if s.Title == "" {
			s.Title = fields["name"]
		}
		return s
	}

	if m := markdownLinkRe.FindStringSubmatch(trimmed); m != nil {
		s.Title = strings.TrimSpace(m[1])
		s.URL = m[2]
		return s
	}

	if loc := urlRe.FindStringIndex(trimmed); loc != nil {
		s.URL = strings.TrimRight(trimmed[loc[0]:loc[1]], ".,;)>")
		rest := trimmed[:loc[0]] + trimmed[loc[1]:]
		s.Title = strings.Trim(rest, " \t-:|()<>")
		return s
	}

	s.Title = trimmed
	return s
}

// legacyFields decodes entries like `{url: https://x, title: X}` or
// `url: https://x`. Only mappings whose keys are all legacy keys qualify.
func legacyFields(entry string) (map[string]string, bool) {
	if !strings.Contains(entry, ":") {
		return nil, false
	}
	var m map[string]any
	if err := yaml.Unmarshal([]byte(entry), &m); err != nil || len(m) == 0 {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if !LegacySourceKeys[k] {
			return nil, false
		}
		if v != nil {
			out[k] = fmt.Sprint(v)
		}
	}
	return out, true
}

// LegacyKeys returns the sorted keys of a legacy entry, for messages.
func (s Source) LegacyKeys() []string {
	fields, ok := legacyFields(strings.TrimSpace(s.Raw))
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
