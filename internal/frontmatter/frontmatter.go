// Package frontmatter parses and serializes the restricted header grammar used by
// knowledge-base documents.
//
// The grammar is deliberately smaller than YAML: a header is a sequence of
// `key: value` scalars, `key:` nulls, and `key:` lines followed by `- item` list
// entries. There are no nested mappings and no typed scalars; every value is a
// string and interpretation is left to the type-specific validators.
//
// A list item written as `- key: value` may be continued by `key: value` lines
// indented deeper than its dash. The item is then stored as a single-line flow
// mapping, `{key: "value", other: "value"}`, and never binds keys at the top level.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Delimiter is the marker line that opens and closes a header block.
const Delimiter = "---"

var (
	// ErrMissingOpening means the text does not start with a delimiter line.
	ErrMissingOpening = errors.New("missing opening --- delimiter")
	// ErrMissingClosing means the header block is never closed.
	ErrMissingClosing = errors.New("missing closing --- delimiter")
	// ErrMalformedLine means a header line is not `key: value`, `key:` or `- item`.
	ErrMalformedLine = errors.New("malformed header line")
	// ErrOrphanListItem means a list item does not follow a key-only line.
	ErrOrphanListItem = errors.New("list item without a preceding key")
	// ErrUnrepresentable means a value cannot be written in the restricted grammar.
	ErrUnrepresentable = errors.New("value cannot be represented in frontmatter")
)

var keyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ParseError describes a malformed header.
type ParseError struct {
	Line int // 1-indexed line in the original text, 0 when not line specific
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("frontmatter line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("frontmatter: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind is the shape of a frontmatter value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is a single frontmatter value: null, a scalar string, or a list of strings.
type Value struct {
	kind   Kind
	scalar string
	items  []string
}

// Null returns a null value.
func Null() Value { return Value{kind: KindNull} }

// Scalar returns a scalar string value.
func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// List returns a list value. A nil slice yields an empty list.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp}
}

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the scalar string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	return v.scalar, true
}

// AsList returns a copy of the list items.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp, true
}

// Equal reports whether two values have the same shape and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if v.items[i] != o.items[i] {
				return false
			}
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		return "[" + strings.Join(v.items, ", ") + "]"
	default:
		return "null"
	}
}

// Frontmatter is an ordered mapping from key to Value.
type Frontmatter struct {
	keys       []string
	values     map[string]Value
	duplicates []string
}

// New returns an empty frontmatter.
func New() *Frontmatter {
	return &Frontmatter{values: make(map[string]Value)}
}

// Set assigns a value. A new key is appended; an existing key keeps its position.
func (f *Frontmatter) Set(key string, v Value) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// Get returns the value for key.
func (f *Frontmatter) Get(key string) (Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Frontmatter) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// String returns the scalar value for key. Missing, null and list values yield "".
func (f *Frontmatter) String(key string) string {
	v, ok := f.values[key]
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// List returns the list value for key, or nil.
func (f *Frontmatter) List(key string) []string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	items, _ := v.AsList()
	return items
}

// Keys returns the keys in header order.
func (f *Frontmatter) Keys() []string {
	cp := make([]string, len(f.keys))
	copy(cp, f.keys)
	return cp
}

// Len returns the number of keys.
func (f *Frontmatter) Len() int { return len(f.keys) }

// Duplicates returns keys that were assigned more than once while parsing.
func (f *Frontmatter) Duplicates() []string {
	cp := make([]string, len(f.duplicates))
	copy(cp, f.duplicates)
	return cp
}

// Equal reports whether both mappings hold the same keys in the same order with
// equal values.
func (f *Frontmatter) Equal(o *Frontmatter) bool {
	if f == nil || o == nil {
		return f == o
	}
	if len(f.keys) != len(o.keys) {
		return false
	}
	for i, k := range f.keys {
		if o.keys[i] != k {
			return false
		}
		if !f.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// Split separates the header region from the body without interpreting it.
// The returned header excludes both delimiter lines; header[0] is line 2 of text.
func Split(text string) (header []string, body string, err error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != Delimiter {
		return nil, "", &ParseError{Err: ErrMissingOpening}
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == Delimiter {
			return lines[1:i], strings.Join(lines[i+1:], "\n"), nil
		}
	}

	return nil, "", &ParseError{Err: ErrMissingClosing}
}

// Parse parses a document's header and returns it with the body that follows the
// closing delimiter.
func Parse(text string) (*Frontmatter, string, error) {
	header, body, err := Split(text)
	if err != nil {
		return nil, "", err
	}

	fm := New()
	seen := make(map[string]bool)
	// listKey is the key that subsequent `- item` lines attach to.
	listKey := ""
	// itemIndent is the dash column of the open list item, -1 when none is open.
	itemIndent := -1
	var itemFields []field

	for i, raw := range header {
		lineNo := i + 2 // opening delimiter is line 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == "-" || strings.HasPrefix(line, "- ") {
			if listKey == "" {
				return nil, "", &ParseError{Line: lineNo, Text: raw, Err: ErrOrphanListItem}
			}
			item := unquote(strings.TrimSpace(strings.TrimPrefix(line, "-")))
			cur := fm.values[listKey]
			if cur.kind != KindList {
				cur = Value{kind: KindList}
			}
			cur.items = append(cur.items, item)
			fm.values[listKey] = cur

			itemIndent = indentOf(raw)
			itemFields = nil
			if f, ok := splitField(item); ok {
				itemFields = []field{f}
			}
			continue
		}

		key, rest, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || !keyRegex.MatchString(key) {
			return nil, "", &ParseError{Line: lineNo, Text: raw, Err: ErrMalformedLine}
		}

		if itemIndent >= 0 && indentOf(raw) > itemIndent {
			if itemFields == nil {
				return nil, "", &ParseError{Line: lineNo, Text: raw, Err: ErrMalformedLine}
			}
			itemFields = append(itemFields, field{key: key, value: unquote(strings.TrimSpace(rest))})
			cur := fm.values[listKey]
			cur.items[len(cur.items)-1] = flowMapping(itemFields)
			fm.values[listKey] = cur
			continue
		}
		itemIndent = -1
		itemFields = nil

		if seen[key] {
			fm.duplicates = append(fm.duplicates, key)
		}
		seen[key] = true

		rest = strings.TrimSpace(rest)
		switch rest {
		case "":
			fm.Set(key, Null())
			listKey = key
		case "[]":
			fm.Set(key, List())
			listKey = ""
		default:
			fm.Set(key, Scalar(unquote(rest)))
			listKey = ""
		}
	}

	return fm, body, nil
}

// Serialize renders the header followed by body. It is the inverse of Parse for
// any frontmatter Parse can produce.
func Serialize(fm *Frontmatter, body string) (string, error) {
	var sb strings.Builder
	sb.WriteString(Delimiter)
	sb.WriteString("\n")

	if fm != nil {
		for _, key := range fm.keys {
			if !keyRegex.MatchString(key) {
				return "", fmt.Errorf("key %q: %w", key, ErrUnrepresentable)
			}
			v := fm.values[key]
			switch v.kind {
			case KindNull:
				sb.WriteString(key + ":\n")
			case KindScalar:
				s, err := quote(v.scalar)
				if err != nil {
					return "", fmt.Errorf("key %q: %w", key, err)
				}
				sb.WriteString(key + ": " + s + "\n")
			case KindList:
				if len(v.items) == 0 {
					sb.WriteString(key + ": []\n")
					continue
				}
				sb.WriteString(key + ":\n")
				for _, item := range v.items {
					s, err := quote(item)
					if err != nil {
						return "", fmt.Errorf("key %q: %w", key, err)
					}
					sb.WriteString("  - " + s + "\n")
				}
			}
		}
	}

	sb.WriteString(Delimiter)
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String(), nil
}

type field struct {
	key, value string
}

func indentOf(raw string) int {
	return len(raw) - len(strings.TrimLeft(raw, " \t"))
}

// splitField reads a list item of the form `key: value` or `key:`.
func splitField(item string) (field, bool) {
	key, rest, ok := strings.Cut(item, ":")
	if !ok || !keyRegex.MatchString(key) {
		return field{}, false
	}
	// `https://x` is a scalar, not an `https` key.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return field{}, false
	}
	return field{key: key, value: unquote(strings.TrimSpace(rest))}, true
}

// flowMapping renders fields as a one-line mapping with double-quoted values.
func flowMapping(fields []field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		v := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(f.value)
		parts[i] = f.key + `: "` + v + `"`
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// quote returns s in a form that Parse reads back verbatim.
func quote(s string) (string, error) {
	if strings.ContainsAny(s, "\r\n") {
		return "", ErrUnrepresentable
	}
	if needsQuotes(s) {
		return `"` + s + `"`, nil
	}
	return s, nil
}

func needsQuotes(s string) bool {
	if s == "" || s == "[]" {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.HasPrefix(s, "#") {
		return true
	}
	return unquote(s) != s
}
