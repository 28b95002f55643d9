package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
	"github.com/aidanlsb/kbaudit/internal/issue"
)

// LoadError is returned when a file cannot become a Document at all. Check
// names the issue check the failure maps to.
type LoadError struct {
	Path  string
	Check string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Issue converts the load failure into a fail issue.
func (e *LoadError) Issue() issue.Issue {
	i := issue.Failf(e.Path, e.Check, "%v", e.Err)
	var ute *doctype.UnknownTypeError
	switch {
	case errors.Is(e.Err, doctype.ErrNoType):
		return i.WithFix("add a document_type field to the header")
	case errors.As(e.Err, &ute):
		return i.WithFix("use one of the registered types (kba types)")
	case errors.Is(e.Err, frontmatter.ErrMissingOpening):
		return i.WithFix("start the file with a --- line")
	}
	return i
}

// Loader builds documents using a type registry.
type Loader struct {
	Registry *doctype.Registry
}

// NewLoader returns a loader bound to reg.
func NewLoader(reg *doctype.Registry) *Loader {
	return &Loader{Registry: reg}
}

// Load parses text into a Document. Header problems that do not prevent
// classification are returned as issues alongside the document; a malformed
// header or an unusable document_type is a *LoadError.
func (l *Loader) Load(path, text string) (*Document, []issue.Issue, error) {
	fm, body, err := frontmatter.Parse(text)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Check: issue.CheckParse, Err: err}
	}

	typeVal, _ := fm.Get(doctype.FieldType)
	raw, isScalar := typeVal.AsString()
	if !isScalar && fm.Has(doctype.FieldType) && !typeVal.IsNull() {
		return nil, nil, &LoadError{Path: path, Check: issue.CheckDocType, Err: fmt.Errorf("document_type must be a single value, got %s", typeVal)}
	}
	schema, err := l.Registry.Parse(raw)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Check: issue.CheckDocType, Err: err}
	}

	doc := &Document{
		Path:        path,
		Type:        schema.Type,
		Frontmatter: fm,
		Body:        body,
		Headings:    ExtractHeadings(body, bodyStartLine(text, body)),
	}

	return doc, checkFields(doc, schema), nil
}

func bodyStartLine(text, body string) int {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	prefix := normalized[:len(normalized)-len(body)]
	return strings.Count(prefix, "\n") + 1
}

// checkFields reports missing mandatory fields, shape mismatches and keys that
// were assigned more than once.
func checkFields(doc *Document, schema *doctype.TypeSchema) []issue.Issue {
	var issues []issue.Issue
	fm := doc.Frontmatter

	for _, field := range schema.RequiredFields {
		v, ok := fm.Get(field)
		if !ok {
			issues = append(issues, issue.Failf(doc.Path, issue.CheckFields, "missing required field %q", field).
				WithFix("add %s to the header", field))
			continue
		}
		if doctype.ListFields[field] {
			continue // shape is checked below; emptiness belongs to the content checks
		}
		if s, isScalar := v.AsString(); !isScalar || strings.TrimSpace(s) == "" {
			if v.Kind() == frontmatter.KindList {
				continue
			}
			issues = append(issues, issue.Failf(doc.Path, issue.CheckFields, "required field %q is empty", field))
		}
	}

	for _, key := range fm.Keys() {
		v, _ := fm.Get(key)
		switch {
		case doctype.ListFields[key] && v.Kind() == frontmatter.KindScalar:
			issues = append(issues, issue.Failf(doc.Path, issue.CheckFields, "field %q must be a list, got scalar %q", key, v.String()).
				WithFix("write each entry on its own `- ` line under %s:", key))
		case !doctype.ListFields[key] && v.Kind() == frontmatter.KindList:
			issues = append(issues, issue.Failf(doc.Path, issue.CheckFields, "field %q must be a single value, got a list", key))
		}
	}

	for _, key := range fm.Duplicates() {
		issues = append(issues, issue.Warnf(doc.Path, issue.CheckFrontmatter, "field %q is assigned more than once; the last value wins", key))
	}

	return issues
}
