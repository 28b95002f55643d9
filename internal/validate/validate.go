// Package validate runs the per-document structural checks a document's type
// schema dispatches to.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/kbaudit/internal/dates"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
	"github.com/aidanlsb/kbaudit/internal/issue"
)

// Options configures checks that depend on the environment.
type Options struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// CheckFunc is a single per-document check. It must not modify doc.
type CheckFunc func(doc *document.Document, schema *doctype.TypeSchema, opts Options) []issue.Issue

// Builtin returns the default dispatch table keyed by check name.
func Builtin() map[string]CheckFunc {
	return map[string]CheckFunc{
		doctype.CheckTitle:     CheckTitle,
		doctype.CheckSections:  CheckSections,
		doctype.CheckSize:      CheckSize,
		doctype.CheckFreshness: CheckFreshness,
		doctype.CheckSources:   CheckSources,
	}
}

// Validator dispatches documents to the checks their schema lists.
type Validator struct {
	checks map[string]CheckFunc
	opts   Options
}

// New returns a validator using the builtin checks.
func New(opts Options) *Validator {
	return NewWithChecks(Builtin(), opts)
}

// NewWithChecks returns a validator using a custom dispatch table.
func NewWithChecks(checks map[string]CheckFunc, opts Options) *Validator {
	return &Validator{checks: checks, opts: opts}
}

// Validate runs exactly the checks schema lists, in order. A check name with
// no implementation is an error; it means the registry and the dispatch table
// disagree.
func (v *Validator) Validate(doc *document.Document, schema *doctype.TypeSchema) ([]issue.Issue, error) {
	var issues []issue.Issue
	for _, name := range schema.Checks {
		fn, ok := v.checks[name]
		if !ok {
			return nil, fmt.Errorf("document type %q lists unknown check %q", schema.Type, name)
		}
		issues = append(issues, fn(doc, schema, v.opts)...)
	}
	return issues, nil
}

// Validate runs the builtin checks for doc.
func Validate(doc *document.Document, schema *doctype.TypeSchema, opts Options) ([]issue.Issue, error) {
	return New(opts).Validate(doc, schema)
}

// CheckTitle requires a non-empty H1 heading.
func CheckTitle(doc *document.Document, _ *doctype.TypeSchema, _ Options) []issue.Issue {
	title, ok := doc.Title()
	switch {
	case !ok:
		return []issue.Issue{issue.Failf(doc.Path, doctype.CheckTitle, "missing H1 title").
			WithFix("add a `# Title` line at the top of the body")}
	case strings.TrimSpace(title) == "":
		return []issue.Issue{issue.Failf(doc.Path, doctype.CheckTitle, "H1 title is empty")}
	}
	return nil
}

// CheckSections requires every required H2 section, in the declared order.
// Headings are compared case-insensitively; other headings are ignored.
func CheckSections(doc *document.Document, schema *doctype.TypeSchema, _ Options) []issue.Issue {
	if len(schema.RequiredSections) == 0 {
		return nil
	}

	position := make(map[string]int)
	for i, h := range doc.Sections() {
		key := strings.ToLower(strings.TrimSpace(h.Text))
		if _, seen := position[key]; !seen {
			position[key] = i
		}
	}

	var issues []issue.Issue
	last, lastName := -1, ""
	for _, name := range schema.RequiredSections {
		pos, ok := position[strings.ToLower(name)]
		if !ok {
			issues = append(issues, issue.Failf(doc.Path, doctype.CheckSections, "missing required section %q", name).
				WithFix("add a `## %s` heading", name))
			continue
		}
		if pos < last {
			issues = append(issues, issue.Failf(doc.Path, doctype.CheckSections, "section %q must come after %q", name, lastName))
			continue
		}
		last, lastName = pos, name
	}
	return issues
}

// CheckSize bounds the body word count.
func CheckSize(doc *document.Document, schema *doctype.TypeSchema, _ Options) []issue.Issue {
	words := doc.WordCount()
	switch {
	case words < schema.Size.MinWords:
		return []issue.Issue{issue.Failf(doc.Path, doctype.CheckSize, "body has %d words, below the %s minimum of %d", words, schema.Type, schema.Size.MinWords)}
	case schema.Size.SoftMaxWords > 0 && words > schema.Size.SoftMaxWords:
		return []issue.Issue{issue.Warnf(doc.Path, doctype.CheckSize, "body has %d words, above the %s soft maximum of %d", words, schema.Type, schema.Size.SoftMaxWords).
			WithFix("split the document")}
	}
	return nil
}

// CheckFreshness warns when the freshness marker is older than the type's
// stale threshold or cannot be read. Staleness is never a failure.
func CheckFreshness(doc *document.Document, schema *doctype.TypeSchema, opts Options) []issue.Issue {
	raw := doc.Updated()
	if raw == "" {
		// absence is reported by the field check
		return nil
	}
	updated, err := dates.ParseMarker(raw)
	if err != nil {
		return []issue.Issue{issue.Warnf(doc.Path, doctype.CheckFreshness, "cannot read %s: %v", doctype.FieldUpdated, err)}
	}

	threshold := schema.StaleAfter
	if threshold <= 0 {
		return nil
	}
	age := dates.DaysBetween(updated, opts.now())
	limit := int(threshold.Hours() / 24)
	if age > limit {
		return []issue.Issue{issue.Warnf(doc.Path, doctype.CheckFreshness, "last updated %d days ago (%s goes stale after %d days)", age, schema.Type, limit).
			WithFix("review the content and bump %s", doctype.FieldUpdated)}
	}
	return nil
}

// CheckSources requires at least one source and flags entries still written
// in the legacy mapping shape.
func CheckSources(doc *document.Document, _ *doctype.TypeSchema, _ Options) []issue.Issue {
	v, ok := doc.Frontmatter.Get(doctype.FieldSources)
	if !ok || v.Kind() == frontmatter.KindScalar {
		// missing field and wrong shape are reported by the field check
		return nil
	}
	sources := doc.Sources()
	if len(sources) == 0 {
		return []issue.Issue{issue.Failf(doc.Path, doctype.CheckSources, "sources list is empty").
			WithFix("cite at least one source")}
	}

	var issues []issue.Issue
	for _, raw := range sources {
		src := document.ParseSource(raw)
		if src.Legacy {
			issues = append(issues, issue.Warnf(doc.Path, doctype.CheckSources, "source %q uses the legacy mapping shape (%s)", raw, strings.Join(src.LegacyKeys(), ", ")).
				WithFix("rewrite as `[Title](url)`"))
		}
	}
	return issues
}
