// Package skeleton renders starter documents for each registered type. A
// rendered skeleton loads and validates without structural issues.
package skeleton

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/aidanlsb/kbaudit/internal/dates"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/frontmatter"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/slugs"
)

// Variables are the values available to skeleton bodies.
type Variables struct {
	Title       string
	Slug        string
	Type        string
	Description string
	// Date is the freshness marker (YYYY-MM-DD)
	Date    string
	Related []string
	Sources []string
}

// NewVariables fills in the derived variables for title.
func NewVariables(title string, typ doctype.DocumentType, now time.Time) *Variables {
	return &Variables{
		Title: title,
		Slug:  slugs.ComponentSlug(title),
		Type:  string(typ),
		Date:  dates.Format(now),
	}
}

// PlaceholderSource is cited by skeletons of source-grounded types until the
// author replaces it.
const PlaceholderSource = "Replace with the source this document is based on"

var sectionPrompts = map[string]string{
	"summary":      "State the main point in two or three sentences so a reader can decide whether the rest of this document is relevant to them.",
	"details":      "Explain the subject in depth. Cover how it works, when it applies and the caveats a newcomer would otherwise learn the hard way.",
	"sources":      "List the material this document draws on. Every claim above should be traceable to one of the entries cited in this section.",
	"topics":       "Walk through the topics in this area in a sensible reading order and say in one line what each of them covers.",
	"question":     "Write down the exact question this research set out to answer, including the constraints and the decision it is meant to inform.",
	"findings":     "Summarize what was learned, separating established facts from interpretation, and note anything that contradicts earlier assumptions or documents.",
	"goal":         "Describe the outcome this plan is meant to achieve and how anyone will be able to tell that it has been reached.",
	"steps":        "Break the work into ordered steps that are small enough to finish in one sitting, each with a clear owner and result.",
	"status":       "Record where the plan stands today, what is blocked and what changed since the last update, with dates for each entry.",
	"context":      "Describe the situation that forced a decision, including the constraints, the people involved and the options that were on the table.",
	"decision":     "State the decision in one sentence, then explain the reasoning that led to it and who agreed to it at the time.",
	"consequences": "List what becomes easier and what becomes harder because of this decision, including any follow-up work it creates for others.",
}

const bodyTemplate = `# {{.Vars.Title}}
{{range .Sections}}
## {{.}}

{{prompt .}}
{{end}}`

var funcs = template.FuncMap{
	"prompt": func(section string) string {
		if p, ok := sectionPrompts[strings.ToLower(section)]; ok {
			return p
		}
		return "Describe " + strings.ToLower(section) + " here."
	},
}

var builtinBody = template.Must(template.New("body").Funcs(funcs).Parse(bodyTemplate))

// Header builds the frontmatter for a new document of schema's type.
func Header(schema *doctype.TypeSchema, vars *Variables) *frontmatter.Frontmatter {
	fm := frontmatter.New()
	description := vars.Description
	if description == "" {
		description = "One-line summary of " + vars.Title
	}

	for _, field := range schema.RequiredFields {
		switch field {
		case doctype.FieldType:
			fm.Set(field, frontmatter.Scalar(string(schema.Type)))
		case doctype.FieldName:
			fm.Set(field, frontmatter.Scalar(vars.Title))
		case doctype.FieldDescription:
			fm.Set(field, frontmatter.Scalar(description))
		case doctype.FieldUpdated:
			fm.Set(field, frontmatter.Scalar(vars.Date))
		case doctype.FieldSources:
			sources := vars.Sources
			if len(sources) == 0 && schema.SourceGrounded {
				sources = []string{PlaceholderSource}
			}
			fm.Set(field, frontmatter.List(sources...))
		case doctype.FieldRelated:
			fm.Set(field, frontmatter.List(vars.Related...))
		default:
			fm.Set(field, frontmatter.Scalar(""))
		}
	}
	if !schema.Lightweight {
		fm.Set(doctype.FieldTags, frontmatter.List())
	}
	return fm
}

// Render produces a complete document. body may be a custom template (see
// LoadTemplate); an empty body uses the built-in section scaffold.
func Render(schema *doctype.TypeSchema, vars *Variables, body string) (string, error) {
	tmpl := builtinBody
	if body != "" {
		var err error
		tmpl, err = template.New(string(schema.Type)).Funcs(funcs).Parse(body)
		if err != nil {
			return "", fmt.Errorf("parse template for %s: %w", schema.Type, err)
		}
	}

	var buf bytes.Buffer
	data := struct {
		Vars     *Variables
		Sections []string
	}{vars, schema.RequiredSections}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", schema.Type, err)
	}

	return frontmatter.Serialize(Header(schema, vars), buf.String())
}

// Filename returns the conventional filename for a new document.
func Filename(schema *doctype.TypeSchema, vars *Variables) string {
	if schema.Filename != nil && schema.Filename.SlugGroup > 1 {
		return vars.Date + "-" + vars.Slug + paths.MarkdownExt
	}
	return vars.Slug + paths.MarkdownExt
}

// LoadTemplate reads <root>/<dir>/<type>.md when a template directory is
// configured. A missing file yields "" so the built-in scaffold is used.
func LoadTemplate(root, dir string, typ doctype.DocumentType) (string, error) {
	dir = paths.NormalizeDir(dir)
	if dir == "" {
		return "", nil
	}
	full := paths.Abs(root, dir+"/"+string(typ)+paths.MarkdownExt)
	if err := paths.ValidateWithinRoot(root, full); err != nil {
		return "", fmt.Errorf("template directory must be inside the corpus: %w", err)
	}

	content, err := os.ReadFile(filepath.Clean(full))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(content), nil
}
