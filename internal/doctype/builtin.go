package doctype

import (
	"regexp"
	"time"
)

const day = 24 * time.Hour

var (
	slugFilename = &FilenamePattern{
		Regexp:      regexp.MustCompile(`^([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`),
		Description: "lowercase-slug.md",
		SlugGroup:   1,
	}
	datedFilename = &FilenamePattern{
		Regexp:      regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`),
		Description: "YYYY-MM-DD-lowercase-slug.md",
		SlugGroup:   2,
	}
)

// BuiltinSchemas returns the schema records for the built-in document types.
func BuiltinSchemas() []TypeSchema {
	return []TypeSchema{
		{
			Type:             Topic,
			Label:            "Topic",
			RequiredSections: []string{"Summary", "Details", "Sources"},
			OptionalSections: []string{"Open Questions", "See Also"},
			Size:             Size{MinWords: 50, SoftMaxWords: 2500},
			SlugDirectories:  true,
			Filename:         slugFilename,
			Context:          true,
			SourceGrounded:   true,
			FreshnessTracked: true,
			StaleAfter:       180 * day,
		},
		{
			Type:             Overview,
			Label:            "Overview",
			RequiredSections: []string{"Summary", "Topics"},
			OptionalSections: []string{"Reading Order"},
			Size:             Size{MinWords: 30, SoftMaxWords: 2000},
			SlugDirectories:  true,
			Filename:         slugFilename,
			Context:          true,
			FreshnessTracked: true,
			StaleAfter:       180 * day,
		},
		{
			Type:             Research,
			Label:            "Research",
			RequiredSections: []string{"Question", "Findings", "Sources"},
			OptionalSections: []string{"Method", "Next Steps"},
			Size:             Size{MinWords: 50, SoftMaxWords: 5000},
			SlugDirectories:  true,
			Filename:         datedFilename,
			Artifact:         true,
			SourceGrounded:   true,
			FreshnessTracked: true,
			StaleAfter:       365 * day,
		},
		{
			Type:             Plan,
			Label:            "Plan",
			RequiredSections: []string{"Goal", "Steps", "Status"},
			OptionalSections: []string{"Risks"},
			Size:             Size{MinWords: 30, SoftMaxWords: 3000},
			SlugDirectories:  true,
			Filename:         datedFilename,
			Artifact:         true,
		},
		{
			Type:             Decision,
			Label:            "Decision",
			RequiredSections: []string{"Context", "Decision", "Consequences"},
			OptionalSections: []string{"Alternatives"},
			Size:             Size{MinWords: 30, SoftMaxWords: 2000},
			SlugDirectories:  true,
			Filename:         datedFilename,
			Artifact:         true,
			SourceGrounded:   true,
		},
		{
			Type:        Note,
			Label:       "Note",
			Lightweight: true,
			Size:        Size{MinWords: 0, SoftMaxWords: 1500},
		},
	}
}

// Default returns a registry with the built-in document types.
func Default() *Registry {
	r, err := NewRegistry(BuiltinSchemas()...)
	if err != nil {
		panic("doctype: invalid builtin schemas: " + err.Error())
	}
	return r
}
