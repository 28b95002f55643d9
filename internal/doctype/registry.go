// Package doctype defines the document types a corpus may contain and the
// schema record that drives validation for each of them.
package doctype

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DocumentType is the value of a document's `document_type` field.
type DocumentType string

const (
	Topic    DocumentType = "topic"
	Overview DocumentType = "overview"
	Research DocumentType = "research"
	Plan     DocumentType = "plan"
	Decision DocumentType = "decision"
	Note     DocumentType = "note"
)

// Check names used by the per-document dispatch table.
const (
	CheckTitle     = "title"
	CheckSections  = "sections"
	CheckSize      = "size"
	CheckFreshness = "freshness"
	CheckSources   = "sources"
)

// Frontmatter field names shared across types.
const (
	FieldType        = "document_type"
	FieldName        = "name"
	FieldDescription = "description"
	FieldUpdated     = "last_updated"
	FieldSources     = "sources"
	FieldRelated     = "related"
	FieldTags        = "tags"
	FieldScope       = "scope"
)

// FullFields is the mandatory field set for richly typed documents.
var FullFields = []string{FieldType, FieldName, FieldDescription, FieldUpdated, FieldSources, FieldRelated}

// MinimalFields is the mandatory field set for lightweight documents.
var MinimalFields = []string{FieldType, FieldDescription}

// ListFields are the fields whose value must be list-shaped when present.
var ListFields = map[string]bool{
	FieldSources: true,
	FieldRelated: true,
	FieldTags:    true,
	FieldScope:   true,
}

// ErrNoType is returned when a document declares no type at all.
var ErrNoType = errors.New("document_type is missing")

// UnknownTypeError is returned when a type is not registered.
type UnknownTypeError struct {
	Type  string
	Known []DocumentType
}

func (e *UnknownTypeError) Error() string {
	known := make([]string, len(e.Known))
	for i, t := range e.Known {
		known[i] = string(t)
	}
	return fmt.Sprintf("unknown document_type %q (known: %s)", e.Type, strings.Join(known, ", "))
}

// Size bounds a document body in words.
type Size struct {
	MinWords     int // below is a structural failure
	SoftMaxWords int // above is drift; 0 disables the bound
}

// FilenamePattern constrains a document's base filename.
type FilenamePattern struct {
	Regexp      *regexp.Regexp
	Description string
	// SlugGroup is the index of the submatch that must already be a slug; 0 means
	// the whole stem.
	SlugGroup int
}

// TypeSchema is the immutable validation record for one document type.
type TypeSchema struct {
	Type  DocumentType
	Label string

	// Lightweight types only require MinimalFields.
	Lightweight      bool
	RequiredFields   []string
	RequiredSections []string
	OptionalSections []string
	Size             Size

	// SlugDirectories requires every directory component to be a slug.
	SlugDirectories bool
	// Filename is nil for types that are exempt from filename conventions.
	Filename *FilenamePattern

	Context          bool
	Artifact         bool
	SourceGrounded   bool
	FreshnessTracked bool
	StaleAfter       time.Duration

	// Checks is the ordered list of per-document checks this type dispatches to.
	Checks []string
}

// HasCheck reports whether name is in the schema's dispatch list.
func (s *TypeSchema) HasCheck(name string) bool {
	for _, c := range s.Checks {
		if c == name {
			return true
		}
	}
	return false
}

// Registry is a read-only table of type schemas.
type Registry struct {
	schemas map[DocumentType]*TypeSchema
	order   []DocumentType
}

// NewRegistry builds a registry from schemas. Each type may appear once.
// A schema without an explicit Checks list gets one derived from its flags.
func NewRegistry(schemas ...TypeSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[DocumentType]*TypeSchema, len(schemas))}
	for i := range schemas {
		s := schemas[i]
		if strings.TrimSpace(string(s.Type)) == "" {
			return nil, fmt.Errorf("schema %d: empty document type", i)
		}
		if _, exists := r.schemas[s.Type]; exists {
			return nil, fmt.Errorf("duplicate schema for document type %q", s.Type)
		}
		if len(s.RequiredFields) == 0 {
			s.RequiredFields = FullFields
			if s.Lightweight {
				s.RequiredFields = MinimalFields
			}
		}
		if len(s.Checks) == 0 {
			s.Checks = defaultChecks(&s)
		}
		if s.FreshnessTracked && s.StaleAfter <= 0 {
			return nil, fmt.Errorf("document type %q is freshness-tracked without a stale threshold", s.Type)
		}
		r.schemas[s.Type] = &s
		r.order = append(r.order, s.Type)
	}
	return r, nil
}

func defaultChecks(s *TypeSchema) []string {
	checks := []string{CheckTitle, CheckSections, CheckSize}
	if s.FreshnessTracked {
		checks = append(checks, CheckFreshness)
	}
	if s.SourceGrounded {
		checks = append(checks, CheckSources)
	}
	return checks
}

// Lookup returns the schema for t. Unknown types are an error, never a default.
func (r *Registry) Lookup(t DocumentType) (*TypeSchema, error) {
	s, ok := r.schemas[t]
	if !ok {
		return nil, &UnknownTypeError{Type: string(t), Known: r.Types()}
	}
	return s, nil
}

// Parse resolves a raw `document_type` value.
func (r *Registry) Parse(raw string) (*TypeSchema, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoType
	}
	return r.Lookup(DocumentType(raw))
}

// Types returns the registered types in declaration order.
func (r *Registry) Types() []DocumentType {
	cp := make([]DocumentType, len(r.order))
	copy(cp, r.order)
	return cp
}

// Schemas returns every schema in declaration order.
func (r *Registry) Schemas() []*TypeSchema {
	out := make([]*TypeSchema, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.schemas[t])
	}
	return out
}

// IsContext reports whether t is a registered context type.
func (r *Registry) IsContext(t DocumentType) bool {
	s, ok := r.schemas[t]
	return ok && s.Context
}

// WithStaleAfter returns a copy of the registry with overridden stale thresholds.
// Types that are not freshness-tracked ignore overrides.
func (r *Registry) WithStaleAfter(overrides map[DocumentType]time.Duration) *Registry {
	cp := &Registry{schemas: make(map[DocumentType]*TypeSchema, len(r.schemas)), order: r.Types()}
	for t, s := range r.schemas {
		clone := *s
		if d, ok := overrides[t]; ok && clone.FreshnessTracked && d > 0 {
			clone.StaleAfter = d
		}
		cp.schemas[t] = &clone
	}
	return cp
}
