// Package issue holds the validation issue model shared by every check.
package issue

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Severity partitions issues into drift (warn) and structural breaks (fail).
type Severity int

const (
	Warn Severity = iota
	Fail
)

func (s Severity) String() string {
	switch s {
	case Fail:
		return "fail"
	case Warn:
		return "warn"
	default:
		return "unknown"
	}
}

// ParseSeverity parses "warn" or "fail".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning":
		return Warn, nil
	case "fail", "error":
		return Fail, nil
	default:
		return Warn, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Check names reported by the loader and cross-document validators.
const (
	CheckRead         = "read"
	CheckParse        = "parse"
	CheckDocType      = "document-type"
	CheckFields       = "fields"
	CheckFrontmatter  = "frontmatter"
	CheckBrokenLink   = "broken-link"
	CheckOrphan       = "orphan"
	CheckAsymmetric   = "asymmetric-link"
	CheckOverviewSync = "overview-sync"
	CheckUncovered    = "topic-uncovered"
	CheckManifest     = "manifest-sync"
	CheckNaming       = "naming"
	CheckPreamble     = "index-preamble"
	CheckIndexStale   = "index-stale"
	CheckSourceURL    = "source-url"
)

// Issue is a single finding about one path.
type Issue struct {
	Path     string   `json:"path"`
	Severity Severity `json:"severity"`
	Check    string   `json:"check"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

// Failf builds a fail issue.
func Failf(path, check, format string, args ...any) Issue {
	return Issue{Path: path, Severity: Fail, Check: check, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warn issue.
func Warnf(path, check, format string, args ...any) Issue {
	return Issue{Path: path, Severity: Warn, Check: check, Message: fmt.Sprintf(format, args...)}
}

// WithFix returns a copy of the issue carrying a fix suggestion.
func (i Issue) WithFix(format string, args ...any) Issue {
	i.Fix = fmt.Sprintf(format, args...)
	return i
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s [%s] %s", strings.ToUpper(i.Severity.String()), i.Path, i.Check, i.Message)
}

// Sort orders issues by path, then fail before warn, then check and message.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		x, y := issues[a], issues[b]
		if x.Path != y.Path {
			return x.Path < y.Path
		}
		if x.Severity != y.Severity {
			return x.Severity > y.Severity
		}
		if x.Check != y.Check {
			return x.Check < y.Check
		}
		return x.Message < y.Message
	})
}

// Counts holds per-severity totals.
type Counts struct {
	Warn int `json:"warn"`
	Fail int `json:"fail"`
}

// Total returns the number of issues counted.
func (c Counts) Total() int { return c.Warn + c.Fail }

// Count tallies issues by severity.
func Count(issues []Issue) Counts {
	var c Counts
	for _, i := range issues {
		switch i.Severity {
		case Fail:
			c.Fail++
		case Warn:
			c.Warn++
		}
	}
	return c
}

// Filter returns the issues produced by check.
func Filter(issues []Issue, check string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Check == check {
			out = append(out, i)
		}
	}
	return out
}

// Failed reports whether issues constitute a failed run. In strict mode any
// issue fails the run.
func Failed(c Counts, strict bool) bool {
	if c.Fail > 0 {
		return true
	}
	return strict && c.Warn > 0
}
