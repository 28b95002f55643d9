// Package crosscheck validates relationships that span the whole corpus:
// link integrity, manifest sync, overview coverage and naming conventions.
// Every check reads the corpus and never modifies it.
package crosscheck

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aidanlsb/kbaudit/internal/dates"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/manifest"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/slugs"
)

// ManifestState is the outcome of reading the manifest file for a run.
type ManifestState struct {
	// Path is the manifest's corpus-relative path, used to attribute issues.
	Path     string
	Manifest *manifest.Manifest
	// Err is set when the manifest could not be loaded. Wrapping
	// manifest.ErrNotFound means the file does not exist.
	Err error
}

// Options selects optional checks.
type Options struct {
	// Manifest enables manifest sync when non-nil.
	Manifest *ManifestState
}

// Run executes every cross-document check and returns the sorted issues.
func Run(corpus *document.Corpus, reg *doctype.Registry, opts Options) []issue.Issue {
	g := BuildGraph(corpus)

	var issues []issue.Issue
	issues = append(issues, CheckLinks(corpus, g)...)
	issues = append(issues, CheckOrphans(corpus, reg, g)...)
	issues = append(issues, CheckSymmetry(corpus, reg, g)...)
	issues = append(issues, CheckOverviews(corpus, g)...)
	if opts.Manifest != nil {
		issues = append(issues, CheckManifest(corpus, reg, *opts.Manifest)...)
	}
	issues = append(issues, CheckNaming(corpus, reg)...)

	issue.Sort(issues)
	return issues
}

// CheckLinks reports one broken-link failure per unresolved (source, target).
func CheckLinks(corpus *document.Corpus, g *Graph) []issue.Issue {
	var issues []issue.Issue
	for _, p := range corpus.Paths() {
		for _, target := range g.Broken(p) {
			reason := "does not exist"
			if corpus.IsFailed(target) {
				reason = "failed to load"
			}
			issues = append(issues, issue.Failf(p, issue.CheckBrokenLink, "related target %q %s", target, reason).
				WithFix("fix or remove the %s entry", doctype.FieldRelated))
		}
	}
	return issues
}

// CheckOrphans warns about context documents with no resolved links in
// either direction.
func CheckOrphans(corpus *document.Corpus, reg *doctype.Registry, g *Graph) []issue.Issue {
	var issues []issue.Issue
	for _, doc := range corpus.Documents() {
		if !reg.IsContext(doc.Type) {
			continue
		}
		if len(g.Out(doc.Path)) == 0 && len(g.In(doc.Path)) == 0 {
			issues = append(issues, issue.Warnf(doc.Path, issue.CheckOrphan, "%s has no related links in or out", doc.Type).
				WithFix("link it from an overview or a related document"))
		}
	}
	return issues
}

// CheckSymmetry warns on the target of X→Y when Y is a context document that
// does not list X back. The link itself is valid.
func CheckSymmetry(corpus *document.Corpus, reg *doctype.Registry, g *Graph) []issue.Issue {
	var issues []issue.Issue
	for _, target := range corpus.Documents() {
		if !reg.IsContext(target.Type) {
			continue
		}
		for _, src := range g.In(target.Path) {
			if !g.HasEdge(target.Path, src) {
				issues = append(issues, issue.Warnf(target.Path, issue.CheckAsymmetric, "%s lists this document but is not listed back in %s", src, doctype.FieldRelated).
					WithFix("add %s to %s", src, doctype.FieldRelated))
			}
		}
	}
	return issues
}

// CheckOverviews verifies that each overview reaches every topic in its scope
// directly or through one intermediate document. When any overview exists,
// topics that no overview reaches are reported as uncovered.
func CheckOverviews(corpus *document.Corpus, g *Graph) []issue.Issue {
	overviews := corpus.ByType(doctype.Overview)
	if len(overviews) == 0 {
		return nil
	}
	topics := corpus.ByType(doctype.Topic)

	var issues []issue.Issue
	covered := make(map[string]bool)
	for _, ov := range overviews {
		reach := g.Reachable(ov.Path, 2)
		for p := range reach {
			covered[p] = true
		}

		scope, ok := ov.Scope()
		if !ok {
			scope = []string{ov.Dir()}
		}
		for _, topic := range topics {
			if !inScope(topic.Path, scope) || reach[topic.Path] {
				continue
			}
			issues = append(issues, issue.Warnf(topic.Path, issue.CheckOverviewSync, "not reachable from overview %s", ov.Path).
				WithFix("add it to the %s list of %s", doctype.FieldRelated, ov.Path))
		}
	}

	for _, topic := range topics {
		if !covered[topic.Path] {
			issues = append(issues, issue.Warnf(topic.Path, issue.CheckUncovered, "no overview reaches this topic"))
		}
	}
	return issues
}

func inScope(p string, scope []string) bool {
	for _, dir := range scope {
		if paths.InDir(p, dir) {
			return true
		}
	}
	return false
}

// CheckManifest compares the manifest with the live context documents and
// fails on every path present in only one of them.
func CheckManifest(corpus *document.Corpus, reg *doctype.Registry, state ManifestState) []issue.Issue {
	var live []string
	for _, doc := range corpus.Documents() {
		if reg.IsContext(doc.Type) {
			live = append(live, doc.Path)
		}
	}

	if state.Err != nil {
		if errors.Is(state.Err, manifest.ErrNotFound) {
			if len(live) == 0 {
				return nil
			}
			return []issue.Issue{issue.Failf(state.Path, issue.CheckManifest, "manifest is missing; unlisted: %s", strings.Join(live, ", ")).
				WithFix("run `kba manifest --write`")}
		}
		return []issue.Issue{issue.Failf(state.Path, issue.CheckManifest, "cannot read manifest: %v", state.Err)}
	}

	listed := make(map[string]bool)
	if state.Manifest != nil {
		for _, p := range state.Manifest.Paths() {
			listed[p] = true
		}
	}

	var issues []issue.Issue
	if state.Manifest != nil {
		for _, p := range state.Manifest.Paths() {
			doc, ok := corpus.Get(p)
			switch {
			case !ok:
				issues = append(issues, issue.Failf(state.Path, issue.CheckManifest, "lists %s, which is not in the corpus", p).
					WithFix("remove the entry or restore the document"))
			case !reg.IsContext(doc.Type):
				issues = append(issues, issue.Failf(state.Path, issue.CheckManifest, "lists %s, which is a %s and not a context document", p, doc.Type))
			}
		}
	}
	for _, p := range live {
		if !listed[p] {
			issues = append(issues, issue.Failf(p, issue.CheckManifest, "context document is not listed in %s", state.Path).
				WithFix("run `kba manifest --write`"))
		}
	}
	return issues
}

// CheckNaming warns about filenames and directories that break the type's
// naming convention.
func CheckNaming(corpus *document.Corpus, reg *doctype.Registry) []issue.Issue {
	var issues []issue.Issue
	for _, doc := range corpus.Documents() {
		schema, err := reg.Lookup(doc.Type)
		if err != nil {
			continue
		}

		if pattern := schema.Filename; pattern != nil {
			base := path.Base(doc.Path)
			m := pattern.Regexp.FindStringSubmatch(base)
			switch {
			case m == nil:
				issues = append(issues, issue.Warnf(doc.Path, issue.CheckNaming, "filename %q does not match %s", base, pattern.Description).
					WithFix("rename to %s", suggestName(doc, pattern)))
			case len(m) > 2 && !dates.IsValidDate(m[1]):
				issues = append(issues, issue.Warnf(doc.Path, issue.CheckNaming, "filename date %q is not a real date", m[1]))
			}
		}

		if schema.SlugDirectories {
			for _, dir := range slugs.NonSlugDirs(doc.Path) {
				issues = append(issues, issue.Warnf(doc.Path, issue.CheckNaming, "directory %q is not a slug", dir).
					WithFix("rename to %q", slugs.ComponentSlug(dir)))
			}
		}
	}
	return issues
}

func suggestName(doc *document.Document, pattern *doctype.FilenamePattern) string {
	stem := slugs.ComponentSlug(path.Base(doc.Path))
	if pattern.SlugGroup > 1 {
		marker := doc.Updated()
		if !dates.IsValidDate(marker) {
			marker = "YYYY-MM-DD"
		}
		return fmt.Sprintf("%s-%s.md", marker, stem)
	}
	return stem + ".md"
}
