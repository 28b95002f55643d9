package crosscheck

import (
	"sort"

	"github.com/aidanlsb/kbaudit/internal/document"
)

// Graph is the directed link graph formed by `related` entries. Only edges
// whose target loaded are kept; the rest are recorded as broken.
type Graph struct {
	out    map[string][]string
	in     map[string][]string
	broken map[string][]string
}

// BuildGraph builds the link graph for corpus. Self-links are ignored.
func BuildGraph(corpus *document.Corpus) *Graph {
	g := &Graph{
		out:    make(map[string][]string),
		in:     make(map[string][]string),
		broken: make(map[string][]string),
	}
	for _, doc := range corpus.Documents() {
		for _, target := range doc.Related() {
			if target == doc.Path {
				continue
			}
			if !corpus.Has(target) {
				g.broken[doc.Path] = append(g.broken[doc.Path], target)
				continue
			}
			g.out[doc.Path] = append(g.out[doc.Path], target)
			g.in[target] = append(g.in[target], doc.Path)
		}
	}
	for k := range g.in {
		sort.Strings(g.in[k])
	}
	return g
}

// Out returns the resolved targets of path in declaration order.
func (g *Graph) Out(path string) []string { return g.out[path] }

// In returns the sorted sources linking to path.
func (g *Graph) In(path string) []string { return g.in[path] }

// Broken returns the unresolved targets of path in declaration order.
func (g *Graph) Broken(path string) []string { return g.broken[path] }

// HasEdge reports whether from lists to.
func (g *Graph) HasEdge(from, to string) bool {
	for _, t := range g.out[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Reachable returns the documents reachable from path in at most hops edges,
// excluding path itself.
func (g *Graph) Reachable(path string, hops int) map[string]bool {
	seen := map[string]bool{path: true}
	frontier := []string{path}
	for i := 0; i < hops && len(frontier) > 0; i++ {
		var next []string
		for _, p := range frontier {
			for _, t := range g.out[p] {
				if !seen[t] {
					seen[t] = true
					next = append(next, t)
				}
			}
		}
		frontier = next
	}
	delete(seen, path)
	return seen
}
