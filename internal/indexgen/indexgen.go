// Package indexgen regenerates the per-directory index files that list each
// area's documents, preserving the human-written preamble of existing files.
package indexgen

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/aidanlsb/kbaudit/internal/atomicfile"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/paths"
)

// DefaultFile is the index filename written into each area.
const DefaultFile = "index.md"

// AreaPlan is the rendered index for one area.
type AreaPlan struct {
	Dir       string // area directory, "" for the root
	IndexPath string // corpus-relative path of the index file
	Title     string
	Entries   []Entry
	Preamble  string
	Content   string
	Exists    bool
	Changed   bool
}

// Generator plans and writes index files under Root.
type Generator struct {
	Root      string
	IndexFile string
	Logger    *slog.Logger
}

// New returns a generator. An empty indexFile means DefaultFile.
func New(root, indexFile string, logger *slog.Logger) *Generator {
	if indexFile == "" {
		indexFile = DefaultFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Root: root, IndexFile: indexFile, Logger: logger}
}

// Plan renders every area that directly contains at least one loaded
// document. Nothing is written. Areas are returned sorted by directory.
func (g *Generator) Plan(corpus *document.Corpus) ([]AreaPlan, error) {
	byDir := make(map[string][]Entry)
	for _, doc := range corpus.Documents() {
		dir := doc.Dir()
		byDir[dir] = append(byDir[dir], Entry{
			Filename:    path.Base(doc.Path),
			Type:        string(doc.Type),
			Description: doc.Description(),
		})
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	plans := make([]AreaPlan, 0, len(dirs))
	for _, dir := range dirs {
		entries := byDir[dir]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })

		p := AreaPlan{
			Dir:       dir,
			IndexPath: path.Join(dir, g.IndexFile),
			Title:     Title(dir),
			Entries:   entries,
		}

		existing, err := os.ReadFile(paths.Abs(g.Root, p.IndexPath))
		switch {
		case err == nil:
			p.Exists = true
			p.Preamble = ExtractPreamble(string(existing))
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", p.IndexPath, err)
		}

		p.Content = Render(p.Title, p.Preamble, entries)
		p.Changed = !p.Exists || string(existing) != p.Content
		plans = append(plans, p)
	}
	return plans, nil
}

// Issues reports areas without a preamble and, when check is set, areas whose
// index file is out of date.
func Issues(plans []AreaPlan, check bool) []issue.Issue {
	var issues []issue.Issue
	for _, p := range plans {
		if p.Preamble == "" {
			issues = append(issues, issue.Warnf(p.IndexPath, issue.CheckPreamble, "index has no preamble").
				WithFix("describe the area between the title and the table"))
		}
		if check && p.Changed {
			msg := "index is out of date"
			if !p.Exists {
				msg = "index file is missing"
			}
			issues = append(issues, issue.Warnf(p.IndexPath, issue.CheckIndexStale, "%s", msg).
				WithFix("run `kba index`"))
		}
	}
	return issues
}

// Apply writes the changed areas and returns the corpus-relative paths it
// wrote. Each write holds the file's lock until the rename completes.
func (g *Generator) Apply(plans []AreaPlan) ([]string, error) {
	var written []string
	for _, p := range plans {
		if !p.Changed {
			continue
		}
		target := paths.Abs(g.Root, p.IndexPath)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", p.Dir, err)
		}
		if err := atomicfile.WriteFileLocked(target, []byte(p.Content), 0); err != nil {
			return written, fmt.Errorf("write %s: %w", p.IndexPath, err)
		}
		g.Logger.Debug("index written", "path", p.IndexPath, "entries", len(p.Entries))
		written = append(written, p.IndexPath)
	}
	return written, nil
}
