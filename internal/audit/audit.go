// Package audit runs the full validation pipeline over a corpus: discovery,
// loading, per-document and cross-document checks, index regeneration and
// the optional source URL check.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aidanlsb/kbaudit/internal/crosscheck"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/indexgen"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/manifest"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/urlcheck"
	"github.com/aidanlsb/kbaudit/internal/validate"
	"github.com/aidanlsb/kbaudit/internal/walk"
)

// IndexMode selects what happens to generated index files.
type IndexMode int

const (
	// IndexCheck reports stale index files without writing them.
	IndexCheck IndexMode = iota
	// IndexWrite rewrites changed index files after validation.
	IndexWrite
	// IndexSkip leaves index files out of the run entirely.
	IndexSkip
)

// Options configures a run.
type Options struct {
	Root     string
	Registry *doctype.Registry
	Walk     walk.Options

	// ManifestPath is corpus-relative; empty disables manifest sync.
	ManifestPath string
	IndexMode    IndexMode
	Strict       bool

	// URLChecker enables the source URL check when set.
	URLChecker *urlcheck.Checker

	Now    func() time.Time
	RunLog *runlog.Logger
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Registry == nil {
		o.Registry = doctype.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Walk.IndexFile == "" {
		o.Walk.IndexFile = indexgen.DefaultFile
	}
}

// Result is the outcome of a run.
type Result struct {
	Root         string
	Issues       []issue.Issue
	Counts       issue.Counts
	Strict       bool
	FilesScanned int
	IndexWrites  []string
	IndexPlans   []indexgen.AreaPlan
	URLResults   []urlcheck.Result
	RunID        string

	Corpus *document.Corpus
}

// Failed reports whether the run failed: any fail issue, or any issue at all
// in strict mode.
func (r *Result) Failed() bool {
	return issue.Failed(r.Counts, r.Strict)
}

// Report converts the result into its renderable form.
func (r *Result) Report() issue.Report {
	return issue.NewReport(r.Root, r.FilesScanned, r.Issues, r.Strict)
}

// Loaded is a discovered and parsed corpus with the issues loading produced.
type Loaded struct {
	Corpus       *document.Corpus
	Issues       []issue.Issue
	FilesScanned int
}

// Load discovers and parses every document under opts.Root. Files that cannot
// be read, parsed or classified become one fail issue each and are marked
// failed in the corpus. Only an unreadable root is returned as an error.
func Load(ctx context.Context, opts Options) (*Loaded, error) {
	opts.defaults()
	loader := document.NewLoader(opts.Registry)
	out := &Loaded{Corpus: document.NewCorpus()}

	err := walk.WalkMarkdownFiles(ctx, opts.Root, opts.Walk, func(f walk.File) error {
		out.FilesScanned++
		if f.Error != nil {
			out.Issues = append(out.Issues, issue.Failf(f.RelativePath, issue.CheckRead, "cannot read file: %v", f.Error))
			out.Corpus.MarkFailed(f.RelativePath)
			return nil
		}

		doc, issues, err := loader.Load(f.RelativePath, string(f.Content))
		if err != nil {
			var le *document.LoadError
			if !errors.As(err, &le) {
				return err
			}
			out.Issues = append(out.Issues, le.Issue())
			out.Corpus.MarkFailed(f.RelativePath)
			return nil
		}
		out.Corpus.Add(doc)
		out.Issues = append(out.Issues, issues...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("corpus loaded", "files", out.FilesScanned, "documents", out.Corpus.Len(), "failed", len(out.Corpus.Failed()))
	return out, nil
}

// Run executes the whole pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	start := opts.Now()

	loaded, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	corpus := loaded.Corpus
	issues := loaded.Issues

	v := validate.New(validate.Options{Now: opts.Now})
	for _, doc := range corpus.Documents() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		schema, err := opts.Registry.Lookup(doc.Type)
		if err != nil {
			return nil, err
		}
		found, err := v.Validate(doc, schema)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", doc.Path, err)
		}
		issues = append(issues, found...)
	}

	cross := crosscheck.Options{}
	if opts.ManifestPath != "" {
		cross.Manifest = readManifest(opts.Root, opts.ManifestPath)
	}
	issues = append(issues, crosscheck.Run(corpus, opts.Registry, cross)...)

	result := &Result{
		Root:         opts.Root,
		Strict:       opts.Strict,
		FilesScanned: loaded.FilesScanned,
		Corpus:       corpus,
	}

	if opts.IndexMode != IndexSkip {
		gen := indexgen.New(opts.Root, opts.Walk.IndexFile, opts.Logger)
		plans, err := gen.Plan(corpus)
		if err != nil {
			return nil, err
		}
		result.IndexPlans = plans
		issues = append(issues, indexgen.Issues(plans, opts.IndexMode == IndexCheck)...)
		if opts.IndexMode == IndexWrite {
			written, err := gen.Apply(plans)
			result.IndexWrites = written
			if err != nil {
				return nil, err
			}
		}
	}

	if opts.URLChecker != nil {
		results, found, err := CheckSources(ctx, opts.URLChecker, corpus)
		if err != nil {
			return nil, err
		}
		result.URLResults = results
		issues = append(issues, found...)
	}

	issue.Sort(issues)
	result.Issues = issues
	result.Counts = issue.Count(issues)

	opts.Logger.Debug("audit finished",
		"files", result.FilesScanned,
		"fail", result.Counts.Fail,
		"warn", result.Counts.Warn,
		"index_writes", len(result.IndexWrites),
		"elapsed", opts.Now().Sub(start))

	if opts.RunLog != nil && opts.RunLog.Enabled() {
		entry, err := opts.RunLog.Log(runlog.Entry{
			Operation:    runlog.OpAudit,
			FilesScanned: result.FilesScanned,
			Warn:         result.Counts.Warn,
			Fail:         result.Counts.Fail,
			Failed:       result.Failed(),
			Strict:       result.Strict,
			Written:      result.IndexWrites,
		})
		if err != nil {
			opts.Logger.Warn("failed to append run log", "error", err)
		} else {
			result.RunID = entry.ID
		}
	}

	return result, nil
}

func readManifest(root, rel string) *crosscheck.ManifestState {
	rel = paths.NormalizeRef(rel)
	m, err := manifest.Load(paths.Abs(root, rel))
	return &crosscheck.ManifestState{Path: rel, Manifest: m, Err: err}
}
