package audit

import (
	"context"

	"github.com/aidanlsb/kbaudit/internal/document"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/urlcheck"
)

// SourceRequests collects every checkable URL cited in a sources list, in
// corpus order.
func SourceRequests(corpus *document.Corpus) []urlcheck.Request {
	var reqs []urlcheck.Request
	for _, doc := range corpus.Documents() {
		for _, raw := range doc.Sources() {
			src := document.ParseSource(raw)
			if !urlcheck.IsCheckable(src.URL) {
				continue
			}
			reqs = append(reqs, urlcheck.Request{Path: doc.Path, URL: src.URL, Title: src.Title})
		}
	}
	return reqs
}

// CheckSources runs checker over every cited URL. Removed pages are failures
// that ask for the source to be dropped; flagged pages are warnings.
func CheckSources(ctx context.Context, checker *urlcheck.Checker, corpus *document.Corpus) ([]urlcheck.Result, []issue.Issue, error) {
	reqs := SourceRequests(corpus)
	if len(reqs) == 0 {
		return nil, nil, nil
	}

	results, err := checker.CheckAll(ctx, reqs)
	if err != nil {
		return nil, nil, err
	}

	var issues []issue.Issue
	for i, res := range results {
		path := reqs[i].Path
		switch res.Status {
		case urlcheck.StatusRemoved:
			issues = append(issues, issue.Failf(path, issue.CheckSourceURL, "source %s is gone: %s", res.URL, res.Reason).
				WithFix("remove the source or cite a replacement"))
		case urlcheck.StatusFlagged:
			issues = append(issues, issue.Warnf(path, issue.CheckSourceURL, "source %s needs review: %s", res.URL, res.Reason))
		}
	}
	return results, issues, nil
}
