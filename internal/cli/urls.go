package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/urlcheck"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Check that cited source URLs still resolve",
	Long: `Fetch every http(s) URL cited in a sources list.

A 404 or 410 response marks the page as removed. Other errors, and pages
whose title shares no word with the cited title, are flagged for review.
Results are cached in .kbaudit/urlcache.db for the configured TTL.

Examples:
  kba urls
  kba urls --no-cache --json`,
	Args: cobra.NoArgs,
	RunE: runURLs,
}

func init() {
	urlsCmd.Flags().Bool("no-cache", false, "Ignore the URL result cache")
	urlsCmd.Flags().Bool("all", false, "List URLs that are fine too")
	rootCmd.AddCommand(urlsCmd)
}

type urlReport struct {
	Path string `json:"path"`
	urlcheck.Result
}

func runURLs(cmd *cobra.Command, args []string) error {
	start := time.Now()
	c := getConfig()
	noCache, _ := cmd.Flags().GetBool("no-cache")
	all, _ := cmd.Flags().GetBool("all")

	ctx, cancel := signalContext()
	defer cancel()

	loaded, err := audit.Load(ctx, auditOptions(c))
	if err != nil {
		return handleError(runErrorCode(err), err, "")
	}

	checker, closeFn, err := openURLChecker(c, !noCache)
	if err != nil {
		return handleError(ErrInternal, err, "retry with --no-cache")
	}
	defer closeFn()

	reqs := audit.SourceRequests(loaded.Corpus)
	results, err := checker.CheckAll(ctx, reqs)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if err := checker.Tidy(ctx, reqs); err != nil {
		logger.Warn("failed to tidy url cache", "error", err)
	}

	reports := make([]urlReport, 0, len(results))
	removed := 0
	for i, res := range results {
		if res.Status == urlcheck.StatusRemoved {
			removed++
		}
		if !all && res.Status == urlcheck.StatusOK {
			continue
		}
		reports = append(reports, urlReport{Path: reqs[i].Path, Result: res})
	}

	if isJSONOutput() {
		data := map[string]interface{}{"checked": len(results), "results": reports}
		if removed > 0 {
			outputFailure(ErrURLCheckFailed, fmt.Sprintf("%d cited pages are gone", removed), data, metaSince(len(reports), start))
			return errSilent
		}
		outputSuccess(data, metaSince(len(reports), start))
		return nil
	}

	t := ui.NewTable(4)
	for _, r := range reports {
		status := ui.WarnBadge.Render(string(r.Status))
		switch r.Status {
		case urlcheck.StatusRemoved:
			status = ui.FailBadge.Render(string(r.Status))
		case urlcheck.StatusOK:
			status = string(r.Status)
		}
		t.AddRow(status, ui.FilePath(r.Path), r.URL, ui.Hint(r.Reason))
	}
	fmt.Print(t.String())
	fmt.Println(ui.Infof("Checked %d URLs.", len(results)))
	if removed > 0 {
		return errSilent
	}
	return nil
}
