package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Validate the whole corpus",
	Long: `Run every check over the corpus and report the issues found.

Each document is checked against its type's schema (title, required
sections, size, freshness, sources). The corpus as a whole is checked for
broken related links, orphans, overview coverage, manifest sync and naming
conventions. Index files are compared with their generated form.

The command exits non-zero when any failure is found, or when any issue is
found in strict mode.

Examples:
  kba audit
  kba audit --strict
  kba audit --write-index
  kba audit --check-urls --json`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().Bool("strict", false, "Treat warnings as failures")
	auditCmd.Flags().Bool("write-index", false, "Rewrite stale index files after validation")
	auditCmd.Flags().Bool("no-index", false, "Skip index checks")
	auditCmd.Flags().Bool("check-urls", false, "Check that cited source URLs still resolve")
	auditCmd.Flags().Bool("no-cache", false, "Ignore the URL result cache")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	start := time.Now()
	c := getConfig()

	opts := auditOptions(c)
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		opts.Strict = true
	}
	writeIndex, _ := cmd.Flags().GetBool("write-index")
	noIndex, _ := cmd.Flags().GetBool("no-index")
	switch {
	case noIndex:
		opts.IndexMode = audit.IndexSkip
	case writeIndex:
		opts.IndexMode = audit.IndexWrite
	default:
		opts.IndexMode = audit.IndexCheck
	}

	checkURLs, _ := cmd.Flags().GetBool("check-urls")
	if checkURLs || c.URLs.Enabled {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		checker, closeFn, err := openURLChecker(c, !noCache)
		if err != nil {
			return handleError(ErrInternal, err, "retry with --no-cache")
		}
		defer closeFn()
		opts.URLChecker = checker
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := audit.Run(ctx, opts)
	if err != nil {
		return handleError(runErrorCode(err), err, "")
	}
	return outputAuditResult(res, start)
}

func outputAuditResult(res *audit.Result, start time.Time) error {
	report := res.Report()

	if isJSONOutput() {
		data := map[string]interface{}{
			"root":          report.Root,
			"files_scanned": report.FilesScanned,
			"issues":        report.Issues,
			"counts":        report.Counts,
			"strict":        report.Strict,
			"index_writes":  nonNil(res.IndexWrites),
		}
		if res.RunID != "" {
			data["run_id"] = res.RunID
		}
		meta := metaSince(len(report.Issues), start)
		if res.Failed() {
			outputFailure(ErrValidationFailed, ui.FailWarnCounts(report.Counts.Fail, report.Counts.Warn), data, meta)
			return errSilent
		}
		outputSuccess(data, meta)
		return nil
	}

	if err := issue.WriteText(os.Stdout, report, ui.NewDisplayContext()); err != nil {
		return err
	}
	for _, p := range res.IndexWrites {
		fmt.Println(ui.Hint("wrote " + p))
	}
	if res.Failed() {
		return errSilent
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
