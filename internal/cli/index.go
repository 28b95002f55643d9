package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/indexgen"
	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Regenerate per-directory index files",
	Long: `Regenerate the index file of every directory that contains documents.

Each index lists the directory's documents with their type and description.
Text between the index title and the table is kept as the area's preamble.
Only areas whose content changed are written.

Examples:
  kba index
  kba index --check
  kba index --preview`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("check", false, "Report stale index files without writing (non-zero exit when stale)")
	indexCmd.Flags().Bool("preview", false, "Render the changed index files instead of writing them")
	rootCmd.AddCommand(indexCmd)
}

type areaSummary struct {
	Dir         string `json:"dir"`
	Path        string `json:"path"`
	Entries     int    `json:"entries"`
	Changed     bool   `json:"changed"`
	Exists      bool   `json:"exists"`
	HasPreamble bool   `json:"has_preamble"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()
	c := getConfig()
	check, _ := cmd.Flags().GetBool("check")
	preview, _ := cmd.Flags().GetBool("preview")

	ctx, cancel := signalContext()
	defer cancel()

	opts := auditOptions(c)
	loaded, err := audit.Load(ctx, opts)
	if err != nil {
		return handleError(runErrorCode(err), err, "")
	}

	gen := indexgen.New(getRoot(), c.IndexFile, logger)
	plans, err := gen.Plan(loaded.Corpus)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	var stale []indexgen.AreaPlan
	summaries := make([]areaSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, areaSummary{
			Dir:         p.Dir,
			Path:        p.IndexPath,
			Entries:     len(p.Entries),
			Changed:     p.Changed,
			Exists:      p.Exists,
			HasPreamble: p.Preamble != "",
		})
		if p.Changed {
			stale = append(stale, p)
		}
	}

	switch {
	case preview:
		return previewIndexes(stale, summaries, start)
	case check:
		return reportStaleIndexes(stale, summaries, start)
	}

	written, err := gen.Apply(plans)
	if err != nil {
		return handleError(writeErrorCode(err), err, "")
	}
	if len(written) > 0 {
		if err := opts.RunLog.LogWrite(runlog.OpIndex, written); err != nil {
			logger.Warn("failed to append run log", "error", err)
		}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"areas":   summaries,
			"written": nonNil(written),
		}, metaSince(len(written), start))
		return nil
	}

	if len(written) == 0 {
		fmt.Println(ui.Success(fmt.Sprintf("All %d index files are up to date.", len(plans))))
		return nil
	}
	for _, p := range written {
		fmt.Println("wrote " + ui.FilePath(p))
	}
	fmt.Println(ui.Successf("Updated %d of %d index files.", len(written), len(plans)))
	return nil
}

func reportStaleIndexes(stale []indexgen.AreaPlan, summaries []areaSummary, start time.Time) error {
	paths := make([]string, 0, len(stale))
	for _, p := range stale {
		paths = append(paths, p.IndexPath)
	}

	if isJSONOutput() {
		data := map[string]interface{}{"areas": summaries, "stale": paths}
		if len(stale) > 0 {
			outputFailure(ErrIndexStale, fmt.Sprintf("%d index files are out of date", len(stale)), data, metaSince(len(stale), start))
			return errSilent
		}
		outputSuccess(data, metaSince(0, start))
		return nil
	}

	if len(stale) == 0 {
		fmt.Println(ui.Success("All index files are up to date."))
		return nil
	}
	for _, p := range paths {
		fmt.Println("stale " + ui.FilePath(p))
	}
	fmt.Println(ui.Hint("run `kba index` to rewrite them"))
	return errSilent
}

func previewIndexes(stale []indexgen.AreaPlan, summaries []areaSummary, start time.Time) error {
	if isJSONOutput() {
		previews := make(map[string]string, len(stale))
		for _, p := range stale {
			previews[p.IndexPath] = p.Content
		}
		outputSuccess(map[string]interface{}{"areas": summaries, "previews": previews}, metaSince(len(stale), start))
		return nil
	}

	if len(stale) == 0 {
		fmt.Println(ui.Success("All index files are up to date."))
		return nil
	}
	display := ui.NewDisplayContext()
	for _, p := range stale {
		fmt.Println(ui.Header(p.IndexPath))
		rendered, err := ui.RenderMarkdown(p.Content, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Println(p.Content)
			continue
		}
		fmt.Print(rendered)
	}
	return nil
}
