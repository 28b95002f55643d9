package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/config"
	"github.com/aidanlsb/kbaudit/internal/issue"
	"github.com/aidanlsb/kbaudit/internal/ui"
	"github.com/aidanlsb/kbaudit/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the audit whenever the corpus changes",
	Long: `Watch the corpus and re-run the audit after files change.

The watcher:
- Monitors every document, the manifest and the config file
- Debounces bursts of saves into a single run
- Ignores hidden directories, index files and excluded paths

Examples:
  kba watch
  kba watch --write-index
  kba watch --debounce 1s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("write-index", false, "Rewrite stale index files on every run")
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "Quiet period before a run starts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := getConfig()
	writeIndex, _ := cmd.Flags().GetBool("write-index")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	opts := auditOptions(c)
	opts.IndexMode = audit.IndexCheck
	if writeIndex {
		opts.IndexMode = audit.IndexWrite
	}

	runOnce := func(ctx context.Context, changed []string) {
		if len(changed) > 0 && !isJSONOutput() {
			fmt.Println(ui.Hint("changed: " + strings.Join(changed, ", ")))
		}
		res, err := audit.Run(ctx, opts)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("audit failed", "error", err)
			}
			return
		}
		if isJSONOutput() {
			outputJSON(Response{OK: !res.Failed(), Data: res.Report()})
			return
		}
		if err := issue.WriteText(os.Stdout, res.Report(), ui.NewDisplayContext()); err != nil {
			logger.Error("failed to print report", "error", err)
		}
	}

	extra := []string{c.ManifestPath(), config.FileName}
	w, err := watcher.New(watcher.Config{
		Root:          getRoot(),
		Walk:          opts.Walk,
		Extra:         extra,
		DebounceDelay: debounce,
		Logger:        logger,
		OnChange:      runOnce,
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	ctx, cancel := signalContext()
	defer cancel()

	if !isJSONOutput() {
		fmt.Printf("Watching %s\n", getRoot())
		fmt.Println("Press Ctrl+C to stop")
	}
	runOnce(ctx, nil)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	return nil
}
