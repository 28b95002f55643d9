package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/audit"
	"github.com/aidanlsb/kbaudit/internal/manifest"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Compare or rewrite the manifest of context documents",
	Long: `Compare the manifest file with the context documents in the corpus.

Without flags the differences are listed. With --write the manifest is
rewritten from the corpus, sorted by path.

Examples:
  kba manifest
  kba manifest --write`,
	Args: cobra.NoArgs,
	RunE: runManifest,
}

func init() {
	manifestCmd.Flags().Bool("write", false, "Rewrite the manifest from the corpus")
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	start := time.Now()
	c := getConfig()
	write, _ := cmd.Flags().GetBool("write")

	ctx, cancel := signalContext()
	defer cancel()

	opts := auditOptions(c)
	loaded, err := audit.Load(ctx, opts)
	if err != nil {
		return handleError(runErrorCode(err), err, "")
	}

	rel := c.ManifestPath()
	target := paths.Abs(getRoot(), rel)
	live := manifest.FromCorpus(loaded.Corpus, opts.Registry)

	current, err := manifest.Load(target)
	if err != nil && !errors.Is(err, manifest.ErrNotFound) {
		if !write {
			return handleError(ErrFileReadError, err, "run `kba manifest --write` to regenerate it")
		}
		current = nil
	}
	missing, extra := manifestDiff(current, live)

	if write {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		changed, err := manifest.Save(target, live)
		if err != nil {
			return handleError(writeErrorCode(err), err, "")
		}
		if changed {
			if err := opts.RunLog.LogWrite(runlog.OpManifest, []string{rel}); err != nil {
				logger.Warn("failed to append run log", "error", err)
			}
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":    rel,
				"changed": changed,
				"added":   nonNil(missing),
				"removed": nonNil(extra),
			}, metaSince(len(live.Documents), start))
			return nil
		}
		if changed {
			fmt.Println(ui.Successf("Wrote %s (%d documents).", rel, len(live.Documents)))
		} else {
			fmt.Println(ui.Success(rel + " is already up to date."))
		}
		return nil
	}

	inSync := current != nil && len(missing) == 0 && len(extra) == 0
	if isJSONOutput() {
		data := map[string]interface{}{
			"path":     rel,
			"exists":   current != nil,
			"unlisted": nonNil(missing),
			"stale":    nonNil(extra),
		}
		if !inSync && len(live.Documents) > 0 {
			outputFailure(ErrManifestStale, rel+" does not match the corpus", data, metaSince(len(missing)+len(extra), start))
			return errSilent
		}
		outputSuccess(data, metaSince(0, start))
		return nil
	}

	if current == nil {
		fmt.Println(ui.Warningf("%s does not exist.", rel))
	}
	for _, p := range missing {
		fmt.Println("unlisted " + ui.FilePath(p))
	}
	for _, p := range extra {
		fmt.Println("stale    " + ui.FilePath(p))
	}
	if inSync || (len(live.Documents) == 0 && current == nil) {
		fmt.Println(ui.Success(rel + " matches the corpus."))
		return nil
	}
	fmt.Println(ui.Hint("run `kba manifest --write` to update it"))
	return errSilent
}

// manifestDiff returns live paths the manifest lacks and listed paths the
// live manifest lacks.
func manifestDiff(current, live *manifest.Manifest) (missing, extra []string) {
	for _, p := range live.Paths() {
		if current == nil || !current.Has(p) {
			missing = append(missing, p)
		}
	}
	if current != nil {
		for _, p := range current.Paths() {
			if !live.Has(p) {
				extra = append(extra, p)
			}
		}
	}
	return missing, extra
}
