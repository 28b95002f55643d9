package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent audit runs and file writes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return handleErrorMsg(ErrInvalidInput, "--limit must be positive", "")
	}

	entries, err := runlogFor(getConfig()).Last(limit)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	if entries == nil {
		entries = []runlog.Entry{}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries)})
		return nil
	}

	if len(entries) == 0 {
		fmt.Println(ui.Hint("no runs recorded"))
		return nil
	}
	t := ui.NewTable(3)
	for _, e := range entries {
		var detail string
		switch e.Operation {
		case runlog.OpAudit:
			detail = fmt.Sprintf("%d files, %s", e.FilesScanned, ui.FailWarnCounts(e.Fail, e.Warn))
			if e.Failed {
				detail = ui.FailBadge.Render("FAILED") + " " + detail
			}
		default:
			detail = strings.Join(e.Written, ", ")
		}
		t.AddRow(ui.Hint(e.Timestamp.Local().Format("2006-01-02 15:04:05")), e.Operation, detail)
	}
	fmt.Print(t.String())
	return nil
}
