package issue

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/kbaudit/internal/ui"
)

// Report is the machine-readable form of a run.
type Report struct {
	Root         string  `json:"root"`
	FilesScanned int     `json:"files_scanned"`
	Issues       []Issue `json:"issues"`
	Counts       Counts  `json:"counts"`
	Strict       bool    `json:"strict"`
	OK           bool    `json:"ok"`
}

// NewReport builds a report from an issue list.
func NewReport(root string, filesScanned int, issues []Issue, strict bool) Report {
	counts := Count(issues)
	if issues == nil {
		issues = []Issue{}
	}
	return Report{
		Root:         root,
		FilesScanned: filesScanned,
		Issues:       issues,
		Counts:       counts,
		Strict:       strict,
		OK:           !Failed(counts, strict),
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the report as a table followed by a summary line.
func WriteText(w io.Writer, r Report, display *ui.DisplayContext) error {
	if display == nil {
		display = ui.NewDisplayContext()
	}

	if len(r.Issues) > 0 {
		rows := make([][]string, 0, len(r.Issues))
		for _, i := range r.Issues {
			msg := i.Message
			if i.Fix != "" {
				msg += " " + ui.Hint("("+i.Fix+")")
			}
			rows = append(rows, []string{
				badge(i.Severity),
				ui.FilePath(i.Path),
				ui.Hint(i.Check),
				msg,
			})
		}

		table := ui.RenderIssueTable(display, []ui.Column{
			{Header: "SEVERITY"},
			{Header: "PATH"},
			{Header: "CHECK"},
			{Header: "MESSAGE", Flex: true, MinWidth: 30},
		}, rows)
		if _, err := fmt.Fprintln(w, table); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	var summary string
	switch {
	case r.Counts.Total() == 0:
		summary = ui.Success(fmt.Sprintf("No issues found in %d files.", r.FilesScanned))
	case r.OK:
		summary = ui.Warningf("%s in %d files.", ui.FailWarnCounts(r.Counts.Fail, r.Counts.Warn), r.FilesScanned)
	default:
		summary = ui.Error(fmt.Sprintf("%s in %d files.", ui.FailWarnCounts(r.Counts.Fail, r.Counts.Warn), r.FilesScanned))
	}
	if r.Strict && !r.OK && r.Counts.Fail == 0 {
		summary += " " + ui.Hint("(strict: warnings fail the run)")
	}

	_, err := fmt.Fprintln(w, summary)
	return err
}

func badge(s Severity) string {
	label := strings.ToUpper(s.String())
	if s == Fail {
		return ui.FailBadge.Render(label)
	}
	return ui.WarnBadge.Render(label)
}
