package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered document types and their schemas",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

type typeInfo struct {
	Type             string   `json:"type"`
	Label            string   `json:"label"`
	RequiredFields   []string `json:"required_fields"`
	RequiredSections []string `json:"required_sections"`
	OptionalSections []string `json:"optional_sections,omitempty"`
	MinWords         int      `json:"min_words"`
	SoftMaxWords     int      `json:"soft_max_words,omitempty"`
	Filename         string   `json:"filename,omitempty"`
	Context          bool     `json:"context"`
	SourceGrounded   bool     `json:"source_grounded"`
	StaleAfterDays   int      `json:"stale_after_days,omitempty"`
	Checks           []string `json:"checks"`
}

func describeType(s *doctype.TypeSchema) typeInfo {
	info := typeInfo{
		Type:             string(s.Type),
		Label:            s.Label,
		RequiredFields:   s.RequiredFields,
		RequiredSections: nonNil(s.RequiredSections),
		OptionalSections: s.OptionalSections,
		MinWords:         s.Size.MinWords,
		SoftMaxWords:     s.Size.SoftMaxWords,
		Context:          s.Context,
		SourceGrounded:   s.SourceGrounded,
		Checks:           s.Checks,
	}
	if s.Filename != nil {
		info.Filename = s.Filename.Description
	}
	if s.FreshnessTracked {
		info.StaleAfterDays = int(s.StaleAfter.Hours() / 24)
	}
	return info
}

func runTypes(cmd *cobra.Command, args []string) error {
	schemas := getConfig().Registry().Schemas()

	if isJSONOutput() {
		out := make([]typeInfo, 0, len(schemas))
		for _, s := range schemas {
			out = append(out, describeType(s))
		}
		outputSuccess(map[string]interface{}{"types": out}, &Meta{Count: len(out)})
		return nil
	}

	t := ui.NewTable(4)
	t.AddRow(ui.Bold.Render("TYPE"), ui.Bold.Render("SECTIONS"), ui.Bold.Render("WORDS"), ui.Bold.Render("STALE AFTER"))
	for _, s := range schemas {
		info := describeType(s)
		sections := strings.Join(info.RequiredSections, ", ")
		if sections == "" {
			sections = ui.Hint("-")
		}
		stale := ui.Hint("-")
		if info.StaleAfterDays > 0 {
			stale = fmt.Sprintf("%dd", info.StaleAfterDays)
		}
		words := fmt.Sprintf("%d+", info.MinWords)
		if info.SoftMaxWords > 0 {
			words = fmt.Sprintf("%d-%d", info.MinWords, info.SoftMaxWords)
		}
		t.AddRow(ui.Accent.Render(info.Type), sections, words, stale)
	}
	fmt.Print(t.String())
	return nil
}
