package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/kbaudit/docs"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

const docsDir = "guide"

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `List the guides bundled with kba, or render one of them.

Examples:
  kba docs
  kba docs checks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func listGuides() ([]string, error) {
	entries, err := fs.ReadDir(builtindocs.FS, docsDir)
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			topics = append(topics, strings.TrimSuffix(e.Name(), ".md"))
		}
	}
	sort.Strings(topics)
	return topics, nil
}

func runDocs(cmd *cobra.Command, args []string) error {
	topics, err := listGuides()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if len(args) == 0 {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
			return nil
		}
		for _, t := range topics {
			fmt.Println(ui.Accent.Render(t))
		}
		fmt.Println(ui.Hint("kba docs <topic> to read one"))
		return nil
	}

	topic := strings.TrimSuffix(strings.ToLower(args[0]), ".md")
	content, err := fs.ReadFile(builtindocs.FS, path.Join(docsDir, topic+".md"))
	if err != nil {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown docs topic %q", args[0]), "available: "+strings.Join(topics, ", "))
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topic": topic, "content": string(content)}, nil)
		return nil
	}
	display := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(string(content), display.AvailableWidth(ui.MarkdownRenderMargin))
	if err != nil || !display.IsTTY {
		fmt.Print(string(content))
		return nil
	}
	fmt.Print(rendered)
	return nil
}
