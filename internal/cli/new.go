package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/kbaudit/internal/atomicfile"
	"github.com/aidanlsb/kbaudit/internal/dates"
	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/paths"
	"github.com/aidanlsb/kbaudit/internal/runlog"
	"github.com/aidanlsb/kbaudit/internal/shellquote"
	"github.com/aidanlsb/kbaudit/internal/skeleton"
	"github.com/aidanlsb/kbaudit/internal/slugs"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var newCmd = &cobra.Command{
	Use:   "new <type> <title>",
	Short: "Create a document from its type's skeleton",
	Long: `Create a new document that already passes its type's structural checks.

The filename follows the type's naming convention and --dir is slugified per
component. --date sets last_updated and the filename date. When <templates>/<type>.md
exists it is used as the body template; {{.Vars.Title}}, {{.Vars.Date}} and
{{range .Sections}} are available.

Examples:
  kba new topic "Go Modules" --dir topics
  kba new plan "Q3 Launch" --dir plans --related topics/go-modules.md
  kba new note "Scratch" --description "loose ends"
  kba new decision "Use SQLite" --dir decisions --date yesterday`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("dir", "", "Directory to create the document in")
	newCmd.Flags().String("date", "", "Document date: YYYY-MM-DD, today or yesterday (default today)")
	newCmd.Flags().String("description", "", "One-line description")
	newCmd.Flags().StringSlice("related", nil, "Related document (repeatable)")
	newCmd.Flags().StringSlice("source", nil, "Source to cite (repeatable)")
	newCmd.Flags().Bool("force", false, "Overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	c := getConfig()
	reg := c.Registry()

	schema, err := reg.Parse(args[0])
	if err != nil {
		return handleError(ErrTypeNotFound, err, "run `kba types` to list document types")
	}
	title := strings.TrimSpace(args[1])
	if title == "" {
		return handleErrorMsg(ErrMissingArgument, "title must not be empty", "")
	}

	dir, _ := cmd.Flags().GetString("dir")
	description, _ := cmd.Flags().GetString("description")
	related, _ := cmd.Flags().GetStringSlice("related")
	sources, _ := cmd.Flags().GetStringSlice("source")
	force, _ := cmd.Flags().GetBool("force")
	dateArg, _ := cmd.Flags().GetString("date")

	date, err := dates.ParseDateArg(dateArg, time.Now())
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	vars := skeleton.NewVariables(title, schema.Type, date)
	vars.Description = description
	vars.Sources = sources
	for _, r := range related {
		vars.Related = append(vars.Related, paths.NormalizeRef(r))
	}

	body, err := skeleton.LoadTemplate(getRoot(), c.Templates, schema.Type)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	content, err := skeleton.Render(schema, vars, body)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	rel := skeleton.Filename(schema, vars)
	if d := documentDir(dir); d != "" {
		rel = d + "/" + rel
	}
	target := paths.Abs(getRoot(), rel)
	if err := paths.ValidateWithinRoot(getRoot(), target); err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	if _, err := os.Stat(target); err == nil && !force {
		return handleErrorMsg(ErrFileExists, fmt.Sprintf("%s already exists", rel), "overwrite with: "+shellquote.Join(newCommandLine(cmd, args)...))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if err := atomicfile.WriteFileLocked(target, []byte(content), 0o644); err != nil {
		return handleError(writeErrorCode(err), err, "")
	}
	if err := runlogFor(c).LogWrite(runlog.OpCreate, []string{rel}); err != nil {
		logger.Warn("failed to append run log", "error", err)
	}
	logger.Debug("document created", "path", rel, "type", schema.Type)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"path": rel,
			"type": schema.Type,
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("Created %s (%s)", ui.FilePath(rel), schemaLabel(schema)))
	return nil
}

// documentDir normalizes --dir into slug components so the new document
// passes the naming check.
func documentDir(dir string) string {
	d := paths.NormalizeDir(dir)
	if d == "" {
		return ""
	}
	return slugs.PathSlug(d)
}

// newCommandLine rebuilds the invocation with --force added.
func newCommandLine(cmd *cobra.Command, args []string) []string {
	line := []string{"kba", "new", args[0], args[1]}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "force" {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, v := range sv.GetSlice() {
				line = append(line, "--"+f.Name, v)
			}
			return
		}
		line = append(line, "--"+f.Name, f.Value.String())
	})
	return append(line, "--force")
}

func schemaLabel(s *doctype.TypeSchema) string {
	if s.Label != "" {
		return s.Label
	}
	return string(s.Type)
}
