package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/config"
	"github.com/aidanlsb/kbaudit/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default kbaudit.toml at the corpus root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.WriteDefault(getRoot())
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
			return nil
		}
		if !created {
			fmt.Println(ui.Hint(path + " already exists"))
			return nil
		}
		fmt.Println(ui.Successf("Created %s", ui.FilePath(path)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
