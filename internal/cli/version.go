package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/kbaudit/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kba version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Read()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("kba %s\n", info.Version)
		fmt.Printf("module: %s\n", info.ModulePath)
		if info.Commit != "" {
			fmt.Printf("commit: %s\n", info.Commit)
		}
		if info.CommitTime != "" {
			fmt.Printf("commit_time: %s\n", info.CommitTime)
		}
		fmt.Printf("go: %s (%s)\n", info.GoVersion, info.Platform)
		if info.Modified {
			fmt.Println("modified: true")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
