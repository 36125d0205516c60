package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "blogcli",
	Short:         "blogspace CLI",
	Long:          "Command line interface for the blogspace API: account, blog and post management.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// JSONOutput is set by the persistent --json flag.
var JSONOutput bool

func init() {
	RootCmd.PersistentFlags().BoolVar(&JSONOutput, "json", false, "print raw JSON instead of tables")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
