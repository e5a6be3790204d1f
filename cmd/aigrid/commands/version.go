package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit and build date of aigrid.`,
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		_, err := fmt.Fprint(c.OutOrStdout(), cmd.Info())
		return err
	},
}
