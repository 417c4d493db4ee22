package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the trader CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "trader version %s\n", version)
		fmt.Fprintln(out, "Trading performance analytics and forward projection")
		fmt.Fprintln(out, "https://github.com/rustyeddy/tradeperf")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
