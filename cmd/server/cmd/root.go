package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stucruum",
	Short: "STUCRUUM sign-up server",
	Long: `stucruum serves the STUCRUUM sign-up page: the account form, which is
forwarded to the sign-up API, and the rotating photo carousel.

Use "stucruum [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
