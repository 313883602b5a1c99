package cli

import (
	"github.com/spf13/cobra"

	"github.com/stackwatch-io/stackwatch/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "stackwatch",
	Short: "Watch declarative stack resources for meaningful changes",
	Long: `Stackwatch resolves the resources of a declarative stack template into
filesystem watch targets and reacts only to semantically meaningful edits.

It watches:
  • The template file itself, gated by structural change detection
  • Function code directories (zip and image package types)
  • Layer content directories
  • API definition files, gated like the template`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
