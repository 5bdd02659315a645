// Command rolling-in-the-diff implements rsync-style delta transfer:
// building a signature of an old file, computing a delta against a new
// file, and patching an old file with a delta to reconstruct a new file.
package main

import (
	"github.com/spf13/cobra"

	"github.com/zshehov/rolling-in-the-diff/internal/cmdutil"
)

var rootCommand = &cobra.Command{
	Use:          "rolling-in-the-diff",
	Short:        "Compute and apply rsync-style binary deltas",
	SilenceUsage: true,
}

var rootConfiguration struct {
	// help indicates whether the help flag was set.
	help bool
	// logLevel overrides RDIFF_LOG_LEVEL when non-empty.
	logLevel string
}

func init() {
	rootCommand.AddCommand(
		signatureCommand,
		deltaCommand,
		patchCommand,
		versionCommand,
	)

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "", "override RDIFF_LOG_LEVEL (disabled|error|warn|info|debug|trace)")

	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	rootCommand.SetHelpFunc(func(command *cobra.Command, arguments []string) {
		command.Usage()
	})
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		cmdutil.Fatal(err)
	}
}
