// Package cmdutil holds the small pieces of CLI glue shared by the
// signature, delta, and patch subcommands of cmd/rolling-in-the-diff: an
// adapter from an error-returning entry point to Cobra's Run signature, a
// positional-argument guard (none of the three subcommands take any; their
// inputs and outputs are all named flags), and failure reporting that goes
// through the repository's own leveled logger rather than writing straight
// to stderr.
package cmdutil

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/zshehov/rolling-in-the-diff/internal/logging"
)

// Mainify adapts an error-returning subcommand entry point to Cobra's Run
// signature. signatureMain, deltaMain, and patchMain all return an error
// instead of calling os.Exit themselves, so that defer-based cleanup - the
// SignatureBuilder's worker pool, an open file handle - still runs before
// the process terminates with a non-zero exit status.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}

// Warning reports a non-fatal condition (through the root logger, at
// LevelWarn) to whatever is invoking the CLI outside of a subcommand's own
// sublogger - currently unused by signature/delta/patch themselves, which
// log warnings through their own Sublogger, but kept for flag-parsing-time
// conditions that run before a subcommand has a logger of its own.
func Warning(message string) {
	logging.RootLogger.Warn(message)
}

// Error reports a failed command through the root logger at LevelError.
func Error(err error) {
	logging.RootLogger.Error(err)
}

// Fatal reports err through the root logger and terminates the process
// with a non-zero exit code. This is how Mainify surfaces a failed
// signature/delta/patch invocation: one leveled, optionally colorized log
// line instead of Cobra's default "Error: ..." dump straight to stderr.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}

// DisallowArguments is a Cobra arguments validator that rejects positional
// arguments. signature, delta, and patch all take their file paths via
// flags, so a positional argument is almost always a typo'd flag rather
// than something intentional; it's used in place of cobra.NoArgs, which
// reports stray arguments as an unrecognized command name rather than as an
// error about arguments.
func DisallowArguments(_ *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New("command does not accept arguments")
	}
	return nil
}
