package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zshehov/rolling-in-the-diff/internal/cmdutil"
	"github.com/zshehov/rolling-in-the-diff/internal/rsyncformat"
	"github.com/zshehov/rolling-in-the-diff/rsync"
)

var deltaCommand = &cobra.Command{
	Use:   "delta",
	Short: "Compute a delta between a signature and a new file",
	Args:  cmdutil.DisallowArguments,
	Run:   cmdutil.Mainify(deltaMain),
}

var deltaConfiguration struct {
	signatureFile string
	newFile       string
	deltaFile     string
}

func init() {
	flags := deltaCommand.Flags()
	flags.StringVar(&deltaConfiguration.signatureFile, "signature-file", "", "path to the signature file (required)")
	flags.StringVar(&deltaConfiguration.newFile, "new-file", "", "path to the new file (required)")
	flags.StringVar(&deltaConfiguration.deltaFile, "delta-file", "", "path to write the delta to (required)")
}

func deltaMain(command *cobra.Command, arguments []string) error {
	if deltaConfiguration.signatureFile == "" {
		return errors.New("--signature-file is required")
	}
	if deltaConfiguration.newFile == "" {
		return errors.New("--new-file is required")
	}
	if deltaConfiguration.deltaFile == "" {
		return errors.New("--delta-file is required")
	}

	logger, err := rootLogger()
	if err != nil {
		return err
	}
	log := logger.Sublogger("cli.delta")

	log.Infof("generating delta of %s against signature %s into %s",
		deltaConfiguration.newFile, deltaConfiguration.signatureFile, deltaConfiguration.deltaFile)

	sig, err := rsyncformat.LoadSignature(deltaConfiguration.signatureFile, log)
	if err != nil {
		return err
	}
	if err := sig.EnsureValid(); err != nil {
		return errors.Wrap(err, "signature failed validation")
	}

	newContent, err := os.ReadFile(deltaConfiguration.newFile)
	if err != nil {
		return errors.Wrapf(&rsyncformat.IoFailureError{Err: err}, "unable to read %s", deltaConfiguration.newFile)
	}

	delta := rsync.GenerateDelta(sig, newContent, rsync.NewRollingAdler32, rsync.NewMD5, log)

	if err := rsyncformat.SaveDelta(deltaConfiguration.deltaFile, delta, log); err != nil {
		return err
	}

	log.Infof("wrote delta with %d tokens for %s of new content", len(delta.Tokens), humanize.Bytes(uint64(len(newContent))))
	return nil
}
