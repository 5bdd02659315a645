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

var signatureCommand = &cobra.Command{
	Use:   "signature",
	Short: "Compute the signature of an old file",
	Args:  cmdutil.DisallowArguments,
	Run:   cmdutil.Mainify(signatureMain),
}

var signatureConfiguration struct {
	oldFile       string
	signatureFile string
}

func init() {
	flags := signatureCommand.Flags()
	flags.StringVar(&signatureConfiguration.oldFile, "old-file", "", "path to the old file (required)")
	flags.StringVar(&signatureConfiguration.signatureFile, "signature-file", "", "path to write the signature to (required)")
}

func signatureMain(command *cobra.Command, arguments []string) error {
	if signatureConfiguration.oldFile == "" {
		return errors.New("--old-file is required")
	}
	if signatureConfiguration.signatureFile == "" {
		return errors.New("--signature-file is required")
	}

	logger, err := rootLogger()
	if err != nil {
		return err
	}
	log := logger.Sublogger("cli.signature")

	log.Infof("generating signature of %s into %s", signatureConfiguration.oldFile, signatureConfiguration.signatureFile)

	old, err := os.ReadFile(signatureConfiguration.oldFile)
	if err != nil {
		return errors.Wrapf(&rsyncformat.IoFailureError{Err: err}, "unable to read %s", signatureConfiguration.oldFile)
	}

	builder := rsync.NewSignatureBuilder(0)
	defer builder.Close()
	sig := builder.Build(old)

	if err := rsyncformat.SaveSignature(signatureConfiguration.signatureFile, sig, log); err != nil {
		return err
	}

	log.Infof(
		"wrote signature with %d chunks (chunk size %s) for %s of old content",
		sig.ChunkCount(), humanize.Bytes(sig.ChunkSize), humanize.Bytes(uint64(len(old))),
	)
	return nil
}
