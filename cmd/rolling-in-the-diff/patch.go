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

var patchCommand = &cobra.Command{
	Use:   "patch",
	Short: "Reconstruct a new file from an old file and a delta",
	Args:  cmdutil.DisallowArguments,
	Run:   cmdutil.Mainify(patchMain),
}

var patchConfiguration struct {
	deltaFile   string
	oldFile     string
	updatedFile string
}

func init() {
	flags := patchCommand.Flags()
	flags.StringVar(&patchConfiguration.deltaFile, "delta-file", "", "path to the delta file (required)")
	flags.StringVar(&patchConfiguration.oldFile, "old-file", "", "path to the old file (required)")
	flags.StringVar(&patchConfiguration.updatedFile, "updated-file", "", "path to write the reconstructed file to (required)")
}

func patchMain(command *cobra.Command, arguments []string) error {
	if patchConfiguration.deltaFile == "" {
		return errors.New("--delta-file is required")
	}
	if patchConfiguration.oldFile == "" {
		return errors.New("--old-file is required")
	}
	if patchConfiguration.updatedFile == "" {
		return errors.New("--updated-file is required")
	}

	logger, err := rootLogger()
	if err != nil {
		return err
	}
	log := logger.Sublogger("cli.patch")

	log.Infof("reconstructing %s from %s and delta %s",
		patchConfiguration.updatedFile, patchConfiguration.oldFile, patchConfiguration.deltaFile)

	delta, err := rsyncformat.LoadDelta(patchConfiguration.deltaFile, log)
	if err != nil {
		return err
	}
	if err := delta.EnsureValid(); err != nil {
		return errors.Wrap(err, "delta failed validation")
	}

	old, err := os.ReadFile(patchConfiguration.oldFile)
	if err != nil {
		return errors.Wrapf(&rsyncformat.IoFailureError{Err: err}, "unable to read %s", patchConfiguration.oldFile)
	}

	info, err := os.Stat(patchConfiguration.oldFile)
	if err != nil {
		return errors.Wrapf(&rsyncformat.IoFailureError{Err: err}, "unable to stat %s", patchConfiguration.oldFile)
	}

	updated, err := rsync.PatchBytes(old, delta, rsync.NewMD5, rsync.FormatAdler32MD5, log)
	if err != nil {
		return err
	}

	if err := writeUpdatedFile(patchConfiguration.updatedFile, updated, info.Mode()); err != nil {
		return err
	}

	log.Infof("wrote reconstructed content (%s) to %s", humanize.Bytes(uint64(len(updated))), patchConfiguration.updatedFile)
	return nil
}

func writeUpdatedFile(path string, data []byte, permissions os.FileMode) error {
	if err := os.WriteFile(path, data, permissions); err != nil {
		return errors.Wrapf(&rsyncformat.IoFailureError{Err: err}, "unable to write %s", path)
	}
	return nil
}
