package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zshehov/rolling-in-the-diff/internal/buildinfo"
	"github.com/zshehov/rolling-in-the-diff/internal/cmdutil"
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cmdutil.DisallowArguments,
	Run: cmdutil.Mainify(func(command *cobra.Command, arguments []string) error {
		fmt.Println(buildinfo.Version)
		return nil
	}),
}
