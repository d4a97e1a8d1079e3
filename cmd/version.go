package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, overridable at build time via -ldflags.
var (
	Version   = "dev"
	BuiltAt   = "unknown"
	GitCommit = "unknown"
)

const versionTemplate = `remote-archive
  Version:    %s
  Built At:   %s
  Commit:     %s
  Go Version: %s
`

// VersionCmd prints build version information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the remote-archive version",
	Run: func(cmd *cobra.Command, args []string) {
		goVersion := fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(cmd.OutOrStdout(), versionTemplate, Version, BuiltAt, GitCommit, goVersion)
	},
}
