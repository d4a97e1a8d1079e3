// Package cmd implements the command-line surface of remote-archive.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i64/remote-archive/internal/conf"
	"github.com/i64/remote-archive/internal/logging"
)

// Default CLI descriptions.
const (
	shortDescription = "List the contents of a remote ZIP archive without downloading it."
	longDescription   = `remote-archive lists the entries of a ZIP (or ZIP64) archive served
over HTTP, fetching only the Central Directory and a handful of
bytes per entry via byte-range requests.`
)

var (
	flagDebug             bool
	flagLogFile           string
	flagConfigPath        string
)

// RootCmd is the base command invoked when remote-archive is run
// without a subcommand.
var RootCmd = &cobra.Command{
	Use:           "remote-archive",
	Short:         shortDescription,
	Long:          longDescription,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := conf.Default()
		if flagConfigPath != "" {
			loaded, err := conf.Load(flagConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		logging.Init(logging.Options{
			Debug:      flagDebug,
			File:       firstNonEmpty(flagLogFile, cfg.Log.File),
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		activeConfig = cfg
		return nil
	},
}

// activeConfig is populated by PersistentPreRunE and read by
// subcommands; cobra does not thread arbitrary values through
// RunE otherwise without a context.
var activeConfig conf.Config

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Execute runs the root command, exiting the process with a code
// appropriate to the failure kind. Called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "remote-archive:", err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	RootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write rotating logs to this file")
	RootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a JSON configuration file")

	RootCmd.AddCommand(ListCmd)
	RootCmd.AddCommand(VersionCmd)
}
