// Root command for the icebox CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coldchain/icebox/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagBackend   string
	flagPretty    bool
	flagVerbose   bool
)

// cfg holds the effective configuration, resolved from config.yaml and
// flags by PersistentPreRunE before any subcommand runs.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:   "icebox",
	Short: "Icebox is a persistent fridge inventory tracker",
	Long: `Icebox tracks a refrigerator's catalog and contents in a relational
storage file and serves a line-delimited JSON request protocol: requests
arrive on stdin as JSON objects terminated by a blank line, responses
leave on stdout, diagnostics on stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(flagVerbose)

		// Version needs no configuration.
		if cmd.Name() == "version" {
			return nil
		}

		loaded, err := loadConfig(flagConfigDir)
		if err != nil {
			return err
		}
		cfg = loaded

		// Flags override config.yaml.
		if cmd.Flags().Changed("backend") {
			cfg.Backend = flagBackend
		}
		if cmd.Flags().Changed("pretty") {
			cfg.Pretty = flagPretty
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", types.BackendSQLite, "storage engine (sqlite or stoolap)")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "pretty-print JSON responses")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// execute runs the root command and maps errors to exit codes. User errors
// (bad config, bad arguments) exit 1; everything else exits 2.
func execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "icebox:", err)
		if isUserError(err) {
			return exitUserError
		}
		return exitSysError
	}
	return exitSuccess
}

// isUserError reports whether the failure is the caller's to fix.
func isUserError(err error) bool {
	return errors.Is(err, types.ErrBackendEmpty) ||
		errors.Is(err, types.ErrBackendUnknown) ||
		errors.Is(err, types.ErrWarningDaysInvalid)
}

// setupLogging routes diagnostics to stderr so they never mix into the
// response stream on stdout.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
