package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logmedic/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var (
	verbose bool

	// logLevel is shared with the logger so a config file can raise it after
	// the logger is built.
	logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "logmedic",
	Short: "Diagnose emulator logs and explain what went wrong",
	Long: `LogMedic reads the fields extracted from an RPCS3 log and reports
ranked diagnostic notes: boot failures, broken dumps, weak hardware,
outdated drivers and builds, and known game-specific problems.

LogMedic is read-only: it never changes the log, the game or the emulator.

Examples:
	# Show available commands and global flags
	logmedic --help

	# Analyse an extracted field document
	logmedic analyze RPCS3.yaml

	# List rules
	logmedic rules list

	# Print build info
	logmedic version

Output:
	By default, commands write human-readable output to stdout and logs to stderr.
	Some commands support structured output via emitter flags (see each command's --help).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		logLevel.SetLevel(zap.DebugLevel)
	}
	zc := zap.NewProductionConfig()
	zc.Level = logLevel
	zc.Encoding = "console"
	zc.EncoderConfig.TimeKey = ""
	zc.DisableStacktrace = !debug
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, flags.FlagVerbose, false, "Enable debug logging (prints every GitHub API call, catalog matches and rule diagnostics)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
