package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logmedic/internal/config"
	"logmedic/internal/engine"
	"logmedic/internal/flags"
	gh "logmedic/internal/github"
)

// analyzeOptions holds raw flag values. They are copied onto the config only
// when set on the command line, so a --config file is not clobbered by flag
// defaults.
type analyzeOptions struct {
	configPath string
	token      string

	selector string
	set      []string

	noCatalog     bool
	catalogDir    string
	cacheDir      string
	noUpdateCheck bool

	consoleFormat       string
	consoleFilterStatus []string
	report              string
	out                 string
	outFormat           string
	emit                []string
	noConsole           bool
	noColor             bool
	specialMarker       string

	concurrency int
	timeout     time.Duration
}

var analyzeOpts analyzeOptions

const analyzeHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
  LogMedic reads the reference disc catalog and the latest emulator release
  from GitHub. Both work without a token under a lower rate limit.

  Token sources (in order):
  1) --token
  2) LOGMEDIC_GITHUB_TOKEN environment variable
  3) GITHUB_TOKEN environment variable
  4) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    logmedic analyze RPCS3.yaml

    # Offline: local catalog, no release lookup
    logmedic analyze --catalog-dir ./catalog --no-update-check RPCS3.yaml
`

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyse extracted log field documents",
	Long: `Analyse one or more field documents extracted from RPCS3 logs and
report ranked diagnostic notes for each.

A field document is YAML or JSON:

  status: Playable            # known compatibility status (optional)
  size_limit: false           # the parser stopped early
  fields:
    serial: BLUS30443
    broken_filename: [PS3_GAME/USRDIR/a.sdat, PS3_GAME/USRDIR/b.sdat]
  hit_stats:
    enqueue_buffer_error: 150

Use "-" to read a document from standard input.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown summary
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, input.report, run.finished).

Exit codes:
	0 = every input analysed, no critical notes
	1 = critical notes reported
	2 = partial failure (some inputs could not be loaded)
	3 = fatal error (analysis did not run)

Examples:
  logmedic analyze RPCS3.yaml
  logmedic analyze --rules -known-game-hints --set cpu-threads.min_threads=6 *.yaml
  cat RPCS3.json | logmedic analyze --no-console --emit ndjson -
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		code := runAnalyze(cmd, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		_ = logger.Sync()
		os.Exit(code)
	},
}

// buildConfig layers defaults, the optional config file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command, opts *analyzeOptions) (*config.Config, error) {
	cfg := config.New()
	if opts.configPath != "" {
		if err := cfg.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	fs := cmd.Flags()
	changed := fs.Changed
	if changed(flags.FlagRules) {
		cfg.Rules.Selector = opts.selector
	}
	if changed(flags.FlagSet) {
		cfg.Rules.Set = append(cfg.Rules.Set, opts.set...)
	}
	if changed(flags.FlagNoCatalog) {
		cfg.Catalog.Enabled = !opts.noCatalog
	}
	if changed(flags.FlagCatalogDir) {
		cfg.Catalog.LocalDir = opts.catalogDir
	}
	if changed(flags.FlagCacheDir) {
		cfg.Catalog.CacheDir = opts.cacheDir
	}
	if changed(flags.FlagNoUpdateCheck) {
		cfg.Update.Enabled = !opts.noUpdateCheck
	}
	if changed(flags.FlagConsoleFormat) {
		cfg.Output.ConsoleFormat = opts.consoleFormat
	}
	if changed(flags.FlagConsoleFilterStatus) {
		cfg.Output.ConsoleFilterStatus = opts.consoleFilterStatus
	}
	if changed(flags.FlagReport) {
		cfg.Output.Report = opts.report
	}
	if changed(flags.FlagOut) {
		cfg.Output.Out = opts.out
	}
	if changed(flags.FlagOutFormat) {
		cfg.Output.OutFormat = opts.outFormat
	}
	if changed(flags.FlagEmit) {
		cfg.Output.Emit = opts.emit
	}
	if changed(flags.FlagNoConsole) {
		cfg.Output.NoConsole = opts.noConsole
	}
	if changed(flags.FlagNoColor) {
		cfg.Output.NoColor = opts.noColor
	}
	if changed(flags.FlagSpecialMarker) {
		cfg.Output.SpecialMarker = opts.specialMarker
	}
	if changed(flags.FlagConcurrency) {
		cfg.Runtime.Concurrency = opts.concurrency
	}
	if changed(flags.FlagTimeout) {
		cfg.Runtime.Timeout = opts.timeout
	}
	if verbose {
		cfg.Runtime.Verbose = true
	}
	return cfg, nil
}

// needsGitHub reports whether any enabled lookup talks to GitHub.
func needsGitHub(cfg *config.Config) bool {
	return (cfg.Catalog.Enabled && cfg.Catalog.LocalDir == "") || cfg.Update.Enabled
}

func runAnalyze(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cfg, err := buildConfig(cmd, &analyzeOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}
	if cfg.Runtime.Verbose {
		logLevel.SetLevel(zap.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var client *gh.Client
	if needsGitHub(cfg) {
		token, source, err := gh.ResolveAuthToken(ctx, analyzeOpts.token)
		if err != nil {
			logger.Warn("failed to resolve GitHub auth token; continuing unauthenticated", zap.Error(err))
		} else if token == "" {
			logger.Debug("no GitHub auth token found; using unauthenticated requests")
		} else {
			logger.Debug("using GitHub auth token", zap.String("source", string(source)))
		}

		client, err = gh.NewClient(ctx, token,
			gh.WithLogger(logger),
			gh.WithTimeout(cfg.Catalog.Timeout),
		)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create GitHub client: %v\n", err)
			return 3
		}
	}

	eng := engine.NewEngine(cfg, client, logger)
	eng.Stdin = cmd.InOrStdin()
	eng.Stdout = stdout
	eng.Stderr = stderr
	return eng.Run(ctx, cfg, args)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.SetHelpTemplate(analyzeHelpTemplate)

	// MAINTAINER NOTE: every flag here must be copied onto the config in
	// buildConfig, and have a matching key in config.Config.
	defaults := config.New()
	fs := analyzeCmd.Flags()
	o := &analyzeOpts

	fs.StringVar(&o.configPath, flags.FlagConfig, "", "Read settings from a TOML file; flags set on the command line win")
	fs.StringVar(&o.token, flags.FlagToken, "", "GitHub access token (default: LOGMEDIC_GITHUB_TOKEN, GITHUB_TOKEN, then gh auth token)")

	// Rules
	fs.StringVar(&o.selector, flags.FlagRules, "", "Rule selector: comma-separated rule IDs; prefix with - to exclude (empty = all rules)")
	fs.StringSliceVar(&o.set, flags.FlagSet, nil, "Per-rule options as ruleID.option=value (repeatable; comma-separated accepted)")

	// Catalog and update lookups
	fs.BoolVar(&o.noCatalog, flags.FlagNoCatalog, false, "Skip the reference catalog check for missing or broken files")
	fs.StringVar(&o.catalogDir, flags.FlagCatalogDir, "", "Read catalog documents from this directory instead of GitHub")
	fs.StringVar(&o.cacheDir, flags.FlagCacheDir, "", "Cache fetched catalog documents in this directory")
	fs.BoolVar(&o.noUpdateCheck, flags.FlagNoUpdateCheck, false, "Skip the latest-build lookup")

	// Output
	fs.StringVar(&o.consoleFormat, flags.FlagConsoleFormat, defaults.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	fs.StringSliceVar(&o.consoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Only print reports with these statuses (Nothing, Loadable, Intro, Ingame, Playable, Unknown). Comma-separated.")
	fs.StringVar(&o.report, flags.FlagReport, "", "Write a Markdown report to this path")
	fs.StringVar(&o.out, flags.FlagOut, "", "Write structured output to this path")
	fs.StringVar(&o.outFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	fs.StringSliceVar(&o.emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	fs.BoolVar(&o.noConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")
	fs.BoolVar(&o.noColor, flags.FlagNoColor, false, "Disable colors in text console output")
	fs.StringVar(&o.specialMarker, flags.FlagSpecialMarker, defaults.Output.SpecialMarker, "Marker printed in front of special notes")

	// Runtime
	fs.IntVar(&o.concurrency, flags.FlagConcurrency, defaults.Runtime.Concurrency, "Inputs analysed concurrently")
	fs.DurationVar(&o.timeout, flags.FlagTimeout, defaults.Runtime.Timeout, "Global timeout")
}
