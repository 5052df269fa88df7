package flags

// Package flags defines canonical CLI flag names shared across the CLI and its
// tests. Config file keys are documented on config.Config.Load; a flag that
// is set on the command line always wins over the file.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&opts.selector, flags.FlagRules, "", "...")
//	arg := "--" + flags.FlagRules
const (
	// Global
	FlagConfig  = "config"
	FlagVerbose = "verbose"

	// GitHub
	FlagToken = "token"

	// Rules
	FlagRules = "rules"
	FlagSet   = "set"

	// Catalog and update lookups
	FlagNoCatalog     = "no-catalog"
	FlagCatalogDir    = "catalog-dir"
	FlagCacheDir      = "cache-dir"
	FlagNoUpdateCheck = "no-update-check"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"
	FlagNoColor             = "no-color"
	FlagSpecialMarker       = "special-marker"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
)
