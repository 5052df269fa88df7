package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"logmedic/internal/config"
	"logmedic/internal/flags"
)

// newAnalyzeFlags mirrors the analyze flag set on a throwaway command.
func newAnalyzeFlags(t *testing.T, opts *analyzeOptions, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "analyze"}
	fs := cmd.Flags()
	fs.StringVar(&opts.configPath, flags.FlagConfig, "", "")
	fs.StringVar(&opts.selector, flags.FlagRules, "", "")
	fs.StringSliceVar(&opts.set, flags.FlagSet, nil, "")
	fs.BoolVar(&opts.noCatalog, flags.FlagNoCatalog, false, "")
	fs.StringVar(&opts.catalogDir, flags.FlagCatalogDir, "", "")
	fs.BoolVar(&opts.noUpdateCheck, flags.FlagNoUpdateCheck, false, "")
	fs.StringVar(&opts.consoleFormat, flags.FlagConsoleFormat, "text", "")
	fs.StringSliceVar(&opts.emit, flags.FlagEmit, nil, "")
	fs.IntVar(&opts.concurrency, flags.FlagConcurrency, 4, "")
	fs.DurationVar(&opts.timeout, flags.FlagTimeout, 5*time.Minute, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestBuildConfig_FlagsOverrideDefaults(t *testing.T) {
	var opts analyzeOptions
	cmd := newAnalyzeFlags(t, &opts,
		"--rules", "-known-game-hints",
		"--set", "cpu-threads.min_threads=6",
		"--no-catalog",
		"--emit", "ndjson",
		"--concurrency", "8",
	)

	cfg, err := buildConfig(cmd, &opts)
	if err != nil {
		t.Fatalf("buildConfig error: %v", err)
	}
	if cfg.Rules.Selector != "-known-game-hints" {
		t.Fatalf("Selector = %q", cfg.Rules.Selector)
	}
	if !reflect.DeepEqual(cfg.Rules.Set, []string{"cpu-threads.min_threads=6"}) {
		t.Fatalf("Set = %v", cfg.Rules.Set)
	}
	if cfg.Catalog.Enabled {
		t.Fatal("expected --no-catalog to disable the catalog")
	}
	if !cfg.Update.Enabled {
		t.Fatal("update check must stay enabled when --no-update-check is absent")
	}
	if !reflect.DeepEqual(cfg.Output.Emit, []string{"ndjson"}) || cfg.Runtime.Concurrency != 8 {
		t.Fatalf("unexpected output/runtime: %+v %+v", cfg.Output, cfg.Runtime)
	}
	if cfg.Runtime.Timeout != config.New().Runtime.Timeout {
		t.Fatalf("unset flag changed timeout: %s", cfg.Runtime.Timeout)
	}
}

func TestBuildConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logmedic.toml")
	doc := `
[rules]
set = ["audio-backend.threshold=50"]

[update]
enabled = false

[output]
console_format = "json"

[runtime]
concurrency = 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var opts analyzeOptions
	cmd := newAnalyzeFlags(t, &opts,
		"--config", path,
		"--set", "cpu-threads.min_threads=6",
		"--concurrency", "16",
	)
	cfg, err := buildConfig(cmd, &opts)
	if err != nil {
		t.Fatalf("buildConfig error: %v", err)
	}

	// The file applies where no flag was given.
	if cfg.Update.Enabled || cfg.Output.ConsoleFormat != "json" {
		t.Fatalf("file settings lost: update=%v console=%q", cfg.Update.Enabled, cfg.Output.ConsoleFormat)
	}
	// Flags win; --set adds to the file's assignments.
	if cfg.Runtime.Concurrency != 16 {
		t.Fatalf("Concurrency = %d, want 16", cfg.Runtime.Concurrency)
	}
	want := []string{"audio-backend.threshold=50", "cpu-threads.min_threads=6"}
	if !reflect.DeepEqual(cfg.Rules.Set, want) {
		t.Fatalf("Set = %v, want %v", cfg.Rules.Set, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNeedsGitHub(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{name: "defaults", mutate: func(*config.Config) {}, want: true},
		{name: "both disabled", mutate: func(c *config.Config) { c.Catalog.Enabled = false; c.Update.Enabled = false }, want: false},
		{name: "local catalog only", mutate: func(c *config.Config) { c.Catalog.LocalDir = "catalog"; c.Update.Enabled = false }, want: false},
		{name: "update only", mutate: func(c *config.Config) { c.Catalog.Enabled = false }, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			if got := needsGitHub(cfg); got != tt.want {
				t.Fatalf("needsGitHub = %v, want %v", got, tt.want)
			}
		})
	}
}
