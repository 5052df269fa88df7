package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"logmedic/internal/notes"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// analysis, keep these in sync:
	// - CLI flags in internal/cli/analyze.go
	// - the TOML keys documented in Load
	Rules      Rules      `toml:"rules"`
	Catalog    Catalog    `toml:"catalog"`
	Update     Update     `toml:"update"`
	Thresholds Thresholds `toml:"thresholds"`
	Output     Output     `toml:"output"`
	Runtime    Runtime    `toml:"runtime"`
}

type Rules struct {
	// Selector selects which rules to run.
	// Empty means all rules; otherwise it is a rule selector expression (see --rules).
	Selector string `toml:"selector"`

	// Set provides per-rule option overrides.
	// Entries are of the form ruleID.option=value (repeatable; comma-separated accepted; see --set).
	Set []string `toml:"set"`
}

type Catalog struct {
	// Enabled turns the reference catalog lookup on (see --no-catalog).
	Enabled bool `toml:"enabled"`

	// Owner/Repo/Ref/Path locate the catalog documents on GitHub.
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
	Ref   string `toml:"ref"`
	Path  string `toml:"path"`

	// LocalDir reads catalog documents from disk instead of GitHub (see --catalog-dir).
	LocalDir string `toml:"local_dir"`

	// CacheDir holds the on-disk catalog cache. Empty disables it (see --cache-dir).
	CacheDir string `toml:"cache_dir"`

	// CacheTTL is how long a cached catalog entry stays valid. 0 keeps entries forever.
	CacheTTL time.Duration `toml:"cache_ttl"`

	// Timeout bounds a single catalog fetch.
	Timeout time.Duration `toml:"timeout"`
}

type Update struct {
	// Enabled turns the build staleness lookup on (see --no-update-check).
	Enabled bool `toml:"enabled"`

	// Owner/Repo is the GitHub repository whose releases define the latest build.
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
}

// Thresholds are the build age tier boundaries.
type Thresholds struct {
	Prehistoric time.Duration `toml:"prehistoric"`
	Ancient     time.Duration `toml:"ancient"`
	VeryOld     time.Duration `toml:"very_old"`
	Old         time.Duration `toml:"old"`
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string `toml:"console_format"`

	// ConsoleFilterStatus limits console output to reports with these statuses (see --console-filter-status).
	// Allowed values: Nothing, Loadable, Intro, Ingame, Playable, Unknown.
	ConsoleFilterStatus []string `toml:"console_filter_status"`

	// Report writes a Markdown summary to this path (see --report).
	Report string `toml:"report"`

	// Out writes structured output to this path (see --out).
	Out string `toml:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string `toml:"out_format"`

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string `toml:"emit"`

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool `toml:"no_console"`

	// NoColor disables ANSI colors in text console output (see --no-color).
	NoColor bool `toml:"no_color"`

	// SpecialMarker replaces the default marker of special notes (see --special-marker).
	SpecialMarker string `toml:"special_marker"`
}

type Runtime struct {
	// Concurrency controls how many inputs are analysed at once (see --concurrency).
	// Must be >= 1.
	Concurrency int `toml:"concurrency"`

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration `toml:"timeout"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

func New() *Config {
	return &Config{
		Catalog: Catalog{
			Enabled:  true,
			Owner:    "logmedic",
			Repo:     "ird-catalog",
			Ref:      "main",
			Path:     "discs",
			CacheTTL: 7 * 24 * time.Hour,
			Timeout:  30 * time.Second,
		},
		Update: Update{
			Enabled: true,
			Owner:   "RPCS3",
			Repo:    "rpcs3-binaries-win",
		},
		Thresholds: Thresholds{
			Prehistoric: 365 * 24 * time.Hour,
			Ancient:     180 * 24 * time.Hour,
			VeryOld:     90 * 24 * time.Hour,
			Old:         30 * 24 * time.Hour,
		},
		Output: Output{
			ConsoleFormat: "text",
			SpecialMarker: notes.DefaultSpecialMarker,
		},
		Runtime: Runtime{
			Concurrency: 4,
			Timeout:     5 * time.Minute,
		},
	}
}

// Load decodes a TOML file over the receiver. Keys the file does not set
// keep their current values; unknown keys are an error.
//
//	[rules]      selector, set
//	[catalog]    enabled, owner, repo, ref, path, local_dir, cache_dir, cache_ttl, timeout
//	[update]     enabled, owner, repo
//	[thresholds] prehistoric, ancient, very_old, old
//	[output]     console_format, console_filter_status, report, out, out_format, emit, no_console, no_color, special_marker
//	[runtime]    concurrency, timeout, verbose
func (c *Config) Load(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Rules.Set = splitCommaList(c.Rules.Set)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, st := range c.Output.ConsoleFilterStatus {
		canonical, ok := canonicalStatus(st)
		if !ok {
			return fmt.Errorf("unsupported --console-filter-status: %s (must be one of: %s)", st, strings.Join(statuses, ", "))
		}
		c.Output.ConsoleFilterStatus[i] = canonical
	}

	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		c.Output.Emit[i] = v
		if v == "" {
			return errors.New("--emit must be one of: json, ndjson")
		}
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", v)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	// Catalog validation
	if c.Catalog.Enabled && c.Catalog.LocalDir == "" {
		if c.Catalog.Owner == "" || c.Catalog.Repo == "" {
			return errors.New("catalog owner and repo are required unless --catalog-dir is set")
		}
	}
	if c.Catalog.CacheTTL < 0 {
		return errors.New("catalog cache_ttl must be >= 0")
	}
	if c.Catalog.Timeout <= 0 {
		return errors.New("catalog timeout must be > 0")
	}
	if c.Update.Enabled && (c.Update.Owner == "" || c.Update.Repo == "") {
		return errors.New("update owner and repo are required unless --no-update-check is set")
	}

	// Thresholds must be strictly ordered for the tiers to be reachable.
	th := c.Thresholds
	if th.Old <= 0 || th.VeryOld <= th.Old || th.Ancient <= th.VeryOld || th.Prehistoric <= th.Ancient {
		return errors.New("thresholds must satisfy 0 < old < very_old < ancient < prehistoric")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Rule option syntax validation (rule.option=value)
	if len(c.Rules.Set) > 0 {
		if _, err := ParseRuleOptionAssignments(c.Rules.Set); err != nil {
			return err
		}
	}

	return nil
}

// statuses mirrors rules.Status.
var statuses = []string{"Nothing", "Loadable", "Intro", "Ingame", "Playable", "Unknown"}

func canonicalStatus(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range statuses {
		if strings.EqualFold(raw, s) {
			return s, true
		}
	}
	return "", false
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseRuleOptionAssignments parses values of the form "ruleID.option=value".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - This validates syntax only (no validation of rule IDs or option names).
// - Empty values are allowed ("rule.option=").
// - Option names may contain dots ("allow.serials").
// - A bare entry continues the list value of the previous assignment.
func ParseRuleOptionAssignments(values []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	var lastRule, lastOpt string
	for _, raw := range splitCommaList(values) {
		left, value, ok := strings.Cut(raw, "=")
		if !ok {
			// "r.allow.serials=A,B" splits into "r.allow.serials=A" and "B".
			if lastRule == "" {
				return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
			}
			out[lastRule][lastOpt] += "," + raw
			continue
		}
		ruleID, opt, ok := strings.Cut(strings.TrimSpace(left), ".")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		ruleID = strings.TrimSpace(ruleID)
		opt = strings.TrimSpace(opt)
		if ruleID == "" || opt == "" {
			return nil, fmt.Errorf("invalid --set entry %q: expected non-empty rule and option", raw)
		}
		if _, ok := out[ruleID]; !ok {
			out[ruleID] = make(map[string]string)
		}
		out[ruleID][opt] = strings.TrimSpace(value)
		lastRule, lastOpt = ruleID, opt
	}
	return out, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
