package rules

import (
	"path"
	"strings"
)

// AllowList silences a rule for particular product codes, either listed
// exactly or matched by a glob pattern. Matching is case-insensitive.
type AllowList struct {
	Serials  map[string]bool
	Patterns []string
}

func (a *AllowList) Options() []Option {
	return []Option{
		{
			Name:        "allow.serials",
			Description: "Comma-separated list of product codes the rule is skipped for (e.g. BLUS30443).",
		},
		{
			Name:        "allow.patterns",
			Description: "Comma-separated list of wildcard patterns for skipped product codes (e.g. NP??3*).",
		},
	}
}

func (a *AllowList) Configure(opts map[string]string) {
	a.Serials = make(map[string]bool)
	a.Patterns = nil

	for _, s := range splitList(opts["allow.serials"]) {
		a.Serials[strings.ToUpper(s)] = true
	}
	for _, s := range splitList(opts["allow.patterns"]) {
		a.Patterns = append(a.Patterns, strings.ToUpper(s))
	}
}

// IsAllowed reports whether serial is allow-listed and by which option.
func (a *AllowList) IsAllowed(serial string) (bool, string) {
	serial = strings.ToUpper(strings.TrimSpace(serial))
	if serial == "" {
		return false, ""
	}
	if a.Serials[serial] {
		return true, "allow.serials"
	}
	for _, pattern := range a.Patterns {
		if matched, _ := path.Match(pattern, serial); matched {
			return true, "allow.patterns"
		}
	}
	return false, ""
}

func splitList(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
