package fields

import (
	"strconv"
	"strings"

	"logmedic/internal/version"
)

// View is a typed read-only accessor over a Reader.
//
// Every accessor reports absence instead of failing: missing telemetry
// means the dependent rule does not fire.
type View struct {
	r Reader
}

func NewView(r Reader) View {
	return View{r: r}
}

// Get returns the raw value and whether the key is present.
func (v View) Get(key string) (string, bool) {
	if v.r == nil {
		return "", false
	}
	return v.r.Get(key)
}

// Has reports whether the key is present, even with an empty value.
func (v View) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// String returns the value or "" when absent.
func (v View) String(key string) string {
	s, _ := v.Get(key)
	return s
}

// NonEmpty reports whether the key is present with a non-empty value.
func (v View) NonEmpty(key string) bool {
	return v.String(key) != ""
}

// All splits a multi-value field in order, dropping empty entries.
func (v View) All(key string) []string {
	s, ok := v.Get(key)
	if !ok || s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, Separator) {
		part = strings.TrimSuffix(part, "\r")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Distinct is All with duplicates removed, keeping first occurrences.
func (v View) Distinct(key string) []string {
	all := v.All(key)
	if len(all) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(all))
	out := all[:0]
	for _, s := range all {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// First returns the first non-empty entry of a multi-value field.
func (v View) First(key string) (string, bool) {
	all := v.All(key)
	if len(all) == 0 {
		return "", false
	}
	return all[0], true
}

// Version parses the value as a dotted version.
func (v View) Version(key string) (version.Version, bool) {
	s, ok := v.Get(key)
	if !ok {
		return version.Version{}, false
	}
	return version.Parse(s)
}

// Int parses the value as a decimal integer.
func (v View) Int(key string) (int, bool) {
	s, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
