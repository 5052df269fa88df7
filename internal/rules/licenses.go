package rules

import (
	"fmt"
	"strings"

	"logmedic/internal/fields"
)

// MaxListedLicenses caps the missing-license list; the last slot summarises the rest.
const MaxListedLicenses = 5

// Licenses the parser reports as missing although no such content exists.
var knownBogusLicenses = []string{
	"UP0700-NPUB30932_00-NNKDLFULLGAMEPTB.rap",
	"EP0700-NPEB01158_00-NNKDLFULLGAMEPTB.rap",
}

// MissingLicenses lists the distinct license files the game asked for but
// could not find.
func MissingLicenses(v fields.View) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range v.All(fields.RapFile) {
		name := baseName(p)
		if name == "" || seen[name] || isBogusLicense(name) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) <= MaxListedLicenses {
		return names
	}
	other := len(names) - MaxListedLicenses + 1
	return append(names[:MaxListedLicenses-1], fmt.Sprintf("and %d other licenses", other))
}

func isBogusLicense(name string) bool {
	for _, b := range knownBogusLicenses {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// baseName accepts both separators; logs come from every host OS.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
