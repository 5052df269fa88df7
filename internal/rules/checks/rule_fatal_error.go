package checks

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

const fatalErrorDisplayLimit = 1020

// fatalBucket is one root cause. A bucket matches when the fatal error
// contains any of errorTerms or the error context contains any of
// contextTerms; terms are matched case-insensitively.
type fatalBucket struct {
	name         string
	errorTerms   []string
	contextTerms []string
	notes        func(fatal, context string) []notes.Note
}

// Buckets in priority order: only the first matching one reports.
var fatalBuckets = []fatalBucket{
	{
		name:         "save-data",
		errorTerms:   []string{"psf.cpp", "invalid map<K, T>"},
		contextTerms: []string{"SaveData"},
		notes: func(string, string) []notes.Note {
			return []notes.Note{notes.New(notes.Critical, "Game save data is corrupted")}
		},
	},
	{
		name:       "opengl-context",
		errorTerms: []string{"Could not bind OpenGL context"},
		notes: func(string, string) []notes.Note {
			return []notes.Note{notes.New(notes.Critical, "GPU or installed GPU drivers do not support OpenGL 4.3")}
		},
	},
	{
		name:       "cache-file-null",
		errorTerms: []string{"file is null"},
		notes:      corruptedCacheNotes,
	},
	{
		name:       "storage-read",
		errorTerms: []string{"(e=0x17): file::read"},
		notes: func(string, string) []notes.Note {
			return []notes.Note{notes.New(notes.Critical, "Storage device communication error; check your cables")}
		},
	},
	{
		name:       "rsx-desync",
		errorTerms: []string{"Unknown primitive type"},
		notes: func(string, string) []notes.Note {
			return []notes.Note{notes.New(notes.Warning, "RSX desync detected, it's probably random")}
		},
	},
}

// Cache kinds keyed by the subsystem prefix of the error context.
var cacheKinds = []struct {
	prefix string
	note   string
}{
	{prefix: "RSX", note: "Shader cache might be corrupted; right-click on the game, then `Remove` → `Shader Cache`"},
	{prefix: "SPU", note: "SPU cache might be corrupted; right-click on the game, then `Remove` → `SPU Cache`"},
	{prefix: "PPU", note: "PPU cache might be corrupted; right-click on the game, then `Remove` → `PPU Cache`"},
}

func corruptedCacheNotes(fatal, context string) []notes.Note {
	var out []notes.Note
	for _, k := range cacheKinds {
		if hasPrefixFold(context, k.prefix) || (k.prefix == "RSX" && strings.HasPrefix(fatal, "RSX:")) {
			out = append(out, notes.Note{Severity: notes.Critical, Text: k.note})
		}
	}
	return out
}

// termIndex maps every lowercased term to the bucket that owns it.
type termIndex struct {
	matcher *ahocorasick.Matcher
	owners  []int
}

func newTermIndex(termsOf func(fatalBucket) []string) termIndex {
	var terms []string
	var owners []int
	for i, b := range fatalBuckets {
		for _, t := range termsOf(b) {
			terms = append(terms, strings.ToLower(t))
			owners = append(owners, i)
		}
	}
	return termIndex{matcher: ahocorasick.NewStringMatcher(terms), owners: owners}
}

func (x termIndex) mark(text string, hit []bool) {
	if text == "" {
		return
	}
	for _, idx := range x.matcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if idx < 0 || idx >= len(x.owners) {
			continue
		}
		hit[x.owners[idx]] = true
	}
}

var (
	fatalErrorIndex   = newTermIndex(func(b fatalBucket) []string { return b.errorTerms })
	fatalContextIndex = newTermIndex(func(b fatalBucket) []string { return b.contextTerms })
)

// classifyFatalError returns the first bucket matching the error, or -1.
func classifyFatalError(fatal, context string) int {
	hit := make([]bool, len(fatalBuckets))
	fatalErrorIndex.mark(fatal, hit)
	fatalContextIndex.mark(context, hit)
	for i, h := range hit {
		if h {
			return i
		}
	}
	return -1
}

type FatalErrorRule struct{}

func (r *FatalErrorRule) ID() string {
	return "fatal-error"
}

func (r *FatalErrorRule) Title() string {
	return "Fatal Error Root Cause"
}

func (r *FatalErrorRule) Description() string {
	return "Reports the fatal error of the run and matches it against known root causes (corrupted save data, missing OpenGL support, corrupted shader/SPU/PPU caches, storage read errors, RSX desync). Only the highest priority cause is reported."
}

func (r *FatalErrorRule) Fields() []string {
	return []string{fields.FatalError, fields.FatalErrorContext}
}

func (r *FatalErrorRule) Evaluate(p *rules.Pass) {
	fatal, ok := p.Fields.Get(fields.FatalError)
	if !ok {
		return
	}
	context := p.Fields.String(fields.FatalErrorContext)
	p.SetFatalError(strings.TrimSpace(fatal), fatalErrorDisplayLimit)

	if i := classifyFatalError(fatal, context); i >= 0 {
		for _, n := range fatalBuckets[i].notes(fatal, context) {
			p.AddNote(n)
		}
	}
}
