// Package catalog cross-references the files a log reports as missing
// against the reference file list of the disc image the log was taken from.
package catalog

import (
	"context"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"logmedic/internal/fields"
)

// DefaultLongestPath estimates the longest path inside an unknown dump:
// "/PS3_GAME/USRDIR/" plus two more 8.3 levels.
const DefaultLongestPath = len("/PS3_GAME/USRDIR/") + (1+8+3)*2

// Product codes of disc releases start with one of these.
var recognizedPrefixes = []string{"B", "M"}

// Entry is one disc descriptor of a product.
type Entry interface {
	Filenames() []string
}

// Client resolves a product code to its catalog entries. An unknown product
// yields an empty slice and no error.
type Client interface {
	Fetch(ctx context.Context, productCode, cacheDir string) ([]Entry, error)
}

// Verdict is the outcome of a broken-file check.
type Verdict struct {
	Checked          bool `json:"checked"`
	Broken           bool `json:"broken"`
	LongestKnownPath int  `json:"longest_known_path"`
}

// DefaultVerdict is what an unchecked dump looks like.
func DefaultVerdict() Verdict {
	return Verdict{LongestKnownPath: DefaultLongestPath}
}

type Checker struct {
	Client   Client
	CacheDir string
	// Timeout bounds the wait for Client; zero waits as long as ctx allows.
	Timeout time.Duration
	Logger  *zap.Logger
}

func (c *Checker) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// HasRecognizedPrefix reports whether a product code belongs to a disc release.
func HasRecognizedPrefix(productCode string) bool {
	for _, p := range recognizedPrefixes {
		if strings.HasPrefix(productCode, p) {
			return true
		}
	}
	return false
}

// Check never fails: a missing serial, an unknown product or a failed fetch
// all degrade to DefaultVerdict.
func (c *Checker) Check(ctx context.Context, v fields.View) Verdict {
	code, ok := v.Get(fields.Serial)
	if !ok || !HasRecognizedPrefix(code) || c == nil || c.Client == nil {
		return DefaultVerdict()
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	entries, err := c.Client.Fetch(ctx, code, c.CacheDir)
	if err != nil {
		c.logger().Warn("failed to get catalog files", zap.String("product_code", code), zap.Error(err))
		return DefaultVerdict()
	}

	known := newFoldSet()
	longest := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, name := range e.Filenames() {
			if name == "" {
				continue
			}
			known.add(name)
			longest = max(longest, utf8.RuneCountInString(strings.TrimRight(name, `./\`)))
		}
	}
	if known.len() == 0 {
		return DefaultVerdict()
	}

	verdict := Verdict{Checked: true, LongestKnownPath: longest}
	missingFiles := v.Distinct(fields.BrokenFilename)
	missingDirs := v.Distinct(fields.BrokenDirectory)
	if len(missingFiles) == 0 && len(missingDirs) == 0 {
		return verdict
	}

	var broken []string
	for _, f := range missingFiles {
		if known.has(f) {
			broken = append(broken, f)
		}
	}
	if len(broken) > 0 {
		for _, f := range broken {
			c.logger().Debug("broken file according to catalog", zap.String("product_code", code), zap.String("file", f))
		}
		verdict.Broken = true
		return verdict
	}

	knownDirs := newFoldSet()
	for _, name := range known.values() {
		knownDirs.add(parentDir(name))
	}
	for _, d := range missingDirs {
		if knownDirs.has(normalizeDir(d)) {
			broken = append(broken, d)
		}
	}
	if len(broken) > 0 {
		for _, d := range broken {
			c.logger().Debug("broken directory according to catalog", zap.String("product_code", code), zap.String("directory", d))
		}
		verdict.Broken = true
	}
	return verdict
}

func parentDir(name string) string {
	dir := path.Dir(strings.ReplaceAll(name, `\`, "/"))
	if dir == "." {
		return "/"
	}
	return dir
}

func normalizeDir(dir string) string {
	dir = strings.ReplaceAll(dir, `\`, "/")
	if trimmed := strings.TrimRight(dir, "/"); trimmed != "" {
		return trimmed
	}
	return dir
}

// foldSet is a case-insensitive string set that remembers the first
// spelling of each member. Keys are NFC-normalized before folding, so
// composed and decomposed spellings of a name match.
type foldSet struct {
	caser cases.Caser
	items map[string]string
}

func newFoldSet() *foldSet {
	return &foldSet{caser: cases.Fold(), items: make(map[string]string)}
}

func (s *foldSet) key(v string) string {
	return s.caser.String(norm.NFC.String(v))
}

func (s *foldSet) add(v string) {
	k := s.key(v)
	if _, ok := s.items[k]; !ok {
		s.items[k] = v
	}
}

func (s *foldSet) has(v string) bool {
	_, ok := s.items[s.key(v)]
	return ok
}

func (s *foldSet) len() int { return len(s.items) }

func (s *foldSet) values() []string {
	out := make([]string, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v)
	}
	return out
}
