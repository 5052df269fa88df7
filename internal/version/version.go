package version

import (
	"strconv"
	"strings"
)

const maxComponents = 4

// Version is a dotted numeric version (major.minor.build.revision).
//
// Missing trailing components compare as 0, so "2" == "2.0.0.0".
type Version struct {
	parts [maxComponents]int
	n     int
}

// New builds a version from up to four components.
func New(parts ...int) Version {
	var v Version
	for i := 0; i < len(parts) && i < maxComponents; i++ {
		v.parts[i] = parts[i]
	}
	v.n = min(len(parts), maxComponents)
	return v
}

// Parse parses a dotted version string.
// It returns false for empty input, more than four components, empty
// components, or components that are not non-negative decimal integers.
func Parse(s string) (Version, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, false
	}
	raw := strings.Split(s, ".")
	if len(raw) > maxComponents {
		return Version{}, false
	}
	var v Version
	for i, p := range raw {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return Version{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, false
		}
		v.parts[i] = n
	}
	v.n = len(raw)
	return v, true
}

// MustParse is Parse for constant tables; it panics on invalid input.
func MustParse(s string) Version {
	v, ok := Parse(s)
	if !ok {
		panic("version: invalid version " + strconv.Quote(s))
	}
	return v
}

func (v Version) Major() int    { return v.parts[0] }
func (v Version) Minor() int    { return v.parts[1] }
func (v Version) Build() int    { return v.parts[2] }
func (v Version) Revision() int { return v.parts[3] }

// IsZero reports whether v holds no components at all.
func (v Version) IsZero() bool { return v.n == 0 }

// WithRevision returns a copy of v with the fourth component replaced.
func (v Version) WithRevision(rev int) Version {
	out := v
	out.parts[3] = rev
	out.n = maxComponents
	return out
}

// Compare returns -1, 0 or +1 comparing v to o component-wise.
func (v Version) Compare(o Version) int {
	for i := 0; i < maxComponents; i++ {
		switch {
		case v.parts[i] < o.parts[i]:
			return -1
		case v.parts[i] > o.parts[i]:
			return 1
		}
	}
	return 0
}

func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// String renders only the components that were specified.
func (v Version) String() string {
	n := v.n
	if n == 0 {
		n = 1
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.Itoa(v.parts[i])
	}
	return strings.Join(parts, ".")
}
