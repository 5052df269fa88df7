// Package notes holds diagnostic notes and their display ordering.
package notes

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Severity is the display rank of a note; lower ranks are shown first.
type Severity int

const (
	Critical Severity = iota
	Warning
	Prehistoric
	Ancient
	VeryOld
	Old
	Info
	Confirmation
	Special
)

// DefaultSpecialMarker is shown in front of Special notes unless the renderer overrides it.
const DefaultSpecialMarker = "🔨"

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case Warning:
		return "warning"
	case Prehistoric:
		return "prehistoric"
	case Ancient:
		return "ancient"
	case VeryOld:
		return "very-old"
	case Old:
		return "old"
	case Info:
		return "info"
	case Confirmation:
		return "confirmation"
	case Special:
		return "special"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Prefix returns the marker rendered in front of the note text.
func (s Severity) Prefix() string {
	switch s {
	case Critical:
		return "❌"
	case Warning:
		return "⚠"
	case Prehistoric:
		return "😱"
	case Ancient:
		return "💢"
	case VeryOld:
		return "‼"
	case Old:
		return "❗"
	case Info:
		return "ℹ"
	case Confirmation:
		return "✅"
	case Special:
		return DefaultSpecialMarker
	}
	return ""
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (s *Severity) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for sev := Critical; sev <= Special; sev++ {
		if sev.String() == name {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// Note is a single diagnostic line.
type Note struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// New is shorthand for a note literal.
func New(sev Severity, format string, args ...any) Note {
	if len(args) == 0 {
		return Note{Severity: sev, Text: format}
	}
	return Note{Severity: sev, Text: fmt.Sprintf(format, args...)}
}

// Line renders the note with its severity marker.
func (n Note) Line(specialMarker string) string {
	prefix := n.Severity.Prefix()
	if n.Severity == Special && specialMarker != "" {
		prefix = specialMarker
	}
	if prefix == "" {
		return n.Text
	}
	return prefix + " " + n.Text
}

func (n Note) String() string {
	return n.Line("")
}

// MarshalJSON adds the rendered line so consumers need not know the marker table.
func (n Note) MarshalJSON() ([]byte, error) {
	type plain Note
	return json.Marshal(struct {
		plain
		Line string `json:"line"`
	}{plain: plain(n), Line: n.Line("")})
}

// Sort returns a copy of list ordered by severity; equal severities keep
// their insertion order.
func Sort(list []Note) []Note {
	out := make([]Note, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity < out[j].Severity
	})
	return out
}

// Render sorts the notes and joins them into a newline-separated block
// without trailing whitespace.
func Render(list []Note, specialMarker string) string {
	var b strings.Builder
	for _, n := range Sort(list) {
		b.WriteString(n.Line(specialMarker))
		b.WriteString("\n")
	}
	return strings.TrimRightFunc(b.String(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// CountAtOrAbove counts notes whose severity is s or more severe.
func CountAtOrAbove(list []Note, s Severity) int {
	n := 0
	for _, note := range list {
		if note.Severity <= s {
			n++
		}
	}
	return n
}
