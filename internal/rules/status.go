package rules

import "strings"

// Status is the compatibility classification of the analysed game.
type Status string

const (
	StatusNothing  Status = "Nothing"
	StatusLoadable Status = "Loadable"
	StatusIntro    Status = "Intro"
	StatusIngame   Status = "Ingame"
	StatusPlayable Status = "Playable"
	StatusUnknown  Status = "Unknown"
)

var statusOrder = []Status{StatusNothing, StatusLoadable, StatusIntro, StatusIngame, StatusPlayable, StatusUnknown}

// ParseStatus is case-insensitive; anything unrecognised is StatusUnknown.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for _, st := range statusOrder {
		if strings.EqualFold(s, string(st)) {
			return st
		}
	}
	return StatusUnknown
}

// rank orders statuses from worst to best; unclassified sorts last so that
// any classification counts as a downgrade from it.
func (s Status) rank() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return len(statusOrder)
}

// Worse reports whether s is a worse classification than other.
func (s Status) Worse(other Status) bool {
	return s.rank() < other.rank()
}
