package version

import "time"

// AgeTier classifies how far a build lags behind the latest known build.
type AgeTier int

const (
	AgeCurrent AgeTier = iota
	AgeOld
	AgeVeryOld
	AgeAncient
	AgePrehistoric
)

func (t AgeTier) String() string {
	switch t {
	case AgeCurrent:
		return "current"
	case AgeOld:
		return "old"
	case AgeVeryOld:
		return "very-old"
	case AgeAncient:
		return "ancient"
	case AgePrehistoric:
		return "prehistoric"
	}
	return "unknown"
}

// AgeThresholds holds the tier boundaries. A duration must exceed a
// threshold to fall into its tier; the oldest matching tier wins.
type AgeThresholds struct {
	Prehistoric time.Duration
	Ancient     time.Duration
	VeryOld     time.Duration
	Old         time.Duration
}

// DefaultAgeThresholds returns the stock tier table.
func DefaultAgeThresholds() AgeThresholds {
	return AgeThresholds{
		Prehistoric: 365 * 24 * time.Hour,
		Ancient:     180 * 24 * time.Hour,
		VeryOld:     90 * 24 * time.Hour,
		Old:         30 * 24 * time.Hour,
	}
}

// Classify returns the highest tier whose threshold d exceeds.
func (t AgeThresholds) Classify(d time.Duration) AgeTier {
	switch {
	case d > t.Prehistoric:
		return AgePrehistoric
	case d > t.Ancient:
		return AgeAncient
	case d > t.VeryOld:
		return AgeVeryOld
	case d > t.Old:
		return AgeOld
	}
	return AgeCurrent
}

func (t AgeThresholds) IsZero() bool {
	return t == AgeThresholds{}
}
