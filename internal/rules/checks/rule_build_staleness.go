package checks

import (
	"strings"

	"github.com/dustin/go-humanize"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
	"logmedic/internal/version"
)

// Branch that used to carry SPU performance work, long since merged.
const obsoleteBranch = "spu_perf"

var ageSeverity = map[version.AgeTier]notes.Severity{
	version.AgePrehistoric: notes.Prehistoric,
	version.AgeAncient:     notes.Ancient,
	version.AgeVeryOld:     notes.VeryOld,
	version.AgeOld:         notes.Old,
}

type BuildStalenessRule struct{}

func (r *BuildStalenessRule) ID() string {
	return "build-staleness"
}

func (r *BuildStalenessRule) Title() string {
	return "Outdated Build"
}

func (r *BuildStalenessRule) Description() string {
	return "Compares the emulator build with the latest release and asks for an update, with severity growing with the build's age. Also flags the obsolete spu_perf branch."
}

func (r *BuildStalenessRule) Fields() []string {
	return []string{fields.BuildBranch}
}

func (r *BuildStalenessRule) Evaluate(p *rules.Pass) {
	info := p.Update
	if info == nil {
		return
	}
	branch, _ := p.Fields.Get(fields.BuildBranch)
	branch = strings.ToLower(branch)
	if branch != "head" && branch != obsoleteBranch && (branch != "" || info.CurrentBuild == nil) {
		return
	}

	if delta, ok := info.Delta(); ok {
		if sev, stale := ageSeverity[p.Thresholds.Classify(delta)]; stale {
			age := humanize.RelTime(*info.CurrentBuild, *info.LatestBuild, "old", "newer")
			p.AddNote(notes.New(sev, "This RPCS3 build is %s, please consider updating it", age))
		}
	} else {
		p.AddNote(notes.New(notes.Warning, "This RPCS3 build is outdated, please consider updating it"))
	}

	if branch == obsoleteBranch {
		p.AddNote(notes.New(notes.Info, "`%s` build is obsolete, current master build offers at least the same level of performance and includes many additional improvements", branch))
	}
}
