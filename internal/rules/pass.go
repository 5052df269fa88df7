package rules

import (
	"strings"
	"unicode/utf8"

	"logmedic/internal/catalog"
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/update"
	"logmedic/internal/version"
)

// Pass is the state of one analysis run. It is owned by a single goroutine
// and discarded once its Report is built.
type Pass struct {
	Source string

	// Fields is what rules read. The engine may swap in a tracking view
	// around each rule.
	Fields      fields.View
	HitStats    fields.HitStats
	SizeLimited bool

	Verdict    catalog.Verdict
	Update     *update.Info
	Thresholds version.AgeThresholds

	input          fields.Map
	status         Status
	notes          []notes.Note
	fatalError     string
	unsupportedGPU bool
	skipped        map[string]string
}

func NewPass(in fields.Input) *Pass {
	return &Pass{
		Source:      in.Source,
		Fields:      fields.NewView(in.Fields),
		HitStats:    in.HitStats,
		SizeLimited: in.SizeLimited,
		Verdict:     catalog.DefaultVerdict(),
		Thresholds:  version.DefaultAgeThresholds(),
		input:       in.Fields,
		status:      ParseStatus(in.Status),
	}
}

// Input returns the unwrapped field map.
func (p *Pass) Input() fields.Map {
	return p.input
}

// FieldCount is the number of recognized fields the parser extracted.
// Unknown keys in the input do not count.
func (p *Pass) FieldCount() int {
	return p.input.Recognized()
}

func (p *Pass) AddNote(n notes.Note) {
	p.notes = append(p.notes, n)
}

// Notes returns the notes in insertion order.
func (p *Pass) Notes() []notes.Note {
	out := make([]notes.Note, len(p.notes))
	copy(out, p.notes)
	return out
}

func (p *Pass) HasNotes() bool {
	return len(p.notes) > 0
}

func (p *Pass) Status() Status {
	return p.status
}

// Downgrade moves the status to s if s is worse; it never upgrades.
func (p *Pass) Downgrade(s Status) {
	if s.Worse(p.status) {
		p.status = s
	}
}

// SetFatalError records the fatal error shown next to the notes.
func (p *Pass) SetFatalError(text string, limit int) {
	p.fatalError = Truncate(text, limit)
}

func (p *Pass) FatalError() string {
	return p.fatalError
}

// MarkUnsupportedGPU suppresses GPU-specific advice for the rest of the pass.
func (p *Pass) MarkUnsupportedGPU() {
	p.unsupportedGPU = true
}

func (p *Pass) SupportedGPU() bool {
	return !p.unsupportedGPU
}

func (p *Pass) skip(ruleID, reason string) {
	if p.skipped == nil {
		p.skipped = make(map[string]string)
	}
	p.skipped[ruleID] = reason
}

// Report freezes the pass into its rendered result.
func (p *Pass) Report(specialMarker string) Report {
	sorted := notes.Sort(p.notes)
	return Report{
		Source:          p.Source,
		Status:          p.status,
		Notes:           sorted,
		Text:            notes.Render(sorted, specialMarker),
		Catalog:         p.Verdict,
		Update:          p.Update,
		FatalError:      p.fatalError,
		MissingLicenses: MissingLicenses(fields.NewView(p.input)),
		Skipped:         p.skipped,
	}
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimRightFunc(string(r[:limit-1]), func(r rune) bool { return r == ' ' }) + "…"
}
