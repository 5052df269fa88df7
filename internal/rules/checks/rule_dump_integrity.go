package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type DumpIntegrityRule struct{}

func (r *DumpIntegrityRule) ID() string {
	return "dump-integrity"
}

func (r *DumpIntegrityRule) Title() string {
	return "Dump Integrity"
}

func (r *DumpIntegrityRule) Description() string {
	return "Reports missing or corrupted game files found by the reference catalog check or by EDAT block errors, and confirms when the catalog check found nothing."
}

func (r *DumpIntegrityRule) Fields() []string {
	return []string{fields.EdatBlockOffset}
}

func (r *DumpIntegrityRule) Evaluate(p *rules.Pass) {
	if p.Verdict.Broken || p.Fields.NonEmpty(fields.EdatBlockOffset) {
		p.AddNote(notes.New(notes.Critical, "Some game files are missing or corrupted, please re-dump and validate."))
		return
	}
	if p.Verdict.Checked {
		p.AddNote(notes.New(notes.Confirmation, "Checked missing files against IRD"))
	}
}
