package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type PadBindingRule struct{}

func (r *PadBindingRule) ID() string {
	return "pad-binding"
}

func (r *PadBindingRule) Title() string {
	return "Pad Binding"
}

func (r *PadBindingRule) Description() string {
	return "Reports input devices that failed to bind."
}

func (r *PadBindingRule) Fields() []string {
	return []string{fields.FailedPad}
}

func (r *PadBindingRule) Evaluate(p *rules.Pass) {
	pad, ok := p.Fields.Get(fields.FailedPad)
	if !ok {
		return
	}
	// Backticks would close the inline code span; the modifier grave looks the same.
	pad = strings.ReplaceAll(pad, "`", "ˋ")
	p.AddNote(notes.New(notes.Critical, "Binding `%s` failed, check if device is connected.", pad))
}
