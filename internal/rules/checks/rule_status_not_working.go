package checks

import (
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type StatusNotWorkingRule struct{}

func (r *StatusNotWorkingRule) ID() string {
	return "status-not-working"
}

func (r *StatusNotWorkingRule) Title() string {
	return "Game Not Working"
}

func (r *StatusNotWorkingRule) Description() string {
	return "Flags games whose compatibility status is Nothing or Loadable."
}

func (r *StatusNotWorkingRule) Fields() []string {
	return nil
}

func (r *StatusNotWorkingRule) Evaluate(p *rules.Pass) {
	switch p.Status() {
	case rules.StatusNothing, rules.StatusLoadable:
		p.AddNote(notes.New(notes.Critical, "This game doesn't work on the emulator yet"))
	}
}
