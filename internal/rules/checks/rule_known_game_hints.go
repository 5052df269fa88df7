package checks

import (
	"slices"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type KnownGameHintsRule struct{}

func (r *KnownGameHintsRule) ID() string {
	return "known-game-hints"
}

func (r *KnownGameHintsRule) Title() string {
	return "Known Game Hints"
}

func (r *KnownGameHintsRule) Description() string {
	return "Adds workarounds for known problems of specific games."
}

func (r *KnownGameHintsRule) Fields() []string {
	return []string{fields.Serial}
}

func (r *KnownGameHintsRule) Evaluate(p *rules.Pass) {
	if slices.Contains(demonsSoulsSerials, p.Fields.String(fields.Serial)) {
		p.AddNote(notes.New(notes.Info, "If you experience infinite load screen, clear game cache via `File` → `All games` → `Remove Disk Cache`"))
	}
}
