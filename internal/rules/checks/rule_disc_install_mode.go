package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type DiscInstallModeRule struct{}

func (r *DiscInstallModeRule) ID() string {
	return "disc-install-mode"
}

func (r *DiscInstallModeRule) Title() string {
	return "Disc Game Install Mode"
}

func (r *DiscInstallModeRule) Description() string {
	return "Detects disc games copied into game data and disc games installed from a PKG."
}

func (r *DiscInstallModeRule) Fields() []string {
	return []string{fields.GameCategory, fields.Serial, fields.LdrDisc, fields.LdrGameSerial}
}

func (r *DiscInstallModeRule) Evaluate(p *rules.Pass) {
	v := p.Fields
	category := v.String(fields.GameCategory)
	digital := hasPrefixFold(v.String(fields.Serial), "NP")

	var discInsideGame, discAsPkg bool
	// Only disc games install game data.
	if category == "DG" || category == "GD" {
		discInsideGame = v.NonEmpty(fields.LdrDisc) && !digital
		discAsPkg = digital || hasPrefixFold(v.String(fields.LdrGameSerial), "NP")
	}
	if category == "HG" && !digital {
		discAsPkg = true
	}

	if discInsideGame {
		p.AddNote(notes.New(notes.Critical, "Disc game inside `%s`", v.String(fields.LdrDisc)))
	}
	if discAsPkg {
		p.AddNote(notes.New(notes.Special, "Disc game installed as a PKG"))
	}
}
