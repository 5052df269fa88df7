package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type UnsupportedPlatformRule struct{}

func (r *UnsupportedPlatformRule) ID() string {
	return "unsupported-platform"
}

func (r *UnsupportedPlatformRule) Title() string {
	return "Unsupported Platform"
}

func (r *UnsupportedPlatformRule) Description() string {
	return "Detects PSP, Minis and PS2 software by game category or product code and marks it as not working."
}

func (r *UnsupportedPlatformRule) Fields() []string {
	return []string{fields.GameCategory, fields.Serial}
}

func (r *UnsupportedPlatformRule) Evaluate(p *rules.Pass) {
	category := p.Fields.String(fields.GameCategory)
	serial := p.Fields.String(fields.Serial)

	switch {
	case category == "PE" || category == "PP" || (strings.HasPrefix(serial, "U") && productCodePattern.MatchString(serial)):
		p.Downgrade(rules.StatusNothing)
		p.AddNote(notes.New(notes.Critical, "PSP software is not supported"))
	case category == "MN":
		p.Downgrade(rules.StatusNothing)
		p.AddNote(notes.New(notes.Critical, "Minis are not supported"))
	}

	switch category {
	case "2G", "2P", "2D":
		p.Downgrade(rules.StatusNothing)
		p.AddNote(notes.New(notes.Critical, "PS2 software is not supported"))
	}
}
