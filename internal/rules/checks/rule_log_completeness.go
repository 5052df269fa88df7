package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type LogCompletenessRule struct{}

func (r *LogCompletenessRule) ID() string {
	return "log-completeness"
}

func (r *LogCompletenessRule) Title() string {
	return "Log Completeness"
}

func (r *LogCompletenessRule) Description() string {
	return "Detects logs copied from the UI, logs without a game run and logs that only contain a firmware installation."
}

func (r *LogCompletenessRule) Fields() []string {
	return []string{
		fields.LogFromUI, fields.PPUDecoder, fields.Renderer,
		fields.Serial, fields.GameTitle,
		fields.FirmwareInstalledMessage, fields.FirmwareVersionInstalled,
	}
}

func (r *LogCompletenessRule) Evaluate(p *rules.Pass) {
	if p.FieldCount() == 0 {
		return
	}
	v := p.Fields
	switch {
	case v.Has(fields.LogFromUI):
		p.AddNote(notes.New(notes.Info, "The log is a copy from UI, please upload the full file created by RPCS3"))
	case !v.NonEmpty(fields.PPUDecoder) || !v.NonEmpty(fields.Renderer):
		p.AddNote(notes.New(notes.Info, "The log is empty"))
		p.AddNote(notes.New(notes.Info, "Please boot the game and upload a new log"))
	case v.String(fields.Serial)+v.String(fields.GameTitle) == "" && v.NonEmpty(fields.FirmwareInstalledMessage):
		fw, ok := v.Get(fields.FirmwareVersionInstalled)
		if !ok {
			return
		}
		p.AddNote(notes.New(notes.Info, "The log contains only installation of firmware %s", fw))
		p.AddNote(notes.New(notes.Info, "Please boot the game and upload a new log"))
	}
}
