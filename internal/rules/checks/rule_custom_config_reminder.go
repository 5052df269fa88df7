package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type CustomConfigReminderRule struct{}

func (r *CustomConfigReminderRule) ID() string {
	return "custom-config-reminder"
}

func (r *CustomConfigReminderRule) Title() string {
	return "Custom Configuration Reminder"
}

func (r *CustomConfigReminderRule) Description() string {
	return "When the game runs with a custom configuration and anything else was reported, explains where that configuration is changed. Runs after every other note-producing rule."
}

func (r *CustomConfigReminderRule) Fields() []string {
	return []string{fields.CustomConfig, fields.WeirdSettingsNotes}
}

func (r *CustomConfigReminderRule) Evaluate(p *rules.Pass) {
	if !p.Fields.Has(fields.CustomConfig) {
		return
	}
	if p.HasNotes() || p.Fields.Has(fields.WeirdSettingsNotes) {
		p.AddNote(notes.New(notes.Warning, "To change custom configuration, **Right-click on the game**, then `Configure`"))
	}
}
