package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

const gameModDisplayLimit = 10

type RuntimeProblemsRule struct{}

func (r *RuntimeProblemsRule) ID() string {
	return "runtime-problems"
}

func (r *RuntimeProblemsRule) Title() string {
	return "Runtime Problems"
}

func (r *RuntimeProblemsRule) Description() string {
	return "Reports pad initialisation problems, XAudio initialisation failures, missing firmware and modified game files."
}

func (r *RuntimeProblemsRule) Fields() []string {
	return []string{
		fields.NativeUIInput, fields.XAudioInitError,
		fields.FirmwareMissingMessage, fields.FirmwareMissingSomething,
		fields.GameMod,
	}
}

func (r *RuntimeProblemsRule) Evaluate(p *rules.Pass) {
	v := p.Fields
	if v.NonEmpty(fields.NativeUIInput) {
		p.AddNote(notes.New(notes.Warning, "Pad initialization problem detected; try disabling `Native UI`"))
	}
	if v.NonEmpty(fields.XAudioInitError) {
		p.AddNote(notes.New(notes.Critical, "XAudio initialization failed; make sure you have audio output device working"))
	}
	if v.NonEmpty(fields.FirmwareMissingMessage) || v.NonEmpty(fields.FirmwareMissingSomething) {
		p.AddNote(notes.New(notes.Critical, "PS3 firmware is missing or corrupted"))
	}
	if mod, ok := v.Get(fields.GameMod); ok {
		p.AddNote(notes.New(notes.Info, "Game files modification present: `%s`", rules.Truncate(mod, gameModDisplayLimit)))
	}
}
