package checks

import (
	"slices"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type BootFailuresRule struct{}

func (r *BootFailuresRule) ID() string {
	return "boot-failures"
}

func (r *BootFailuresRule) Title() string {
	return "Decrypt and Boot Failures"
}

func (r *BootFailuresRule) Description() string {
	return "Reports content that failed to decrypt, games that failed to boot and executables that failed signature verification."
}

func (r *BootFailuresRule) Fields() []string {
	return []string{fields.FailedToDecrypt, fields.FailedToBoot, fields.FailedToVerify}
}

func (r *BootFailuresRule) Evaluate(p *rules.Pass) {
	if p.Fields.Has(fields.FailedToDecrypt) {
		p.AddNote(notes.New(notes.Critical, "Failed to decrypt game content, license file might be corrupted"))
	}
	if p.Fields.Has(fields.FailedToBoot) {
		p.AddNote(notes.New(notes.Critical, "Failed to boot the game, the dump might be encrypted or corrupted"))
	}
	if slices.Contains(p.Fields.Distinct(fields.FailedToVerify), "sce") {
		p.AddNote(notes.New(notes.Critical, "Failed to decrypt executables, PPU recompiler may crash or fail"))
	}
}
