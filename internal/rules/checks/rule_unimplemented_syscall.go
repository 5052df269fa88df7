package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

const syscallDisplayLimit = 1022

type UnimplementedSyscallRule struct{}

func (r *UnimplementedSyscallRule) ID() string {
	return "unimplemented-syscall"
}

func (r *UnimplementedSyscallRule) Title() string {
	return "Unimplemented Syscall Desync"
}

func (r *UnimplementedSyscallRule) Description() string {
	return "When the run did not end in a fatal error but hit syscall_988, reports a PPU desync. The advice depends on whether the PPU recompiler was in use on a game that is not already playable."
}

func (r *UnimplementedSyscallRule) Fields() []string {
	return []string{fields.FatalError, fields.UnimplementedSyscall, fields.PPUDecoder}
}

func (r *UnimplementedSyscallRule) Evaluate(p *rules.Pass) {
	if p.Fields.Has(fields.FatalError) {
		return
	}
	syscall, ok := p.Fields.Get(fields.UnimplementedSyscall)
	if !ok || !strings.Contains(syscall, "syscall_988") {
		return
	}

	p.SetFatalError("Unimplemented syscall "+syscall, syscallDisplayLimit)
	decoder, ok := p.Fields.Get(fields.PPUDecoder)
	if ok && strings.Contains(decoder, "Recompiler") && p.Status() != rules.StatusPlayable {
		p.AddNote(notes.New(notes.Warning, "PPU desync detected; check your save data for corruption and/or try PPU Interpreter"))
		return
	}
	p.AddNote(notes.New(notes.Warning, "PPU desync detected, most likely cause is corrupted save data"))
}
