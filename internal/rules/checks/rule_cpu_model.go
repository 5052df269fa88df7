package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

// Intel model name markers of low-end or mobile parts.
var weakIntelMarkers = []string{"Core2", "Celeron", "Atom", "Pentium"}

type CPUModelRule struct{}

func (r *CPUModelRule) ID() string {
	return "cpu-model"
}

func (r *CPUModelRule) Title() string {
	return "CPU Model"
}

func (r *CPUModelRule) Description() string {
	return "Flags CPUs that are too weak for emulation: pre-Ryzen AMD, Ryzen with fewer than twelve threads, low-end or mobile Intel parts without TSX. Also reminds Ryzen users on Windows/macOS to enable the thread scheduler."
}

func (r *CPUModelRule) Fields() []string {
	return []string{fields.CPUModel, fields.ThreadCount, fields.OSType, fields.ThreadScheduler, fields.CPUExtensions}
}

func (r *CPUModelRule) Evaluate(p *rules.Pass) {
	v := p.Fields
	cpu, ok := v.Get(fields.CPUModel)
	if !ok {
		return
	}
	threads, threadsKnown := v.Int(fields.ThreadCount)

	if strings.HasPrefix(cpu, "AMD") {
		if !strings.Contains(cpu, "Ryzen") {
			p.AddNote(notes.New(notes.Warning, "AMD CPUs before Ryzen are too weak for PS3 emulation"))
			return
		}
		if threadsKnown && threads < 12 {
			p.AddNote(notes.New(notes.Warning, "Six cores or more is recommended for Ryzen CPUs"))
		}
		if v.String(fields.OSType) != "Linux" && v.String(fields.ThreadScheduler) == fields.DisabledMark {
			p.AddNote(notes.New(notes.Warning, "Please enable `Thread scheduler` option in the CPU Settings"))
		}
		return
	}

	if strings.HasPrefix(cpu, "Intel") {
		ext, ok := v.Get(fields.CPUExtensions)
		if !ok || strings.Contains(ext, "TSX") {
			return
		}
		if isWeakIntel(cpu, threads, threadsKnown) {
			p.AddNote(notes.New(notes.Warning, "This CPU is too old and/or too weak for PS3 emulation"))
		}
	}
}

func isWeakIntel(cpu string, threads int, threadsKnown bool) bool {
	for _, m := range weakIntelMarkers {
		if strings.Contains(cpu, m) {
			return true
		}
	}
	switch {
	case strings.HasSuffix(cpu, "U"), strings.HasSuffix(cpu, "M"), strings.Contains(cpu, "Y"):
		return true
	case strings.HasSuffix(cpu, "HQ") || strings.HasSuffix(cpu, "H"):
		return threadsKnown && threads < 8
	}
	return false
}
