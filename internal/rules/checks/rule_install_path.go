package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type InstallPathRule struct{}

func (r *InstallPathRule) ID() string {
	return "install-path"
}

func (r *InstallPathRule) Title() string {
	return "Emulator Install Location"
}

func (r *InstallPathRule) Description() string {
	return "Warns when the emulator is installed without its own folder (drive root, desktop, Program Files) or inside Program Files."
}

func (r *InstallPathRule) Fields() []string {
	return []string{fields.CompatDatabase}
}

func (r *InstallPathRule) Evaluate(p *rules.Pass) {
	raw, ok := p.Fields.Get(fields.CompatDatabase)
	if !ok {
		return
	}
	normalized := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, `\`, "/"), "//", "/"))
	m := installPathPattern.FindStringSubmatch(normalized)
	if m == nil {
		return
	}
	group := func(name string) string {
		return m[installPathPattern.SubexpIndex(name)]
	}
	folderMissing := group("rpcs3_folder") == ""
	desktop := group("desktop") != ""
	programFiles := group("program_files") != ""

	if folderMissing {
		switch {
		case desktop:
			p.AddNote(notes.New(notes.Info, "RPCS3 installed directly on desktop, without folder"))
		case programFiles:
			p.AddNote(notes.New(notes.Warning, "RPCS3 installed directly inside Program Files, without folder"))
		default:
			p.AddNote(notes.New(notes.Warning, "RPCS3 installed in the drive root, please create a folder and move all files inside"))
		}
	}
	if programFiles {
		p.AddNote(notes.New(notes.Warning, "Program Files have special permissions, please move RPCS3 to another location"))
	}
}
