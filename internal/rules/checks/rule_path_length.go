package checks

import (
	"unicode/utf8"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

// Paths the game was booted or installed from, in reporting order.
var pathLengthCandidates = []string{
	fields.WinPath,
	fields.LdrGameFull,
	fields.LdrDiscFull,
	fields.LdrPathFull,
	fields.LdrBootPathFull,
	fields.ElfBootPathFull,
}

type PathLengthRule struct{}

func (r *PathLengthRule) ID() string {
	return "path-length"
}

func (r *PathLengthRule) Title() string {
	return "Windows Path Length"
}

func (r *PathLengthRule) Description() string {
	return "On Windows, warns when a game path, its folder, or its folder plus the longest file of the dump exceeds the 260 character path limit. Reports at most one path."
}

func (r *PathLengthRule) Fields() []string {
	return append([]string{fields.OSType}, pathLengthCandidates...)
}

func (r *PathLengthRule) Evaluate(p *rules.Pass) {
	if p.Fields.String(fields.OSType) != "Windows" {
		return
	}
	for _, key := range pathLengthCandidates {
		path := p.Fields.String(key)
		if path == "" {
			continue
		}
		if utf8.RuneCountInString(path) > maxPath {
			p.AddNote(notes.New(notes.Warning, "Some file paths are longer than %d characters", maxPath))
			return
		}
		dirLen := utf8.RuneCountInString(dirName(path))
		if dirLen > maxFolderPath {
			p.AddNote(notes.New(notes.Warning, "Some folder paths are longer than %d characters", maxFolderPath))
			return
		}
		if dirLen+p.Verdict.LongestKnownPath > maxPath {
			p.AddNote(notes.New(notes.Warning, "Some file paths are potentially longer than %d characters", maxPath))
			return
		}
	}
}
