package checks

import (
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type BootPlacementRule struct{}

func (r *BootPlacementRule) ID() string {
	return "boot-placement"
}

func (r *BootPlacementRule) Title() string {
	return "Game Boot Location"
}

func (r *BootPlacementRule) Description() string {
	return "Checks that digital games boot from /dev_hdd0/game/, that disc games do not, and that retail games are not booted through /root_host/ or a bare ELF."
}

func (r *BootPlacementRule) Fields() []string {
	return []string{
		fields.Serial,
		fields.ElfBootPath,
		fields.HostRootInBoot,
		fields.LdrGame, fields.LdrPath, fields.LdrBootPath,
		fields.LdrGameSerial, fields.LdrPathSerial, fields.LdrBootPathSerial, fields.ElfBootPathSerial,
		fields.LdrDisc, fields.LdrDiscSerial,
	}
}

// firstPresent returns the value of the first key present at all.
func firstPresent(v fields.View, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := v.Get(k); ok {
			return s, true
		}
	}
	return "", false
}

func (r *BootPlacementRule) Evaluate(p *rules.Pass) {
	v := p.Fields
	serial := v.String(fields.Serial)
	elfBootPath := v.String(fields.ElfBootPath)
	isEboot := elfBootPath != "" && strings.HasSuffix(strings.ToUpper(elfBootPath), "EBOOT.BIN")
	isElf := elfBootPath != "" && !isEboot

	if v.NonEmpty(fields.HostRootInBoot) && isEboot {
		p.AddNote(notes.New(notes.Critical, "Retail game booted as an ELF through the `/root_host/`, probably due to passing path as an argument; please boot through the game library list for now"))
	}

	path, _ := firstPresent(v, fields.LdrGame, fields.LdrPath, fields.LdrBootPath, fields.ElfBootPath)
	if path != "" && strings.HasPrefix(serial, "NP") && !observedAt(v, serial,
		fields.LdrGameSerial, fields.LdrPathSerial, fields.LdrBootPathSerial, fields.ElfBootPathSerial) {
		p.AddNote(notes.New(notes.Critical, "Digital version of the game outside of `/dev_hdd0/game/` directory"))
	}

	// LDR: Path before the settings block is unreliable: games also boot
	// through installed patches or game data.
	if v.NonEmpty(fields.LdrDisc) && strings.HasPrefix(serial, "BL") && v.NonEmpty(fields.LdrDiscSerial) {
		p.AddNote(notes.New(notes.Critical, "Disc version of the game inside the `/dev_hdd0/game/` directory"))
	}

	if serial != "" && isElf {
		p.AddNote(notes.New(notes.Warning, "Retail game booted directly through `%s`, which is not recommended", fileName(elfBootPath)))
	}
}

// observedAt reports whether any of the mount-point serial fields equals serial.
func observedAt(v fields.View, serial string, keys ...string) bool {
	for _, k := range keys {
		if s, ok := v.Get(k); ok && s == serial {
			return true
		}
	}
	return false
}
