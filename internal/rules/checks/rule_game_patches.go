package checks

import (
	"slices"
	"strconv"
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

// patchCount is how many patches applied to one executable hash.
type patchCount struct {
	hash  string
	count int
}

// patchesOf pairs a hash field with its patch-count field by position.
// Hashes without patches are dropped.
func patchesOf(v fields.View, hashKey, countKey string) []patchCount {
	hashes := v.All(hashKey)
	counts := v.All(countKey)
	var out []patchCount
	seen := make(map[string]bool)
	for i := 0; i < len(hashes) && i < len(counts); i++ {
		n, err := strconv.Atoi(strings.TrimSpace(counts[i]))
		if err != nil || n <= 0 || seen[hashes[i]] {
			continue
		}
		seen[hashes[i]] = true
		out = append(out, patchCount{hash: hashes[i], count: n})
	}
	return out
}

func joinCounts(list []patchCount) string {
	parts := make([]string, len(list))
	for i, pc := range list {
		parts[i] = strconv.Itoa(pc.count)
	}
	return strings.Join(parts, "/")
}

type GamePatchesRule struct{}

func (r *GamePatchesRule) ID() string {
	return "game-patches"
}

func (r *GamePatchesRule) Title() string {
	return "Game Patches"
}

func (r *GamePatchesRule) Description() string {
	return "Summarises applied PPU, overlay and SPU patches, recognises Persona 5 frame rate patches and reports the hash of the main executable."
}

func (r *GamePatchesRule) Fields() []string {
	return []string{
		fields.PPUHash, fields.PPUHashPatch,
		fields.OVLHash, fields.OVLHashPatch,
		fields.SPUHash, fields.SPUHashPatch,
		fields.Serial, fields.ElfBootPath,
	}
}

func (r *GamePatchesRule) Evaluate(p *rules.Pass) {
	v := p.Fields
	ppu := patchesOf(v, fields.PPUHash, fields.PPUHashPatch)
	ovl := patchesOf(v, fields.OVLHash, fields.OVLHashPatch)
	spu := patchesOf(v, fields.SPUHash, fields.SPUHashPatch)

	var summary []string
	if len(ppu) > 0 {
		summary = append(summary, "PPU: "+joinCounts(ppu))
	}
	if len(ovl) > 0 {
		summary = append(summary, "OVL: "+joinCounts(ovl))
	}
	if len(spu) > 0 {
		summary = append(summary, "SPU: "+joinCounts(spu))
	}
	if len(summary) > 0 {
		p.AddNote(notes.New(notes.Info, "Game-specific patches were applied (%s)", strings.Join(summary, ", ")))
	}

	if slices.Contains(p5Serials, v.String(fields.Serial)) {
		r.persona5(p, ppu)
	}

	if hash, ok := v.First(fields.PPUHash); ok {
		exe := fileName(v.String(fields.ElfBootPath))
		if exe == "" || strings.EqualFold(exe, "EBOOT.BIN") {
			exe = "Main"
		} else {
			exe = "`" + exe + "`"
		}
		p.AddNote(notes.New(notes.Info, "%s hash: `PPU-%s`", exe, hash))
	}
}

// TODO: derive the Persona 5 frame rate patch versions from patch metadata
// once the parser extracts patch names instead of bare counts.
func (r *GamePatchesRule) persona5(p *rules.Pass, ppu []patchCount) {
	enabled := slices.ContainsFunc(ppu, func(pc patchCount) bool {
		return pc.count > p5SixtyFPSMin || pc.count == p5SixtyFPSOld || pc.count == p5SixtyFPSOld+p5ModSupport
	})
	old := slices.ContainsFunc(ppu, func(pc patchCount) bool {
		return pc.count == p5SixtyFPSOld || pc.count == p5SixtyFPSOld+p5ModSupport
	})
	if enabled {
		p.AddNote(notes.New(notes.Info, "60 fps patch is enabled; please disable if you have any strange issues"))
	}
	if old {
		p.AddNote(notes.New(notes.Warning, "An old version of the 60 fps patch is used"))
	}
}
