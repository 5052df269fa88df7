package checks

import (
	"testing"
	"time"

	"logmedic/internal/fields"
	"logmedic/internal/rules"
	"logmedic/internal/update"
)

func TestGamePatchesRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &GamePatchesRule{} }
	runRuleCases(t, newRule, []ruleCase{
		{name: "no patches", fields: fields.Map{}, want: nil},
		{
			name:   "hash without patches",
			fields: fields.Map{fields.PPUHash: "0123abcd", fields.PPUHashPatch: "0"},
			want:   []string{"ℹ Main hash: `PPU-0123abcd`"},
		},
		{
			name: "summary across kinds",
			fields: fields.Map{
				fields.PPUHash:      "aaa\nbbb",
				fields.PPUHashPatch: "3\n5",
				fields.SPUHash:      "ccc",
				fields.SPUHashPatch: "1",
				fields.ElfBootPath:  "/dev_hdd0/game/NPUB30910/USRDIR/EBOOT.BIN",
			},
			want: []string{
				"ℹ Game-specific patches were applied (PPU: 3/5, SPU: 1)",
				"ℹ Main hash: `PPU-aaa`",
			},
		},
		{
			name: "hashes paired up to the shorter list",
			fields: fields.Map{
				fields.OVLHash:      "o1\no2\no3",
				fields.OVLHashPatch: "2",
			},
			want: []string{"ℹ Game-specific patches were applied (OVL: 2)"},
		},
		{
			name: "non-eboot executable named",
			fields: fields.Map{
				fields.PPUHash:     "fff",
				fields.ElfBootPath: "/games/BLUS30443/USRDIR/game.self",
			},
			want: []string{"ℹ `game.self` hash: `PPU-fff`"},
		},
		{
			name: "persona 5 old 60 fps patch with mod support",
			fields: fields.Map{
				fields.Serial:       "BLUS31604",
				fields.PPUHash:      "p5",
				fields.PPUHashPatch: "39",
			},
			want: []string{
				"ℹ Game-specific patches were applied (PPU: 39)",
				"ℹ 60 fps patch is enabled; please disable if you have any strange issues",
				"⚠ An old version of the 60 fps patch is used",
				"ℹ Main hash: `PPU-p5`",
			},
		},
		{
			name: "persona 5 current 60 fps patch",
			fields: fields.Map{
				fields.Serial:       "NPEB02436",
				fields.PPUHash:      "p5",
				fields.PPUHashPatch: "300",
			},
			want: []string{
				"ℹ Game-specific patches were applied (PPU: 300)",
				"ℹ 60 fps patch is enabled; please disable if you have any strange issues",
				"ℹ Main hash: `PPU-p5`",
			},
		},
		{
			name: "persona 5 mod support only",
			fields: fields.Map{
				fields.Serial:       "BLES02247",
				fields.PPUHash:      "p5",
				fields.PPUHashPatch: "27",
			},
			want: []string{
				"ℹ Game-specific patches were applied (PPU: 27)",
				"ℹ Main hash: `PPU-p5`",
			},
		},
	})
}

func TestDiscInstallModeRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &DiscInstallModeRule{} }
	runRuleCases(t, newRule, []ruleCase{
		{name: "nothing", fields: fields.Map{}, want: nil},
		{
			name:   "disc game copied into game data",
			fields: fields.Map{fields.GameCategory: "DG", fields.Serial: "BLUS30443", fields.LdrDisc: "/dev_hdd0/game/BLUS30443/"},
			want:   []string{"❌ Disc game inside `/dev_hdd0/game/BLUS30443/`"},
		},
		{
			name:   "disc game data from a pkg",
			fields: fields.Map{fields.GameCategory: "DG", fields.Serial: "BLUS30443", fields.LdrGameSerial: "NPUB30910"},
			want:   []string{"🔨 Disc game installed as a PKG"},
		},
		{
			name:   "hdd game with disc serial",
			fields: fields.Map{fields.GameCategory: "HG", fields.Serial: "BLES00932"},
			want:   []string{"🔨 Disc game installed as a PKG"},
		},
		{
			name:   "digital hdd game",
			fields: fields.Map{fields.GameCategory: "HG", fields.Serial: "NPUB30910"},
			want:   nil,
		},
	})
}

func TestRuntimeProblemsRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &RuntimeProblemsRule{} }
	runRuleCases(t, newRule, []ruleCase{
		{name: "nothing", fields: fields.Map{}, want: nil},
		{
			name: "everything",
			fields: fields.Map{
				fields.NativeUIInput:            "1",
				fields.XAudioInitError:          "0x88890008",
				fields.FirmwareMissingSomething: "libsre.sprx",
				fields.GameMod:                  "USRDIR/data.cpk",
			},
			want: []string{
				"⚠ Pad initialization problem detected; try disabling `Native UI`",
				"❌ XAudio initialization failed; make sure you have audio output device working",
				"❌ PS3 firmware is missing or corrupted",
				"ℹ Game files modification present: `USRDIR/da…`",
			},
		},
		{
			name:   "short mod name",
			fields: fields.Map{fields.GameMod: "a.pak"},
			want:   []string{"ℹ Game files modification present: `a.pak`"},
		},
	})
}

func TestBuildStalenessRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &BuildStalenessRule{} }
	latest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	behind := func(d time.Duration) func(p *rules.Pass) {
		return func(p *rules.Pass) {
			cur := latest.Add(-d)
			p.Update = &update.Info{CurrentBuild: &cur, LatestBuild: &latest}
		}
	}
	day := 24 * time.Hour
	runRuleCases(t, newRule, []ruleCase{
		{name: "no update info", fields: fields.Map{fields.BuildBranch: "HEAD"}, want: nil},
		{name: "fresh build", fields: fields.Map{fields.BuildBranch: "HEAD"}, setup: behind(10 * day), want: nil},
		{
			name:   "old build",
			fields: fields.Map{fields.BuildBranch: "HEAD"},
			setup:  behind(45 * day),
			want:   []string{"❗ This RPCS3 build is 1 month old, please consider updating it"},
		},
		{
			name:   "prehistoric build",
			fields: fields.Map{fields.BuildBranch: "head"},
			setup:  behind(400 * day),
			want:   []string{"😱 This RPCS3 build is 1 year old, please consider updating it"},
		},
		{
			name:   "unknown age",
			fields: fields.Map{fields.BuildBranch: "HEAD"},
			setup:  func(p *rules.Pass) { p.Update = &update.Info{LatestBuild: &latest} },
			want:   []string{"⚠ This RPCS3 build is outdated, please consider updating it"},
		},
		{
			name:   "pull request build ignored",
			fields: fields.Map{fields.BuildBranch: "pr-1234"},
			setup:  behind(400 * day),
			want:   nil,
		},
		{
			name:   "missing branch with known build date",
			fields: fields.Map{},
			setup:  behind(45 * day),
			want:   []string{"❗ This RPCS3 build is 1 month old, please consider updating it"},
		},
		{
			name:   "missing branch with unknown build date",
			fields: fields.Map{},
			setup:  func(p *rules.Pass) { p.Update = &update.Info{LatestBuild: &latest} },
			want:   nil,
		},
		{
			name:   "obsolete branch",
			fields: fields.Map{fields.BuildBranch: "spu_perf"},
			setup:  behind(10 * day),
			want:   []string{"ℹ `spu_perf` build is obsolete, current master build offers at least the same level of performance and includes many additional improvements"},
		},
	})
}

func TestPadBindingRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &PadBindingRule{} }
	runRuleCases(t, newRule, []ruleCase{
		{name: "absent", fields: fields.Map{}, want: nil},
		{
			name:   "backticks replaced by look-alike",
			fields: fields.Map{fields.FailedPad: "Xbox `One` Controller"},
			want:   []string{"❌ Binding `Xbox ˋOneˋ Controller` failed, check if device is connected."},
		},
		{
			name:   "plain name unchanged",
			fields: fields.Map{fields.FailedPad: "DualShock 4"},
			want:   []string{"❌ Binding `DualShock 4` failed, check if device is connected."},
		},
	})
}

func TestKnownGameHintsRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &KnownGameHintsRule{} }
	runRuleCases(t, newRule, []ruleCase{
		{name: "other game", fields: fields.Map{fields.Serial: "BLUS31604"}, want: nil},
		{
			name:   "demon's souls",
			fields: fields.Map{fields.Serial: "BLUS30443"},
			want:   []string{"ℹ If you experience infinite load screen, clear game cache via `File` → `All games` → `Remove Disk Cache`"},
		},
	})
}

func TestCustomConfigReminderRule_Evaluate(t *testing.T) {
	newRule := func() rules.Rule { return &CustomConfigReminderRule{} }
	reminder := "⚠ To change custom configuration, **Right-click on the game**, then `Configure`"
	runRuleCases(t, newRule, []ruleCase{
		{name: "no custom config", fields: fields.Map{fields.WeirdSettingsNotes: "x"}, want: nil},
		{name: "nothing else reported", fields: fields.Map{fields.CustomConfig: ""}, want: nil},
		{name: "weird settings", fields: fields.Map{fields.CustomConfig: "", fields.WeirdSettingsNotes: "x"}, want: []string{reminder}},
	})

	p := newPass(fields.Map{fields.CustomConfig: "", fields.FailedPad: "pad"})
	runRules(p, &PadBindingRule{}, &CustomConfigReminderRule{})
	if got := lines(p); len(got) != 2 || got[1] != reminder {
		t.Fatalf("expected reminder after other notes, got %v", got)
	}
}

func TestLogTruncatedRule_Evaluate(t *testing.T) {
	p := rules.NewPass(fields.Input{SizeLimited: true})
	(&LogTruncatedRule{}).Evaluate(p)
	if got := lines(p); len(got) != 1 || got[0] != "ℹ The log was too large, so only the last processed run is shown" {
		t.Fatalf("unexpected notes %v", got)
	}

	p = rules.NewPass(fields.Input{})
	(&LogTruncatedRule{}).Evaluate(p)
	if p.HasNotes() {
		t.Fatalf("unexpected notes %v", lines(p))
	}
}
