// Package checks holds the diagnostic rules and the order they run in.
package checks

import "logmedic/internal/rules"

// Pipeline returns fresh instances of every rule in evaluation order.
//
// The order is observable: later rules read the status and notes earlier
// ones produced, and the trailing reminders must see the final note list.
func Pipeline() []rules.Rule {
	return []rules.Rule{
		&FatalErrorRule{},
		&UnimplementedSyscallRule{},
		&StatusNotWorkingRule{},
		&BootFailuresRule{},
		&DumpIntegrityRule{},
		&FirmwareVersionRule{minimum: minimumFirmwareVersion},
		&PathLengthRule{},
		&BootPlacementRule{},
		&LogCompletenessRule{},
		&UnsupportedPlatformRule{},
		&InstallPathRule{},
		&CPUThreadsRule{minThreads: defaultMinThreads},
		&CPUModelRule{},
		&GPUSupportRule{},
		&ShaderCompileErrorRule{},
		&AudioBackendRule{threshold: defaultAudioErrorThreshold},
		&GamePatchesRule{},
		&DiscInstallModeRule{},
		&RuntimeProblemsRule{},
		&BuildStalenessRule{},
		&PadBindingRule{},
		&KnownGameHintsRule{},
		&CustomConfigReminderRule{},
		&LogTruncatedRule{},
	}
}

func init() {
	for _, r := range Pipeline() {
		rules.Register(r)
	}
}
