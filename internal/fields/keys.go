package fields

// Field names produced by the log parser.
const (
	// Identity
	Serial       = "serial"
	GameTitle    = "game_title"
	GameCategory = "game_category"

	// Fatal conditions
	FatalError           = "fatal_error"
	FatalErrorContext    = "fatal_error_context"
	UnimplementedSyscall = "unimplemented_syscall"
	FailedToDecrypt      = "failed_to_decrypt"
	FailedToBoot         = "failed_to_boot"
	FailedToVerify       = "failed_to_verify"

	// Dump integrity
	BrokenDirectory = "broken_directory"
	BrokenFilename  = "broken_filename"
	EdatBlockOffset = "edat_block_offset"
	RapFile         = "rap_file"

	// Firmware
	FirmwareVersionInstalled = "fw_version_installed"
	FirmwareInstalledMessage = "fw_installed_message"
	FirmwareMissingMessage   = "fw_missing_msg"
	FirmwareMissingSomething = "fw_missing_something"

	// Paths and placement
	OSType            = "os_type"
	WinPath           = "win_path"
	LdrGame           = "ldr_game"
	LdrGameFull       = "ldr_game_full"
	LdrGameSerial     = "ldr_game_serial"
	LdrDisc           = "ldr_disc"
	LdrDiscFull       = "ldr_disc_full"
	LdrDiscSerial     = "ldr_disc_serial"
	LdrPath           = "ldr_path"
	LdrPathFull       = "ldr_path_full"
	LdrPathSerial     = "ldr_path_serial"
	LdrBootPath       = "ldr_boot_path"
	LdrBootPathFull   = "ldr_boot_path_full"
	LdrBootPathSerial = "ldr_boot_path_serial"
	ElfBootPath       = "elf_boot_path"
	ElfBootPathFull   = "elf_boot_path_full"
	ElfBootPathSerial = "elf_boot_path_serial"
	HostRootInBoot    = "host_root_in_boot"
	CompatDatabase    = "compat_database_path"

	// Log shape
	LogFromUI          = "log_from_ui"
	PPUDecoder         = "ppu_decoder"
	Renderer           = "renderer"
	CustomConfig       = "custom_config"
	WeirdSettingsNotes = "weird_settings_notes"

	// CPU
	ThreadCount     = "thread_count"
	CPUModel        = "cpu_model"
	CPUExtensions   = "cpu_extensions"
	ThreadScheduler = "thread_scheduler"

	// GPU
	OpenGLVersion      = "opengl_version"
	GLSLVersion        = "glsl_version"
	GPUInfo            = "gpu_info"
	DiscreteGPUInfo    = "discrete_gpu_info"
	DriverVersionInfo  = "driver_version_info"
	ShaderCompileError = "shader_compile_error"

	// Build
	BuildVersion = "build_version"
	BuildNumber  = "build_number"
	BuildBranch  = "build_branch"
	BuildCommit  = "build_commit"

	// Runtime problems
	EnqueueBufferError = "enqueue_buffer_error"
	NativeUIInput      = "native_ui_input"
	XAudioInitError    = "xaudio_init_error"
	GameMod            = "game_mod"
	FailedPad          = "failed_pad"

	// Patches
	PPUHash      = "ppu_hash"
	PPUHashPatch = "ppu_hash_patch"
	OVLHash      = "ovl_hash"
	OVLHashPatch = "ovl_hash_patch"
	SPUHash      = "spu_hash"
	SPUHashPatch = "spu_hash_patch"
)

// known holds every field name the parser can produce.
var known = func() map[string]struct{} {
	keys := []string{
		Serial, GameTitle, GameCategory, FatalError, FatalErrorContext, UnimplementedSyscall,
		FailedToDecrypt, FailedToBoot, FailedToVerify, BrokenDirectory, BrokenFilename,
		EdatBlockOffset, RapFile, FirmwareVersionInstalled, FirmwareInstalledMessage,
		FirmwareMissingMessage, FirmwareMissingSomething, OSType, WinPath, LdrGame,
		LdrGameFull, LdrGameSerial, LdrDisc, LdrDiscFull, LdrDiscSerial, LdrPath, LdrPathFull,
		LdrPathSerial, LdrBootPath, LdrBootPathFull, LdrBootPathSerial, ElfBootPath,
		ElfBootPathFull, ElfBootPathSerial, HostRootInBoot, CompatDatabase, LogFromUI,
		PPUDecoder, Renderer, CustomConfig, WeirdSettingsNotes, ThreadCount, CPUModel,
		CPUExtensions, ThreadScheduler, OpenGLVersion, GLSLVersion, GPUInfo, DiscreteGPUInfo,
		DriverVersionInfo, ShaderCompileError, BuildVersion, BuildNumber, BuildBranch,
		BuildCommit, EnqueueBufferError, NativeUIInput, XAudioInitError, GameMod, FailedPad,
		PPUHash, PPUHashPatch, OVLHash, OVLHashPatch, SPUHash, SPUHashPatch,
	}
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}()

// IsKnown reports whether key is a field the parser produces.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// DisabledMark is how the log renders a disabled checkbox setting.
const DisabledMark = "[ ]"
