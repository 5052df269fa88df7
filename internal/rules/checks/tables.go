package checks

import (
	"regexp"
	"strings"

	"logmedic/internal/version"
)

var (
	minimumFirmwareVersion = version.MustParse("4.80")
	minimumOpenGLVersion   = version.MustParse("4.3")

	nvidiaRecommendedDriver = version.MustParse("399.24")
	amdRecommendedDriver    = version.MustParse("20.1.4")

	// 400-series nVidia drivers froze Vulkan fullscreen until the emulator
	// worked around it in this build.
	nvidiaFreezeMinDriver = version.MustParse("400.0")
	nvidiaFreezeMaxDriver = version.MustParse("411.73")
	nvidiaFreezeFixed     = version.MustParse("0.0.5.6943")
)

// Windows path limits.
const (
	maxPath       = 260
	maxFolderPath = maxPath - 1 - 8 - 3
)

var productCodePattern = regexp.MustCompile(`(?i)^(?:(?:[BPSUVX][CL]|P[ETU]|NP)[AEHJKPUIX][ABDFJKMPSTVXZ]|MRTC)[ \-]?\d{5}`)

var intelGPUModel = regexp.MustCompile(`(?i)Intel\s?(?:\(R\))?\s+(?:(?:HD|UHD|Iris|Pro|Plus|Xe|\(R\)|\(TM\))\s*)*Graphics\s*(?P<gpu_model_number>P?\d+)?`)

var installPathPattern = regexp.MustCompile(`(?i)^[a-z]:/(?P<program_files>Program Files(?: \(x86\))?/)?(?P<desktop>(?:[^/]+/)+Desktop/)?(?P<rpcs3_folder>[^/]+/)*GuiConfigs/`)

// Persona 5 releases.
var p5Serials = []string{"BLES02247", "BLUS31604", "BLJM61346", "NPEB02436", "NPUB31848", "NPJB00769"}

// PPU patch counts of the known Persona 5 patches. The 60 fps patches are
// recognised by their exact count, alone or combined with mod support.
const (
	p5ModSupport  = 27
	p5SixtyFPSOld = 12
	p5SixtyFPSMin = 260
)

// Demon's Souls releases.
var demonsSoulsSerials = []string{"BLES00932", "BLUS30443", "BCJS30022", "BCJS70013", "NPEB01202", "NPUB30910", "NPJA00102"}

type gpuVendor int

const (
	vendorUnknown gpuVendor = iota
	vendorNvidia
	vendorAMD
)

// Checked in order; the first vendor with a matching marker wins.
var gpuVendorTable = []struct {
	vendor  gpuVendor
	markers []string
}{
	{vendor: vendorNvidia, markers: []string{"nvidia", "geforce", "quadro"}},
	{vendor: vendorAMD, markers: []string{"radeon", "amd", "ati "}},
}

func detectGPUVendor(gpuInfo string) gpuVendor {
	lower := strings.ToLower(gpuInfo)
	for _, row := range gpuVendorTable {
		for _, m := range row.markers {
			if strings.Contains(lower, m) {
				return row.vendor
			}
		}
	}
	return vendorUnknown
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// fileName is the last element of a path written with either separator.
func fileName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// dirName mirrors how Windows reports the containing folder of a path.
func dirName(p string) string {
	i := strings.LastIndexAny(p, `/\`)
	switch {
	case i < 0:
		return ""
	case i == 2 && p[1] == ':':
		return p[:3]
	}
	return p[:i]
}
