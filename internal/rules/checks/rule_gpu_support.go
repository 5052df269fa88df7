package checks

import (
	"strconv"
	"strings"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
	"logmedic/internal/version"
)

type GPUSupportRule struct{}

func (r *GPUSupportRule) ID() string {
	return "gpu-support"
}

func (r *GPUSupportRule) Title() string {
	return "GPU Support"
}

func (r *GPUSupportRule) Description() string {
	return "Checks the effective OpenGL version against the minimum, classifies Intel iGPUs, and checks nVidia and AMD driver versions. GPUs found unsupported suppress later GPU-specific advice."
}

func (r *GPUSupportRule) Fields() []string {
	return []string{
		fields.OpenGLVersion, fields.GLSLVersion,
		fields.GPUInfo, fields.DiscreteGPUInfo, fields.DriverVersionInfo,
		fields.BuildVersion, fields.BuildNumber, fields.BuildBranch,
		fields.OSType, fields.Renderer,
	}
}

// effectiveOpenGL is the better of the reported OpenGL version and the one
// implied by the GLSL version (GLSL 4.50 implies OpenGL 4.5).
func effectiveOpenGL(v fields.View) (version.Version, bool) {
	gl, glOK := v.Version(fields.OpenGLVersion)
	if glsl, ok := v.Version(fields.GLSLVersion); ok {
		implied := version.New(glsl.Major(), glsl.Minor()/10)
		if !glOK || gl.Less(implied) {
			return implied, true
		}
	}
	return gl, glOK
}

func (r *GPUSupportRule) Evaluate(p *rules.Pass) {
	v := p.Fields

	if gl, ok := effectiveOpenGL(v); ok && gl.Less(minimumOpenGLVersion) {
		p.AddNote(notes.New(notes.Critical, "GPU only supports OpenGL %d.%d, which is below the minimum requirement of %s",
			gl.Major(), gl.Minor(), minimumOpenGLVersion))
		p.MarkUnsupportedGPU()
	}

	gpuInfo, _ := firstPresent(v, fields.GPUInfo, fields.DiscreteGPUInfo)
	if !p.SupportedGPU() || gpuInfo == "" {
		return
	}

	if m := intelGPUModel.FindStringSubmatch(gpuInfo); m != nil {
		model := strings.TrimPrefix(m[intelGPUModel.SubexpIndex("gpu_model_number")], "P")
		n, _ := strconv.Atoi(model)
		if n < 500 || n > 1000 {
			p.AddNote(notes.New(notes.Warning, "Intel iGPUs before Skylake do not fully comply with OpenGL 4.3"))
			p.MarkUnsupportedGPU()
		} else {
			p.AddNote(notes.New(notes.Warning, "Intel iGPUs are not officially supported; visual glitches are to be expected"))
		}
	}

	driverInfo, ok := v.Get(fields.DriverVersionInfo)
	if !ok {
		return
	}
	vendor := detectGPUVendor(gpuInfo)
	driver, driverOK := version.Parse(driverInfo)
	build, buildOK := v.Version(fields.BuildVersion)
	buildNumber, numberOK := v.Int(fields.BuildNumber)

	if !driverOK || !buildOK || !numberOK {
		if containsFold(driverInfo, "older than") && vendor == vendorAMD {
			p.AddNote(notes.New(notes.Old, "Please update your AMD GPU driver to at least version %s", amdRecommendedDriver))
		}
		return
	}
	build = build.WithRevision(buildNumber)

	switch vendor {
	case vendorNvidia:
		if driver.Less(nvidiaRecommendedDriver) {
			p.AddNote(notes.New(notes.Old, "Please update your nVidia GPU driver to at least version %s", nvidiaRecommendedDriver))
		}
		os, osOK := v.Get(fields.OSType)
		if osOK && os != "Linux" &&
			build.Less(nvidiaFreezeFixed) &&
			v.String(fields.BuildBranch) == "HEAD" &&
			!driver.Less(nvidiaFreezeMinDriver) && driver.Less(nvidiaFreezeMaxDriver) &&
			v.String(fields.Renderer) == "Vulkan" {
			p.AddNote(notes.New(notes.Info, "400 series nVidia drivers can cause screen freezes, please update RPCS3"))
		}
	case vendorAMD:
		if driver.Less(amdRecommendedDriver) {
			p.AddNote(notes.New(notes.Old, "Please update your AMD GPU driver to at least version %s", amdRecommendedDriver))
		}
	}
}
