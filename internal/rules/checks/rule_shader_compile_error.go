package checks

import (
	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type ShaderCompileErrorRule struct{}

func (r *ShaderCompileErrorRule) ID() string {
	return "shader-compile-error"
}

func (r *ShaderCompileErrorRule) Title() string {
	return "Shader Compilation Error"
}

func (r *ShaderCompileErrorRule) Description() string {
	return "Reports shader compilation errors, pointing at cache corruption on supported GPUs."
}

func (r *ShaderCompileErrorRule) Fields() []string {
	return []string{fields.ShaderCompileError}
}

func (r *ShaderCompileErrorRule) Evaluate(p *rules.Pass) {
	if !p.Fields.NonEmpty(fields.ShaderCompileError) {
		return
	}
	if p.SupportedGPU() {
		p.AddNote(notes.New(notes.Critical, "Shader compilation error might indicate shader cache corruption"))
		return
	}
	p.AddNote(notes.New(notes.Critical, "Shader compilation error on unsupported GPU"))
}
