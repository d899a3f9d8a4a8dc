package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderStage is the pipeline stage a shader source is compiled for.
type ShaderStage uint32

// Stages used by the renderers.
const (
	VertexStage   ShaderStage = gl.VERTEX_SHADER
	FragmentStage ShaderStage = gl.FRAGMENT_SHADER
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%#x)", uint32(s))
}

// ShaderConfig is the source of one stage of a program. Uniforms and attributes don't
// need to be declared; they are discovered from the linked program.
type ShaderConfig struct {
	Stage  ShaderStage
	Source string
}

func compileShader(cfg *ShaderConfig) (uint32, error) {
	if cfg.Stage != VertexStage && cfg.Stage != FragmentStage {
		return 0, fmt.Errorf("unsupported shader stage %v", cfg.Stage)
	}
	id := gl.CreateShader(uint32(cfg.Stage))

	csources, free := gl.Strs(cfg.Source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compiling %v shader: %v", cfg.Stage, strings.TrimRight(log, "\x00"))
	}
	return id, nil
}

// activeVariables lists the uniforms and vertex attributes the linker kept, with their
// locations. Variables the shaders declare but never use are absent.
func activeVariables(program uint32) (uniforms map[string]int32, attributes map[string]uint32) {
	uniforms = make(map[string]int32)
	attributes = make(map[string]uint32)

	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	name := make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(program, i, int32(len(name)), &length, &size, &typ, &name[0])
		n := string(name[:length])
		uniforms[n] = gl.GetUniformLocation(program, gl.Str(n+"\x00"))
	}

	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)
	name = make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveAttrib(program, i, int32(len(name)), &length, &size, &typ, &name[0])
		n := string(name[:length])
		attributes[n] = uint32(gl.GetAttribLocation(program, gl.Str(n+"\x00")))
	}
	return uniforms, attributes
}
