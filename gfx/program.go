package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked OpenGL program together with the locations of its active uniforms
// and attributes.
type Program struct {
	ProgramID  uint32
	Uniforms   map[string]int32
	Attributes map[string]uint32
}

// NewProgram compiles each stage and links them into a program.
func NewProgram(stages []*ShaderConfig) (*Program, error) {
	prog := gl.CreateProgram()
	if prog == 0 {
		return nil, fmt.Errorf("could not create program")
	}

	shaders := make([]uint32, 0, len(stages))
	defer func() {
		// shaders are owned by the program once linked
		for _, id := range shaders {
			gl.DeleteShader(id)
		}
	}()
	for _, cfg := range stages {
		id, err := compileShader(cfg)
		if err != nil {
			gl.DeleteProgram(prog)
			return nil, err
		}
		gl.AttachShader(prog, id)
		shaders = append(shaders, id)
	}

	gl.LinkProgram(prog)
	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}

	p := &Program{ProgramID: prog}
	p.Uniforms, p.Attributes = activeVariables(prog)
	return p, nil
}
