package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// VertexArrayObject points to a set of vertex buffers, one per attribute, that can be
// rewritten every frame.
type VertexArrayObject struct {
	vaoID      uint32
	vbos       map[string]vertexBuffer
	length     int32
	glDrawType uint32
	onDraw     func(ctx *Context) bool
}

type vertexBuffer struct {
	id   uint32
	size int
}

// AttribConfig describes one vertex attribute: its name in the shader and the number of
// float components per vertex.
type AttribConfig struct {
	Name string
	Size int
}

// VAOConfig represents a configuration for creating a new VAO.
// OnDraw is a function that returns true if the VAO should be drawn, but can
// also be used to set uniforms.
type VAOConfig struct {
	Vertices   int
	Attributes []AttribConfig
	GLDrawType uint32
	OnDraw     func(ctx *Context) bool
}

// NewVertexArrayObject creates a VertexArrayObject with zeroed buffers for cfg.Vertices
// vertices.
func (c *Context) NewVertexArrayObject(cfg *VAOConfig) (*VertexArrayObject, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.BindVertexArray(0)

	vbos := make(map[string]vertexBuffer)
	for _, attr := range cfg.Attributes {
		loc, err := c.GetAttributeLocation(attr.Name)
		if err != nil {
			return nil, err
		}

		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, 4*attr.Size*cfg.Vertices, nil, gl.DYNAMIC_DRAW)

		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(attr.Size), gl.FLOAT, false, 0, gl.PtrOffset(0))

		vbos[attr.Name] = vertexBuffer{id: vbo, size: attr.Size}
	}

	return &VertexArrayObject{
		vaoID:      vao,
		vbos:       vbos,
		length:     int32(cfg.Vertices),
		glDrawType: cfg.GLDrawType,
		onDraw:     cfg.OnDraw,
	}, nil
}

// Update uploads new data for the named attribute. data must hold exactly one value per
// component per vertex.
func (v *VertexArrayObject) Update(name string, data []float32) error {
	vbo, ok := v.vbos[name]
	if !ok {
		return fmt.Errorf("unknown attribute name: %s", name)
	}
	if len(data) != vbo.size*int(v.length) {
		return fmt.Errorf("attribute %s: expected %d values, got %d",
			name, vbo.size*int(v.length), len(data))
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo.id)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(data), gl.Ptr(data))
	return nil
}

// Draw draws a VertexArrayObject to the current frame buffer
func (v *VertexArrayObject) Draw(ctx *Context) {
	gl.BindVertexArray(v.vaoID)
	if v.onDraw != nil {
		if !v.onDraw(ctx) {
			return
		}
	}
	gl.DrawArrays(v.glDrawType, 0, v.length)
}

// Delete releases the buffers of the VAO.
func (v *VertexArrayObject) Delete() {
	for _, vbo := range v.vbos {
		id := vbo.id
		gl.DeleteBuffers(1, &id)
	}
	gl.DeleteVertexArrays(1, &v.vaoID)
}

// Len is the number of vertices in the VAO.
func (v *VertexArrayObject) Len() int {
	return int(v.length)
}
