package gfx

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"
)

// Context is a context for doing opengl graphics
type Context struct {
	Window  *Window
	Program *Program

	ctx context.Context
}

// NewContext creates a window and links a program from the given shaders. It must be
// called from the thread that will run EventLoop.
func NewContext(ctx context.Context,
	windowConfig *WindowConfig, shaderConfigs []*ShaderConfig) (*Context, error) {
	window, err := NewWindow(windowConfig)
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		return nil, err
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	glog.Infof("OpenGL version %s", version)

	program, err := NewProgram(shaderConfigs)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("linked program: uniforms %v, attributes %v",
		program.Uniforms, program.Attributes)

	return &Context{
		Window:  window,
		Program: program,
		ctx:     ctx,
	}, nil
}

// EventLoop clears the current framebuffer and executes render in a loop until
// the underlying glfw window tells it to stop or the context is cancelled.
func (c *Context) EventLoop(render func(*Context)) {

	// OpenGL requires that rendering functions be called from the main thread
	runtime.LockOSThread()

	for !c.Window.GlfwWindow.ShouldClose() {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.UseProgram(c.Program.ProgramID)

		render(c)

		glfw.PollEvents()
		c.Window.GlfwWindow.SwapBuffers()
	}
}

// Terminate ends the glfw session
func (c *Context) Terminate() {
	glfw.Terminate()
}

// GetUniformLocation returns the location of a uniform within the context's program.
func (c *Context) GetUniformLocation(uname string) (int32, error) {
	uloc, ok := c.Program.Uniforms[uname]
	if !ok {
		return -1, fmt.Errorf("unknown uniform name: %s", uname)
	}
	return uloc, nil
}

// GetAttributeLocation returns the location of a vertex attribute within the context's
// program.
func (c *Context) GetAttributeLocation(aname string) (uint32, error) {
	aloc, ok := c.Program.Attributes[aname]
	if !ok {
		return 0, fmt.Errorf("unknown attribute name: %s", aname)
	}
	return aloc, nil
}
