package gfx

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	openglVersionMajor = 4
	openglVersionMinor = 1
)

// Window represents a wrapped glfw window object.
type Window struct {
	Config     *WindowConfig
	GlfwWindow *glfw.Window
}

// WindowConfig contains a new window configuration
type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// NewWindow initializes a new window object with glfw.
func NewWindow(cfg *WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, openglVersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, openglVersionMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return &Window{Config: cfg, GlfwWindow: window}, nil
}

// FramebufferSize returns the size of the drawable area in pixels, which differs from
// the window size on high dpi displays.
func (w *Window) FramebufferSize() (int, int) {
	return w.GlfwWindow.GetFramebufferSize()
}

// OnResize calls fn with the new framebuffer size whenever the window is resized.
func (w *Window) OnResize(fn func(width, height int)) {
	w.GlfwWindow.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}
