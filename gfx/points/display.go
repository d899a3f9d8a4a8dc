// Package points draws a cloud of coloured, translucent points seen through a
// perspective camera.
package points

import (
	"context"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"

	"github.com/peragwin/particlefield/gfx"
)

const (
	vertexShaderSource = `
	#version 410
	uniform mat4 projection;
	uniform mat4 view;
	uniform float pointSize;
	in vec3 position;
	in vec3 color;
	in float alpha;
	out vec4 fragColor;
	void main() {
		fragColor = vec4(color, alpha);
		gl_Position = projection * view * vec4(position, 1.0);
		gl_PointSize = pointSize;
	}`

	fragmentShaderSource = `
	#version 410
	in vec4 fragColor;
	out vec4 outColor;
	void main() {
		outColor = fragColor;
	}`
)

// Config is a configuration for a new Display.
type Config struct {
	Width  int
	Height int
	Title  string

	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32
	// CameraZ is the distance of the camera from the origin along z, looking at the origin.
	CameraZ   float32
	PointSize float32
}

// Frame is one set of points to draw. Positions and Colors hold three values per point,
// Alpha one.
type Frame struct {
	Positions []float32
	Colors    []float32
	Alpha     []float32
}

// Display is a window drawing a point cloud.
type Display struct {
	cfg *Config
	gfx *gfx.Context
	vao *gfx.VertexArrayObject

	projection int32
	view       int32
	pointSize  int32

	aspect float32
	render func(*Frame)

	mu      sync.Mutex
	resized bool
	width   int
	height  int

	frame Frame
}

// NewDisplay opens the window. It must be called from the main thread, which must later
// run Start.
func NewDisplay(ctx context.Context, cfg *Config) (*Display, error) {
	g, err := gfx.NewContext(ctx, &gfx.WindowConfig{
		Width: cfg.Width, Height: cfg.Height, Title: cfg.Title,
	}, []*gfx.ShaderConfig{
		{Stage: gfx.VertexStage, Source: vertexShaderSource},
		{Stage: gfx.FragmentStage, Source: fragmentShaderSource},
	})
	if err != nil {
		return nil, err
	}

	d := &Display{cfg: cfg, gfx: g}
	for name, loc := range map[string]*int32{
		"projection": &d.projection,
		"view":       &d.view,
		"pointSize":  &d.pointSize,
	} {
		if *loc, err = g.GetUniformLocation(name); err != nil {
			return nil, err
		}
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0, 0, 0, 1)

	d.width, d.height = g.Window.FramebufferSize()
	d.resized = true
	g.Window.OnResize(func(width, height int) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.width, d.height = width, height
		d.resized = true
	})

	return d, nil
}

// SetRenderFunc sets the function called before drawing each frame. It fills in the
// points to draw; slices it leaves unchanged keep their previous content.
func (d *Display) SetRenderFunc(render func(*Frame)) {
	d.render = render
}

// Start runs the render loop until the window is closed or the context is done.
func (d *Display) Start() {
	defer d.gfx.Terminate()
	d.gfx.EventLoop(func(c *gfx.Context) {
		d.applyResize()
		if d.render != nil {
			d.render(&d.frame)
		}
		if err := d.upload(); err != nil {
			glog.Errorf("uploading points: %v", err)
			return
		}
		if d.vao != nil {
			d.vao.Draw(c)
		}
	})
}

func (d *Display) applyResize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.resized || d.height == 0 {
		return
	}
	d.resized = false
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	d.aspect = float32(d.width) / float32(d.height)

	projection := mgl32.Perspective(mgl32.DegToRad(d.cfg.FieldOfView), d.aspect, 0.1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, d.cfg.CameraZ}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	gl.UniformMatrix4fv(d.projection, 1, false, &projection[0])
	gl.UniformMatrix4fv(d.view, 1, false, &view[0])
	gl.Uniform1f(d.pointSize, d.cfg.PointSize)
	glog.V(1).Infof("viewport resized to %dx%d", d.width, d.height)
}

func (d *Display) upload() error {
	n := len(d.frame.Alpha)
	if n == 0 {
		return nil
	}
	if d.vao == nil || d.vao.Len() != n {
		if d.vao != nil {
			d.vao.Delete()
		}
		vao, err := d.gfx.NewVertexArrayObject(&gfx.VAOConfig{
			Vertices: n,
			Attributes: []gfx.AttribConfig{
				{Name: "position", Size: 3},
				{Name: "color", Size: 3},
				{Name: "alpha", Size: 1},
			},
			GLDrawType: gl.POINTS,
		})
		if err != nil {
			return err
		}
		d.vao = vao
	}
	if err := d.vao.Update("position", d.frame.Positions); err != nil {
		return err
	}
	if err := d.vao.Update("color", d.frame.Colors); err != nil {
		return err
	}
	return d.vao.Update("alpha", d.frame.Alpha)
}
