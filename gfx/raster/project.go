// Package raster flattens a particle field onto a low resolution image for LED grids and
// terminals.
package raster

import (
	"image"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/phrozen/blend"

	"github.com/peragwin/particlefield/audio/util"
	"github.com/peragwin/particlefield/particles"
)

// Projector flattens a particle buffer onto a small image by dropping z. Particles are
// coloured by depth and leave fading trails.
type Projector struct {
	Bounds   image.Rectangle
	ColorMap util.ColorMap
	// Persistence is the fraction of the previous frame kept in the trail, in [0,1).
	Persistence float32

	trail *image.RGBA
	layer *image.RGBA
}

// NewProjector creates a projector for a grid of the given size.
func NewProjector(bounds image.Rectangle, cmap util.ColorMap, persistence float32) *Projector {
	return &Projector{
		Bounds:      bounds,
		ColorMap:    cmap,
		Persistence: persistence,
		trail:       image.NewRGBA(bounds),
		layer:       image.NewRGBA(bounds),
	}
}

// Cell returns the pixel that a point (x, y) within [-bound,bound]^2 maps to. Points
// outside the square are reported as not visible.
func (p *Projector) Cell(x, y, bound float32) (image.Point, bool) {
	w, h := float32(p.Bounds.Dx()), float32(p.Bounds.Dy())
	u := (x + bound) / (2 * bound)
	v := (bound - y) / (2 * bound)
	if !(u >= 0 && u <= 1 && v >= 0 && v <= 1) {
		return image.Point{}, false
	}
	cx := int(math.Min(w-1, math.Floor(u*w)))
	cy := int(math.Min(h-1, math.Floor(v*h)))
	return image.Pt(p.Bounds.Min.X+cx, p.Bounds.Min.Y+cy), true
}

// Project renders the buffer and returns the composited image. With opaque set every
// particle is drawn at full opacity regardless of its alpha.
func (p *Projector) Project(b *particles.Buffer, bound float64, opaque bool) *image.RGBA {
	for i := range p.trail.Pix {
		p.trail.Pix[i] = uint8(float32(p.trail.Pix[i]) * p.Persistence)
	}
	for i := range p.layer.Pix {
		p.layer.Pix[i] = 0
	}

	fb := float32(bound)
	for i, pos := range b.Positions {
		pt, ok := p.Cell(pos[0], pos[1], fb)
		if !ok {
			continue
		}
		a := float32(1)
		if !opaque {
			a = b.Alpha[i]
		}
		if a <= 0 {
			continue
		}
		depth := (pos[2] + fb) / (2 * fb)
		c := p.ColorMap.RGBA(float64(depth), 255)
		p.layer.SetRGBA(pt.X, pt.Y, brighter(p.layer.RGBAAt(pt.X, pt.Y), scale(c, a)))
	}

	blend.BlendImage(p.trail, p.layer, blend.Screen)
	return p.trail
}

func scale(c color.RGBA, a float32) color.RGBA {
	return color.RGBA{
		uint8(float32(c.R)*a + 0.5),
		uint8(float32(c.G)*a + 0.5),
		uint8(float32(c.B)*a + 0.5),
		uint8(float32(c.A)*a + 0.5),
	}
}

func brighter(a, b color.RGBA) color.RGBA {
	if int(b.R)+int(b.G)+int(b.B) > int(a.R)+int(a.G)+int(a.B) {
		return b
	}
	return a
}
