// Package term draws a particle field in a terminal using half block characters, so each
// character cell shows two vertically stacked pixels.
package term

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/peragwin/particlefield/audio/util"
	"github.com/peragwin/particlefield/gfx/raster"
	"github.com/peragwin/particlefield/particles"
)

const halfBlock = '▀'

// Display renders onto a tcell screen.
type Display struct {
	screen      tcell.Screen
	cmap        util.ColorMap
	persistence float32
	proj        *raster.Projector
}

// NewDisplay wraps an initialized screen.
func NewDisplay(screen tcell.Screen, cmap util.ColorMap, persistence float32) *Display {
	screen.HideCursor()
	return &Display{
		screen:      screen,
		cmap:        cmap,
		persistence: persistence,
	}
}

// Draw projects the buffer onto the whole screen and shows it.
func (d *Display) Draw(b *particles.Buffer, bound float64, opaque bool) {
	w, h := d.screen.Size()
	bounds := image.Rect(0, 0, w, 2*h)
	if d.proj == nil || d.proj.Bounds != bounds {
		d.proj = raster.NewProjector(bounds, d.cmap, d.persistence)
	}
	img := d.proj.Project(b, bound, opaque)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			style := tcell.StyleDefault.
				Foreground(rgb(img.RGBAAt(x, 2*y))).
				Background(rgb(img.RGBAAt(x, 2*y+1)))
			d.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	d.screen.Show()
}

// Events forwards resize events to the screen and calls quit when the user presses
// Escape, q or Ctrl-C. It blocks until the screen is finalized.
func (d *Display) Events(quit func()) {
	for {
		switch ev := d.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			d.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				quit()
			}
		}
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
