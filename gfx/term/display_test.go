package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/peragwin/particlefield/audio/util"
	"github.com/peragwin/particlefield/particles"
)

func TestDisplayDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(8, 4)

	d := NewDisplay(screen, util.NewColorMap(), 0)
	b := &particles.Buffer{
		// top left pixel and bottom right pixel
		Positions: []mgl32.Vec3{{-99, 99, 0}, {99, -99, 0}},
		Alpha:     []float32{0, 0},
	}
	d.Draw(b, 100, true)

	mainc, _, style, _ := screen.GetContent(0, 0)
	if mainc != halfBlock {
		t.Fatalf("expected a half block, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg == tcell.NewRGBColor(0, 0, 0) || bg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatal("expected only the top half of the first cell to be lit", fg, bg)
	}

	_, _, style, _ = screen.GetContent(7, 3)
	fg, bg, _ = style.Decompose()
	if bg == tcell.NewRGBColor(0, 0, 0) || fg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatal("expected only the bottom half of the last cell to be lit", fg, bg)
	}
}
