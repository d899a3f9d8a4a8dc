package util

import (
	"image/color"

	hsluv "github.com/hsluv/hsluv-go"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorMap is a gradient given by keypoints sorted by position within [0,1].
type ColorMap []struct {
	Col colorful.Color
	Pos float64
}

// At returns the HCL blend of the two keypoints around t. Values outside [0,1] get the
// color of the nearest end.
func (g ColorMap) At(t float64) colorful.Color {
	if t <= g[0].Pos {
		return g[0].Col
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			t := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, t).Clamped()
		}
	}
	return g[len(g)-1].Col
}

// RGBA returns the color at t with the given alpha as a non premultiplied color.
func (g ColorMap) RGBA(t float64, alpha uint8) color.RGBA {
	r, gr, b := g.At(t).RGB255()
	return color.RGBA{r, gr, b, alpha}
}

func mustParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("MustParseHex: " + err.Error())
	}
	return c
}

// NewColorMap returns a diverging spectral gradient.
func NewColorMap() ColorMap {
	return ColorMap{
		{mustParseHex("#9e0142"), 0.0},
		{mustParseHex("#d53e4f"), 0.1},
		{mustParseHex("#f46d43"), 0.2},
		{mustParseHex("#fdae61"), 0.3},
		{mustParseHex("#fee090"), 0.4},
		{mustParseHex("#ffffbf"), 0.5},
		{mustParseHex("#e6f598"), 0.6},
		{mustParseHex("#abdda4"), 0.7},
		{mustParseHex("#66c2a5"), 0.8},
		{mustParseHex("#3288bd"), 0.9},
		{mustParseHex("#5e4fa2"), 1.0},
	}
}

// NewHueMap returns a gradient sweeping n evenly spaced hues of constant perceived
// lightness, starting at hue h0 degrees.
func NewHueMap(n int, h0, saturation, lightness float64) ColorMap {
	if n < 2 {
		n = 2
	}
	g := make(ColorMap, n)
	for i := range g {
		pos := float64(i) / float64(n-1)
		r, gr, b := hsluv.HsluvToRGB(h0+360*pos*float64(n-1)/float64(n), saturation, lightness)
		g[i].Col = colorful.Color{R: r, G: gr, B: b}.Clamped()
		g[i].Pos = pos
	}
	return g
}

// ParseColorMap returns the gradient registered under name: "spectral" or "hue".
func ParseColorMap(name string) (ColorMap, bool) {
	switch name {
	case "spectral":
		return NewColorMap(), true
	case "hue":
		return NewHueMap(12, 0, 90, 65), true
	case "white":
		white := colorful.Color{R: 1, G: 1, B: 1}
		return ColorMap{{white, 0}, {white, 1}}, true
	}
	return nil, false
}
