package skgrid

import "image"

// Draw copies img onto the grid and shows it.
func Draw(g Grid, img *image.RGBA) error {
	r := g.Rect().Intersect(img.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			g.Pixel(x, y, img.RGBAAt(x, y))
		}
	}
	return g.Show()
}
