package skgrid

import (
	"image"
	"image/color"
	"testing"
)

type captureDriver struct {
	frames [][]byte
	closed bool
}

func (c *captureDriver) Send(b []byte) error {
	c.frames = append(c.frames, append([]byte(nil), b...))
	return nil
}

func (c *captureDriver) Close() error {
	c.closed = true
	return nil
}

func TestGridSnake(t *testing.T) {
	drv := &captureDriver{}
	g, err := NewGrid(2, 3, drv, false)
	if err != nil {
		t.Fatal(err)
	}
	if g.Rect() != image.Rect(0, 0, 2, 3) {
		t.Fatal("unexpected rect", g.Rect())
	}

	red := color.RGBA{200, 0, 0, 255}
	g.Pixel(0, 0, red)
	g.Pixel(1, 0, red)
	g.Pixel(5, 5, red) // off grid, ignored
	if err := g.Show(); err != nil {
		t.Fatal(err)
	}

	buf := drv.frames[0]
	led := func(idx int) []byte { return buf[4*idx+4 : 4*idx+8] }
	// column 1 runs backwards, so (1,0) is the last led of the strip
	for _, idx := range []int{0, 5} {
		if l := led(idx); l[3] != 200 || l[0] != 0xe0|0x1f {
			t.Fatalf("led %d not lit: % x", idx, l)
		}
	}
	if l := led(3); l[3] != 0 {
		t.Fatalf("led 3 unexpectedly lit: % x", l)
	}

	if err := g.Close(); err != nil || !drv.closed {
		t.Fatal("driver not closed")
	}
	if _, err := NewGrid(2, 2, nil, false); err == nil {
		t.Fatal("expected an error without a driver")
	}
}

func TestGridTranspose(t *testing.T) {
	drv := &captureDriver{}
	g, _ := NewGrid(2, 3, drv, true)
	if g.Rect() != image.Rect(0, 0, 3, 2) {
		t.Fatal("unexpected rect", g.Rect())
	}
	g.Pixel(2, 0, color.RGBA{R: 10, A: 255})
	g.Show()
	// image (2,0) is column 0, row 2
	if drv.frames[0][4*2+4+3] != 10 {
		t.Fatalf("unexpected buffer % x", drv.frames[0])
	}
}

func TestDraw(t *testing.T) {
	drv := &captureDriver{}
	g, _ := NewGrid(2, 2, drv, false)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 7, A: 255})
	img.SetRGBA(3, 3, color.RGBA{R: 9, A: 255})
	if err := Draw(g, img); err != nil {
		t.Fatal(err)
	}
	if len(drv.frames) != 1 {
		t.Fatal("frame not sent")
	}
	// column 1 runs backwards, so image (1,1) is led 2
	if drv.frames[0][4*2+4+3] != 7 {
		t.Fatalf("unexpected buffer % x", drv.frames[0])
	}
}
