// Package skgrid drives a grid of serially addressed LEDs, wired as a snake, through a
// remote controller.
package skgrid

import (
	"errors"
	"image"
	"image/color"
)

// Driver sends a complete frame buffer to the LEDs.
type Driver interface {
	Send([]byte) error
	Close() error
}

// Grid is a display of individually addressable pixels.
type Grid interface {
	Rect() image.Rectangle
	Pixel(x, y int, col color.RGBA)
	Show() error
	Close() error
}

type skGrid struct {
	Width     int
	Height    int
	buffer    []byte
	driver    Driver
	transpose bool
}

// NewGrid creates a width x height grid. The strip runs along columns; with transpose set
// the image is rotated so that x runs along the strip instead.
func NewGrid(width, height int, driver Driver, transpose bool) (Grid, error) {
	if driver == nil {
		return nil, errors.New("skgrid: missing driver")
	}
	if width < 1 || height < 1 {
		return nil, errors.New("skgrid: empty grid")
	}
	ln := width * height
	endframe := make([]byte, 6+ln/16)
	endframe[0] = 0xff
	buffer := make([]byte, 4*(ln+1))
	return &skGrid{
		Width:     width,
		Height:    height,
		transpose: transpose,
		buffer:    append(buffer, endframe...),
		driver:    driver,
	}, nil
}

func (s *skGrid) Rect() image.Rectangle {
	if s.transpose {
		return image.Rect(0, 0, s.Height, s.Width)
	}
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s *skGrid) setBuffer(idx int, col color.RGBA) {
	n := 4*idx + 4
	s.buffer[n] = 0xe0 | col.A
	s.buffer[n+1] = col.B
	s.buffer[n+2] = col.G
	s.buffer[n+3] = col.R
}

func (s *skGrid) Pixel(x, y int, col color.RGBA) {
	if !(image.Point{x, y}).In(s.Rect()) {
		return
	}
	if s.transpose {
		x, y = y, x
	}
	// adjust B/G channels to match R
	col.G /= 2
	col.B /= 2
	// the global brightness field is 5 bits
	col.A = uint8(float64(col.A)/8 + 0.5)
	if col.A > 0x1f {
		col.A = 0x1f
	}

	// the strip snakes, so every other column runs backwards
	if x%2 == 1 {
		y = s.Height - 1 - y
	}
	s.setBuffer(s.Height*x+y, col)
}

func (s *skGrid) Show() error {
	return s.driver.Send(s.buffer)
}

func (s *skGrid) Close() error {
	return s.driver.Close()
}
