// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image"
	"image/color"
)

// Pixel values in a Raster.
const (
	Dark  = 0x00
	Light = 0xff
)

// A Raster is an 8-bit grayscale image of a code.
// It implements image.Image.
type Raster struct {
	Width, Height int
	Pix           []byte // rows top to bottom, Dark or Light
}

// Render returns a raster of c with each module drawn as a cellSize
// square, surrounded by a light border margin pixels wide.
// cellSize must be positive and margin must not be negative.
func Render(c *Code, cellSize, margin int) *Raster {
	side := c.Size*cellSize + 2*margin
	r := &Raster{Width: side, Height: side, Pix: make([]byte, side*side)}
	for i := range r.Pix {
		r.Pix[i] = Light
	}
	row := bytes.Repeat([]byte{Light}, side)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			v := byte(Light)
			if c.Black(x, y) {
				v = Dark
			}
			p := row[margin+x*cellSize:][:cellSize]
			for i := range p {
				p[i] = v
			}
		}
		start := (margin + y*cellSize) * side
		for i := 0; i < cellSize; i++ {
			copy(r.Pix[start+i*side:], row)
		}
	}
	return r
}

// Black reports whether the pixel at (x,y) is dark.
func (r *Raster) Black(x, y int) bool {
	return 0 <= x && x < r.Width && 0 <= y && y < r.Height &&
		r.Pix[y*r.Width+x] == Dark
}

// Equal reports whether r and s hold the same image.
func (r *Raster) Equal(s *Raster) bool {
	return r.Width == s.Width && r.Height == s.Height &&
		bytes.Equal(r.Pix, s.Pix)
}

func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

func (r *Raster) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(r.Bounds())) {
		return color.Gray{}
	}
	return color.Gray{r.Pix[y*r.Width+x]}
}

func (r *Raster) ColorModel() color.Model {
	return color.GrayModel
}

func (r *Raster) isValid() bool {
	return r != nil && r.Width > 0 && r.Height > 0 &&
		len(r.Pix) == r.Width*r.Height
}
