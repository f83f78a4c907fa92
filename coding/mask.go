// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
//
// maskFunc[n](i, j) reports whether mask n inverts the module at
// row i, column j.
var maskFunc = [8]func(i, j int) bool{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)%2 == 0 },
	func(i, j int) bool { return ((i+j)%2+i*j%3)%2 == 0 },
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version
	Level   Level
	Mask    int // mask pattern, 0 to 7
}

// Black reports whether the pixel at column x, row y is black.
// Pixels outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Penalty returns the penalty value for a QR code.  The value is used
// for choosing the mask.
//
// Total penalty is the sum of penalties for runs and boxes of
// same-colour pixels, finder patterns and colour balance.
//
//   - RunP: for non-overlapping runs of n pixels, n>=5 -> 3+(n-5)
//   - BoxP: for possibly overlapping 2x2 boxes -> 3
//   - FindP: for 1:1:3:1:1 finder patterns with 4 white pixels on
//     either side -> 40 per side; may extend into the quiet zone
//   - BalP: for n% of black pixels -> 10*floor(abs(n-50)/5)
func (c *Code) Penalty() int {
	const (
		MinRun = 5  // RunP:  minimum run length
		RunPP  = 3  // RunP:  points for a minimum run
		BoxPP  = 3  // BoxP:  points per box
		FindPP = 40 // FindP: points per pattern
		BalPP  = 10 // BalP:  points per 5% step
	)
	siz := c.Size
	p := 0
	line := make([]bool, siz)
	for dir := 0; dir < 2; dir++ {
		for i := 0; i < siz; i++ {
			for j := range line {
				if dir == 0 {
					line[j] = c.Black(j, i) // row i
				} else {
					line[j] = c.Black(i, j) // column i
				}
			}
			// RunP
			r := 1
			for j := 1; j <= siz; j++ {
				if j < siz && line[j] == line[j-1] {
					r++
					continue
				}
				if r >= MinRun {
					p += RunPP + r - MinRun
				}
				r = 1
			}
			// FindP
			at := func(j int) bool { return 0 <= j && j < siz && line[j] }
			for f := 0; f+7 <= siz; f++ {
				if !at(f) || at(f+1) || !at(f+2) || !at(f+3) ||
					!at(f+4) || at(f+5) || !at(f+6) {
					continue
				}
				if !at(f-4) && !at(f-3) && !at(f-2) && !at(f-1) {
					p += FindPP
				}
				if !at(f+7) && !at(f+8) && !at(f+9) && !at(f+10) {
					p += FindPP
				}
			}
		}
	}

	// BoxP and balance
	black := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			b := c.Black(x, y)
			if b {
				black++
			}
			if x+1 < siz && y+1 < siz && b == c.Black(x+1, y) &&
				b == c.Black(x, y+1) && b == c.Black(x+1, y+1) {
				p += BoxPP
			}
		}
	}
	sq := siz * siz
	dev := black*100 - sq*50
	if dev < 0 {
		dev = -dev
	}
	p += dev / (sq * 5) * BalPP
	return p
}
