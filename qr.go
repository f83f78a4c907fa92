// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes text as a QR code and renders it as a PNG image,
typically delivered as a "data:image/png;base64," URL.

Text is always encoded as a single byte mode segment.  The smallest
version able to hold the data at the requested error correction level
is chosen unless a version is given.
*/
package qr // import "github.com/unixdj/qrurl"

import (
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/unixdj/qrurl/coding"

	"golang.org/x/text/encoding/charmap"
)

var ErrArgs = errors.New("qr: invalid arguments")

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// A Charset selects how text is converted to bytes.
type Charset int

const (
	UTF8   Charset = iota // text bytes as is
	Latin1                // ISO 8859-1
)

func (cs Charset) String() string {
	switch cs {
	case UTF8:
		return "UTF-8"
	case Latin1:
		return "ISO-8859-1"
	}
	return "Charset(" + strconv.Itoa(int(cs)) + ")"
}

// Bytes returns text converted to cs.
func (cs Charset) Bytes(text string) ([]byte, error) {
	switch cs {
	case UTF8:
		return []byte(text), nil
	case Latin1:
		b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, &CharsetError{cs, err}
		}
		return b, nil
	}
	return nil, ErrArgs
}

// A CharsetError reports text that cannot be represented in a Charset.
type CharsetError struct {
	Charset Charset
	Err     error
}

func (e *CharsetError) Error() string {
	return "qr: text not representable in " + e.Charset.String() +
		": " + e.Err.Error()
}

func (e *CharsetError) Unwrap() error { return e.Err }

const (
	DefaultSize = 300 // default image side in pixels
	AutoMargin  = -1  // margin derived from image size
)

// Options control encoding and rendering.  The zero value is not
// useful; start from NewOptions.
type Options struct {
	Size    int            // requested image side in pixels
	Margin  int            // margin in pixels, or AutoMargin
	Level   Level          // error correction level
	Version coding.Version // QR version, or 0 for the smallest that fits
	Charset Charset        // conversion of text to bytes
}

// NewOptions returns the default options: 300 pixels, automatic margin,
// level M, automatic version, UTF-8.
func NewOptions() *Options {
	return &Options{Size: DefaultSize, Margin: AutoMargin, Level: M}
}

func (o *Options) check() error {
	if o.Size <= 0 || o.Margin < AutoMargin ||
		!coding.Level(o.Level).IsValid() ||
		o.Version != 0 && !o.Version.IsValid() ||
		o.Charset != UTF8 && o.Charset != Latin1 {
		return ErrArgs
	}
	if side := maxSide(o); (side+1)*side > maxImage {
		return ErrLargeImage
	}
	return nil
}

// maxSide returns the largest image side o can produce for any
// version.  A code of n modules takes n*cell pixels, which is at most
// Size-2*margin, or n if cells are clamped to one pixel.
func maxSide(o *Options) int64 {
	s, m := int64(o.Size), int64(o.Margin)
	if s > maxImage || m > maxImage {
		return maxImage
	}
	if o.Margin == AutoMargin {
		m = s * 4 / 75
	}
	return min(max(s-2*m, int64(coding.MaxVersion.Size()))+m/2*2, maxImage)
}

// margin returns the margin in pixels.
func (o *Options) margin() int {
	if o.Margin == AutoMargin {
		return o.Size * 4 / 75
	}
	return o.Margin
}

// Geometry returns the rendering parameters for a code with size
// modules on a side: pixels per module, at least 1, and the width of
// the quiet zone in pixels, which is half the margin.
func Geometry(o *Options, size int) (cellSize, quiet int) {
	m := o.margin()
	return max((o.Size-2*m)/size, 1), m / 2
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    int            // mask pattern
}

// Black reports whether the pixel at (x,y) is black.
// Pixels outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Encode returns an encoding of UTF-8 text at the given error
// correction level.
func Encode(text string, level Level) (*Code, error) {
	o := NewOptions()
	o.Level = level
	return EncodeOptions(text, o)
}

// EncodeOptions returns an encoding of text according to o.Level,
// o.Version and o.Charset.  If o is nil, the defaults are used.
func EncodeOptions(text string, o *Options) (*Code, error) {
	if o == nil {
		o = NewOptions()
	}
	if err := o.check(); err != nil {
		return nil, err
	}
	data, err := o.Charset.Bytes(text)
	if err != nil {
		return nil, err
	}
	cc, err := coding.Encode(data, o.Version, coding.Level(o.Level))
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Version: cc.Version,
		Level:   Level(cc.Level),
		Mask:    cc.Mask,
	}, nil
}

// Raster renders c according to o.  If o is nil, the defaults are used.
func (c *Code) Raster(o *Options) *Raster {
	if o == nil {
		o = NewOptions()
	}
	cell, quiet := Geometry(o, c.Size)
	return Render(c, cell, quiet)
}

// DataURLPrefix starts every URL returned by DataURL.
const DataURLPrefix = "data:image/png;base64,"

// DataURL encodes text as a QR code and returns a data URL holding
// a PNG image of it.  If o is nil, the defaults are used.
// On error the URL is empty.
func DataURL(text string, o *Options) (string, error) {
	if o == nil {
		o = NewOptions()
	}
	c, err := EncodeOptions(text, o)
	if err != nil {
		return "", err
	}
	b, err := c.Raster(o).encodePNG()
	if err != nil {
		return "", err
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(b), nil
}
