// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

/*
PNG Encoder

The encoder writes 8-bit grayscale images with a single IDAT chunk.
The zlib stream inside it uses stored (uncompressed) DEFLATE blocks
only, so the output size is predictable: for a W×H raster, the image
data is H scanlines of W+1 bytes (filter type 0, then pixels), split
into blocks of at most 65535 bytes with 5 bytes of header each, plus
2 bytes of zlib header and 4 bytes of Adler-32.
*/

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

var ErrLargeImage = errors.New("qr: image too large")

// PNG returns a PNG image of r, or nil if r is invalid or too large.
func (r *Raster) PNG() []byte {
	b, err := r.encodePNG()
	if err != nil {
		return nil
	}
	return b
}

// EncodePNG writes a PNG image of r to w.
func (r *Raster) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	b, err := r.encodePNG()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// DataURL returns a data URL holding a PNG image of r,
// or "" if r is invalid or too large.
func (r *Raster) DataURL() string {
	b, err := r.encodePNG()
	if err != nil {
		return ""
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(b)
}

const (
	pngHeader = "\x89PNG\r\n\x1a\n"
	maxStored = 0xffff // maximum length of a stored block
	maxImage  = 1<<31 - 1
)

// A pngWriter is a writer for PNG and zlib.
type pngWriter struct {
	buf     bytes.Buffer
	tmp     [13]byte
	start   int
	adler32 adigest
}

// pngSize returns the length of the PNG image of r.
func pngSize(r *Raster) int {
	n := (r.Width + 1) * r.Height
	blocks := (n + maxStored - 1) / maxStored
	return len(pngHeader) + 12 + 13 + 12 + 2 + 5*blocks + n + 4 + 12
}

func (r *Raster) encodePNG() ([]byte, error) {
	if !r.isValid() {
		return nil, ErrArgs
	}
	if int64(r.Width+1)*int64(r.Height) > maxImage {
		return nil, ErrLargeImage
	}
	var w pngWriter
	w.buf.Grow(pngSize(r))

	// Header
	w.buf.WriteString(pngHeader)

	// Header block
	binary.BigEndian.PutUint32(w.tmp[0:4], uint32(r.Width))
	binary.BigEndian.PutUint32(w.tmp[4:8], uint32(r.Height))
	w.tmp[8] = 8  // 8-bit
	w.tmp[9] = 0  // gray
	w.tmp[10] = 0 // deflate
	w.tmp[11] = 0 // adaptive filtering
	w.tmp[12] = 0 // no interlace
	w.writeChunk("IHDR", w.tmp[:13])

	// Data
	w.startChunk("IDAT")
	w.writeImage(r)
	w.endChunk()

	// End
	w.writeChunk("IEND", nil)
	return w.buf.Bytes(), nil
}

func (w *pngWriter) writeChunk(name string, data []byte) {
	w.startChunk(name)
	w.buf.Write(data)
	w.endChunk()
}

// startChunk writes the chunk type twice: the first copy reserves
// space for the length, which endChunk fills in.
func (w *pngWriter) startChunk(name string) {
	w.start = w.buf.Len()
	w.buf.WriteString(name)
	w.buf.WriteString(name)
}

func (w *pngWriter) endChunk() {
	b := w.buf.Bytes()[w.start:]
	binary.BigEndian.PutUint32(b, uint32(len(b)-8))
	binary.BigEndian.PutUint32(w.tmp[0:4], crc32.ChecksumIEEE(b[4:]))
	w.buf.Write(w.tmp[0:4])
}

// writeImage writes a zlib stream of the scanlines of r in stored
// blocks.
func (w *pngWriter) writeImage(r *Raster) {
	w.buf.WriteString("\x78\x01") // deflate, 32K window, no dictionary
	w.adler32.Reset()
	left := (r.Width + 1) * r.Height
	pix := r.Pix
	col := -1 // -1 is the filter byte
	for left > 0 {
		n := min(left, maxStored)
		left -= n
		var final byte
		if left == 0 {
			final = 1
		}
		w.tmp[0] = final // BFINAL, BTYPE 00
		binary.LittleEndian.PutUint16(w.tmp[1:3], uint16(n))
		binary.LittleEndian.PutUint16(w.tmp[3:5], ^uint16(n))
		w.buf.Write(w.tmp[:5])
		for n > 0 {
			if col < 0 {
				w.buf.WriteByte(0) // filter: none
				w.adler32.WriteNByte(0, 1)
				col, n = 0, n-1
				continue
			}
			k := min(n, r.Width-col)
			w.buf.Write(pix[:k])
			w.adler32.WriteRuns(pix[:k])
			pix = pix[k:]
			n -= k
			if col += k; col == r.Width {
				col = -1
			}
		}
	}
	binary.BigEndian.PutUint32(w.tmp[0:4], w.adler32.Sum32())
	w.buf.Write(w.tmp[0:4])
}

// adigest is an Adler-32 digest.
type adigest struct {
	a, b uint32
}

func (d *adigest) Reset() { d.a, d.b = 1, 0 }

const amod = 65521

// aupdate returns the sums a, b updated with n bytes of value pi.
func aupdate(a, b uint32, pi byte, n int) (aa, bb uint32) {
	// invariant: a, b < amod
	if pi == 0 {
		b += uint32(n%amod) * a
		b = b % amod
		return a, b
	}

	// n times:
	//	a += pi
	//	b += a
	// is same as
	//	b += n*a + n*(n+1)/2*pi
	//	a += n*pi
	m := uint64(n)
	b += uint32((m % amod) * uint64(a) % amod)
	b = b % amod
	b += uint32((m * (m + 1) / 2) % amod * uint64(pi) % amod)
	b = b % amod
	a += uint32((m % amod) * uint64(pi) % amod)
	a = a % amod
	return a, b
}

// WriteRuns adds p to the digest, folding each run of equal bytes
// into a single update.
func (d *adigest) WriteRuns(p []byte) {
	for len(p) > 0 {
		n := 1
		for n < len(p) && p[n] == p[0] {
			n++
		}
		d.WriteNByte(p[0], n)
		p = p[n:]
	}
}

// WriteNByte adds n bytes of value pi to the digest.
func (d *adigest) WriteNByte(pi byte, n int) {
	d.a, d.b = aupdate(d.a, d.b, pi, n)
}

func (d *adigest) Sum32() uint32 { return d.b<<16 | d.a }
