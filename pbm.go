// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image of r to w,
// for use with netpbm.
func (r *Raster) EncodePBM(w io.Writer) error {
	if w == nil || !r.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	if _, err := b.WriteString("P4\n" + strconv.Itoa(r.Width) + " " +
		strconv.Itoa(r.Height) + "\n"); err != nil {
		return err
	}
	row := make([]byte, (r.Width+7)/8)
	for pix := r.Pix; len(pix) >= r.Width; pix = pix[r.Width:] {
		pbmRow(row, pix[:r.Width])
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	return b.Flush()
}

// pbmRow packs a row of gray pixels into row, 1 for dark.
func pbmRow(row, pix []byte) {
	var z byte
	j := 0
	for i, v := range pix {
		z <<= 1
		if v == Dark {
			z |= 1
		}
		if i&7 == 7 {
			row[j] = z
			j++
		}
	}
	if n := len(pix) & 7; n != 0 {
		row[j] = z << (8 - n)
	}
}
