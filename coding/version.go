// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: capacity
// tables, bit streams, module placement and masking.
package coding // import "github.com/unixdj/qrurl/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/unixdj/qrurl/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// Field is the field for QR error correction.
var Field = gf256.QR

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of modules on a side of a QR code
// with version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is an error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

// ParseLevel returns the level named by s, one of "L", "M", "Q" or
// "H" in either case.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "l", "L":
		return L, nil
	case "m", "M":
		return M, nil
	case "q", "Q":
		return Q, nil
	case "h", "H":
		return H, nil
	}
	return 0, ErrLevel
}

// A Block describes one Reed-Solomon block.
type Block struct {
	Total int // data and check codewords
	Data  int // data codewords
}

// Check returns the number of error correction codewords in b.
func (b Block) Check() int { return b.Total - b.Data }

// Blocks returns the Reed-Solomon blocks for the given version and
// level, in the order they are stored.
func Blocks(v Version, l Level) ([]Block, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	tab := rsBlockTable[v][l]
	var bl []Block
	for i := 0; i+2 < len(tab); i += 3 {
		for n := 0; n < tab[i]; n++ {
			bl = append(bl, Block{tab[i+1], tab[i+2]})
		}
	}
	return bl, nil
}

// DataBytes returns the number of data codewords that can be
// stored in a QR code with the given version and level,
// or 0 if either is invalid.
func (v Version) DataBytes(l Level) int {
	bl, err := Blocks(v, l)
	if err != nil {
		return 0
	}
	n := 0
	for _, b := range bl {
		n += b.Data
	}
	return n
}

// TotalBytes returns the number of data and check codewords
// in a QR code with version v, or 0 if v is invalid.
func (v Version) TotalBytes() int {
	bl, err := Blocks(v, L)
	if err != nil {
		return 0
	}
	n := 0
	for _, b := range bl {
		n += b.Total
	}
	return n
}

// CountLength returns the length in bits of the byte mode character
// count field in version v.
func (v Version) CountLength() int {
	if v <= 9 {
		return 8
	}
	return 16
}

// byteModeIndicator is the 4 bit mode indicator for byte mode.
const byteModeIndicator = 4

// EncodedLength returns the length in bits of a byte mode segment
// of n bytes in version v.
func (v Version) EncodedLength(n int) int {
	return 4 + v.CountLength() + n*8
}

// A CapacityError reports data too long for any QR code
// at the requested level, or for the requested version.
type CapacityError struct {
	Bytes   int     // data length in bytes
	Version Version // requested version, or 0 for any
	Level   Level
}

func (e *CapacityError) Error() string {
	if e.Version == 0 {
		return fmt.Sprintf("qr: %d bytes too long to encode "+
			"at level %s", e.Bytes, e.Level)
	}
	return fmt.Sprintf("qr: %d bytes too long to encode in version %s "+
		"at level %s", e.Bytes, e.Version, e.Level)
}

// BCH generator polynomials and format information mask.
const (
	G15     = 0x537  // x¹⁰ + x⁸ + x⁵ + x⁴ + x² + x + 1
	G18     = 0x1f25 // x¹² + x¹¹ + x¹⁰ + x⁹ + x⁸ + x⁵ + x² + 1
	G15Mask = 0x5412
)

// bch returns data shifted left by the degree of gen with the
// remainder of its division by gen appended.
func bch(data, gen uint32) uint32 {
	deg := 0
	for g := gen >> 1; g != 0; g >>= 1 {
		deg++
	}
	rem := data << deg
	for i := 31 - deg; i >= 0; i-- {
		if rem&(1<<(i+deg)) != 0 {
			rem ^= gen << i
		}
	}
	return data<<deg | rem
}

// FormatBits returns the 15 bit format information for level l and
// mask pattern mask.
func FormatBits(l Level, mask int) uint32 {
	// L=01, M=00, Q=11, H=10
	return bch(uint32(l^1)<<3|uint32(mask&7), G15) ^ G15Mask
}

// VersionBits returns the 18 bit version information for v.
// Only versions 7 and up carry version information.
func VersionBits(v Version) uint32 {
	return bch(uint32(v), G18)
}
