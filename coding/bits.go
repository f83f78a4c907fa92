// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Bits is an append-only bit buffer.  Bits are packed into bytes most
// significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with capacity for n bytes.
func NewBits(n int) *Bits {
	return &Bits{b: make([]byte, 0, n)}
}

// Len returns the number of bits in b.
func (b *Bits) Len() int { return b.nbit }

// Bytes returns the bytes holding the bits of b.  The last byte is
// zero-filled if the length is not a multiple of 8.
func (b *Bits) Bytes() []byte { return b.b }

// PutBit appends a single bit to b.
func (b *Bits) PutBit(bit bool) {
	if b.nbit == len(b.b)*8 {
		b.b = append(b.b, 0)
	}
	if bit {
		b.b[len(b.b)-1] |= 0x80 >> (b.nbit & 7)
	}
	b.nbit++
}

// Put appends the low nbit bits of v to b, most significant first.
func (b *Bits) Put(v uint32, nbit int) {
	for i := nbit - 1; i >= 0; i-- {
		b.PutBit(v>>i&1 != 0)
	}
}

// PadTo adds terminator and padding to fill n bytes: up to four zero
// bits, zero bits to a byte boundary, then alternating 0xec and 0x11.
// PadTo panics if b holds more than n bytes.
func (b *Bits) PadTo(n int) {
	if b.nbit > n*8 {
		panic("qr: too much data")
	}
	b.Put(0, min(4, n*8-b.nbit))
	b.Put(0, -b.nbit&7)
	for pad := uint32(0xec); b.nbit < n*8; pad ^= 0xec ^ 0x11 {
		b.Put(pad, 8)
	}
}
