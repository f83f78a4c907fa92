// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon encoding as used by QR codes.
package gf256 // import "github.com/unixdj/qrurl/gf256"

import (
	"strconv"
	"sync"
)

// A Field represents an instance of GF(256) defined by a specific
// polynomial.  A Field is read-only after NewField returns.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte // exp[i] = α^i, doubled to skip a modulo in Mul
}

// QR is the field used by QR codes: x⁸ + x⁴ + x³ + x² + 1, α = 2.
var QR = NewField(0x11d, 2)

// A DomainError reports an operation outside the domain of the field,
// such as the logarithm of zero.
type DomainError struct {
	Op    string
	Value int
}

func (e *DomainError) Error() string {
	return "gf256: " + e.Op + "(" + strconv.Itoa(e.Value) + ") undefined"
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The polynomial must be of degree 8 and α must
// generate the multiplicative group; NewField panics otherwise.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}

	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// reducible reports whether p is reducible by trial division.
func reducible(p int) bool {
	np := nbit(p)
	for q := 2; q < 1<<uint(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// nbit returns the number of significant bits in p.
func nbit(p int) uint {
	n := uint(0)
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv divides p by q and returns the remainder.
func polyDiv(p, q int) int {
	np := nbit(p)
	nq := nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<(np-1)) != 0 {
			p ^= q << (np - nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a GF(256) multiplication
// without tables.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte { return x ^ y }

// Exp returns the base-α exponential of e in the field.
// e is taken modulo 255, so any int is accepted.
func (f *Field) Exp(e int) byte {
	if e %= 255; e < 0 {
		e += 255
	}
	return f.exp[e]
}

// Log returns the base-α logarithm of x in the field.
// The logarithm of zero is undefined.
func (f *Field) Log(x byte) (int, error) {
	if x == 0 {
		return 0, &DomainError{"log", 0}
	}
	return int(f.log[x]), nil
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-int(f.log[x])]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// An RSEncoder implements Reed-Solomon encoding
// over a given field using a given number of error correction bytes.
// Generator polynomials are computed on first use and cached, so an
// RSEncoder is safe for concurrent use.
type RSEncoder struct {
	f   *Field
	mu  sync.Mutex
	gen map[int]Poly
}

// NewRSEncoder returns a new Reed-Solomon encoder
// over the given field.
func NewRSEncoder(f *Field) *RSEncoder {
	return &RSEncoder{f: f, gen: make(map[int]Poly)}
}

// Generator returns the generator polynomial for n error correction
// bytes, the product of (x - α^i) for i from 0 to n-1.
func (rs *RSEncoder) Generator(n int) Poly {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	g, ok := rs.gen[n]
	if !ok {
		g = rs.f.Generator(n)
		rs.gen[n] = g
	}
	return g
}

// ECC writes to check the error correcting code bytes
// for data using the given Reed-Solomon parameters.
// The number of check bytes is len(check).
func (rs *RSEncoder) ECC(data, check []byte) {
	n := len(check)
	if n == 0 {
		return
	}
	msg := make(Poly, len(data)+n)
	copy(msg, data)
	rem := rs.f.Mod(NewPoly(msg), rs.Generator(n))
	clear(check)
	copy(check[n-len(rem):], rem)
}
