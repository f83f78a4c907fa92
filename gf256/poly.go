// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

// A Poly is a polynomial over GF(256), highest degree coefficient
// first.  Polys returned by this package have no leading zero
// coefficients, except the zero polynomial, which is empty.
type Poly []byte

// NewPoly returns c with leading zero coefficients trimmed.
// The result shares storage with c.
func NewPoly(c []byte) Poly {
	for len(c) > 0 && c[0] == 0 {
		c = c[1:]
	}
	return Poly(c)
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p) - 1 }

// MulPoly returns the product of p and q in f.
func (f *Field) MulPoly(p, q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	r := make([]byte, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			r[i+j] ^= f.Mul(a, b)
		}
	}
	return NewPoly(r)
}

// Mod returns the remainder of p divided by d in f.
// Mod panics if d is the zero polynomial.
func (f *Field) Mod(p, d Poly) Poly {
	d = NewPoly(d)
	if len(d) == 0 {
		panic("gf256: division by zero polynomial")
	}
	r := append(Poly(nil), NewPoly(p)...)
	lead := int(f.log[d[0]])
	for len(r) >= len(d) {
		if r[0] != 0 {
			ratio := int(f.log[r[0]]) - lead
			for i, c := range d {
				if c != 0 {
					r[i] ^= f.Exp(int(f.log[c]) + ratio)
				}
			}
		}
		r = r[1:]
	}
	return NewPoly(r)
}

// Generator returns the Reed-Solomon generator polynomial for n error
// correction bytes: (x - α⁰)(x - α¹)…(x - αⁿ⁻¹).
func (f *Field) Generator(n int) Poly {
	g := Poly{1}
	for i := 0; i < n; i++ {
		g = f.MulPoly(g, Poly{1, f.Exp(i)})
	}
	return g
}
