// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Module is the state of a single QR module.
type Module byte

const (
	Unset Module = iota // not yet written
	Light
	Dark
)

// A Matrix is a square grid of modules.  Modules belonging to function
// patterns (finder, separator, timing and alignment patterns, format
// and version information) are marked reserved and are never
// overwritten by data or masking.
type Matrix struct {
	Size     int
	mod      []Module
	reserved []bool
}

// NewMatrix returns an empty matrix with size modules on a side.
func NewMatrix(size int) *Matrix {
	return &Matrix{
		Size:     size,
		mod:      make([]Module, size*size),
		reserved: make([]bool, size*size),
	}
}

// At returns the module at column x, row y.
func (m *Matrix) At(x, y int) Module { return m.mod[y*m.Size+x] }

// Reserved reports whether the module at column x, row y belongs to
// a function pattern.
func (m *Matrix) Reserved(x, y int) bool { return m.reserved[y*m.Size+x] }

// Clone returns a copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		Size:     m.Size,
		mod:      append([]Module(nil), m.mod...),
		reserved: m.reserved, // never written after the Plan is built
	}
}

func dark(b bool) Module {
	if b {
		return Dark
	}
	return Light
}

// fix sets a function module.
func (m *Matrix) fix(x, y int, black bool) {
	i := y*m.Size + x
	m.mod[i] = dark(black)
	m.reserved[i] = true
}

// Code packs m into a Code.  Unset modules are light.
func (m *Matrix) Code() *Code {
	siz := m.Size
	stride := (siz + 7) >> 3
	c := &Code{Size: siz, Stride: stride, Bitmap: make([]byte, siz*stride)}
	for y := 0; y < siz; y++ {
		row := c.Bitmap[y*stride:]
		for x, v := range m.mod[y*siz : (y+1)*siz] {
			if v == Dark {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return c
}

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBytes int     // number of data codewords
	Blocks    []Block // Reed-Solomon blocks
	Size      int     // number of modules on a side

	// Function patterns, with format information reserved
	// but not yet written.
	Base *Matrix
}

// Pre-built Plans.  A Plan is created the first time a combination
// of version and level is used and is read-only afterwards.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns a Plan for a QR code with the given version and
// level.  The Plan is shared and must not be modified.
func NewPlan(v Version, l Level) (*Plan, error) {
	bl, err := Blocks(v, l)
	if err != nil {
		return nil, err
	}
	p := &plans[v][l]
	p.once.Do(func() { p.p = vplan(v, l, bl) })
	return p.p, nil
}

// vplan creates a Plan for the given version and level.
func vplan(v Version, l Level, bl []Block) *Plan {
	siz := v.Size()
	p := &Plan{
		Version:   v,
		Level:     l,
		DataBytes: v.DataBytes(l),
		Blocks:    bl,
		Size:      siz,
		Base:      NewMatrix(siz),
	}
	m := p.Base

	// Position boxes with separators.
	finder(m, 0, 0)
	finder(m, siz-7, 0)
	finder(m, 0, siz-7)

	// Alignment boxes, except where they would cover position boxes.
	pos := alignTable[v]
	for _, y := range pos {
		for _, x := range pos {
			if !m.Reserved(x, y) {
				alignBox(m, x, y)
			}
		}
	}

	// Timing markers.
	for i := 8; i < siz-8; i++ {
		if !m.Reserved(i, 6) {
			m.fix(i, 6, i&1 == 0)
		}
		if !m.Reserved(6, i) {
			m.fix(6, i, i&1 == 0)
		}
	}

	// Format pixels, written per mask by setFormat.
	formatCells(siz, func(x, y, _ int) { m.fix(x, y, false) })

	// One lonely black pixel.
	m.fix(8, siz-8, true)

	// Version pattern.
	if v >= 7 {
		vb := VersionBits(v)
		for i := 0; i < 18; i++ {
			black := vb>>i&1 != 0
			a, b := i/3, i%3+siz-11
			m.fix(b, a, black) // top right, 3 wide, 6 high
			m.fix(a, b, black) // bottom left, 6 wide, 3 high
		}
	}
	return p
}

// finder draws a position box with its separator at upper left x, y.
func finder(m *Matrix, x, y int) {
	for dy := -1; dy <= 7; dy++ {
		for dx := -1; dx <= 7; dx++ {
			xx, yy := x+dx, y+dy
			if xx < 0 || yy < 0 || xx >= m.Size || yy >= m.Size {
				continue
			}
			ring := max(abs(dx-3), abs(dy-3))
			m.fix(xx, yy, ring != 2 && ring != 4)
		}
	}
}

// alignBox draws an alignment (small) box centred at x, y.
func alignBox(m *Matrix, x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			m.fix(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// formatCells calls f with both positions of each of the 15 format
// information bits, least significant bit first.
func formatCells(siz int, f func(x, y, bit int)) {
	for i := 0; i < 15; i++ {
		// Vertical strip along column 8.
		switch {
		case i < 6:
			f(8, i, i)
		case i < 8:
			f(8, i+1, i)
		default:
			f(8, siz-15+i, i)
		}
		// Horizontal strip along row 8.
		switch {
		case i < 8:
			f(siz-1-i, 8, i)
		case i == 8:
			f(7, 8, i)
		default:
			f(14-i, 8, i)
		}
	}
}

// setFormat writes the format information for the plan's level and
// the given mask to m.
func (p *Plan) setFormat(m *Matrix, mask int) {
	fb := FormatBits(p.Level, mask)
	formatCells(p.Size, func(x, y, bit int) {
		m.mod[y*m.Size+x] = dark(fb>>bit&1 != 0)
	})
}

// place writes the codewords to the unreserved modules of m in zigzag
// scan order, xored with mask.  Remainder bits are zero.
func (p *Plan) place(m *Matrix, codewords []byte, mask int) {
	siz := p.Size
	f := maskFunc[mask]
	bit := 0
	up := true
	for x := siz - 1; x > 0; x -= 2 {
		if x == 6 { // vertical timing strip
			x--
		}
		for n := 0; n < siz; n++ {
			y := n
			if up {
				y = siz - 1 - n
			}
			for xx := x; xx >= x-1; xx-- {
				if m.Reserved(xx, y) {
					continue
				}
				var black bool
				if i := bit >> 3; i < len(codewords) {
					black = codewords[i]>>(7&^bit)&1 != 0
				}
				bit++
				m.mod[y*siz+xx] = dark(black != f(y, xx))
			}
		}
		up = !up
	}
}
