// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrurl/gf256"

// rs computes error correction for all plans.
var rs = gf256.NewRSEncoder(Field)

// ChooseVersion returns the smallest version able to hold n bytes of
// byte mode data at level l.
func ChooseVersion(n int, l Level) (Version, error) {
	if !l.IsValid() {
		return 0, ErrLevel
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		if v.EncodedLength(n) <= v.DataBytes(l)*8 {
			return v, nil
		}
	}
	return 0, &CapacityError{Bytes: n, Level: l}
}

// Bits returns data encoded as a byte mode segment, with terminator
// and padding to fill the data codewords of the plan.
func (p *Plan) Bits(data []byte) (*Bits, error) {
	v := p.Version
	if v.EncodedLength(len(data)) > p.DataBytes*8 {
		return nil, &CapacityError{len(data), v, p.Level}
	}
	b := NewBits(p.DataBytes)
	b.Put(byteModeIndicator, 4)
	b.Put(uint32(len(data)), v.CountLength())
	for _, c := range data {
		b.Put(uint32(c), 8)
	}
	b.PadTo(p.DataBytes)
	return b, nil
}

// Codewords returns the final codeword sequence for data: data
// codewords of all blocks interleaved, followed by check codewords of
// all blocks interleaved.
func (p *Plan) Codewords(data []byte) ([]byte, error) {
	b, err := p.Bits(data)
	if err != nil {
		return nil, err
	}
	dat := b.Bytes()
	blocks := make([][]byte, len(p.Blocks))
	checks := make([][]byte, len(p.Blocks))
	maxd, maxc := 0, 0
	for i, bl := range p.Blocks {
		blocks[i], dat = dat[:bl.Data], dat[bl.Data:]
		checks[i] = make([]byte, bl.Check())
		rs.ECC(blocks[i], checks[i])
		maxd, maxc = max(maxd, bl.Data), max(maxc, bl.Check())
	}
	out := make([]byte, 0, p.Version.TotalBytes())
	out = interleave(out, blocks, maxd)
	out = interleave(out, checks, maxc)
	return out, nil
}

// interleave appends codeword j of each block for j below n,
// skipping blocks shorter than j.
func interleave(dst []byte, blocks [][]byte, n int) []byte {
	for j := 0; j < n; j++ {
		for _, b := range blocks {
			if j < len(b) {
				dst = append(dst, b[j])
			}
		}
	}
	return dst
}

// Masked returns the code built from codewords with the given mask.
func (p *Plan) Masked(codewords []byte, mask int) *Code {
	m := p.Base.Clone()
	p.setFormat(m, mask)
	p.place(m, codewords, mask)
	c := m.Code()
	c.Version, c.Level, c.Mask = p.Version, p.Level, mask
	return c
}

// Encode returns a QR code containing data.
// The mask with the smallest penalty is chosen;
// ties go to the lowest mask number.
func (p *Plan) Encode(data []byte) (*Code, error) {
	cw, err := p.Codewords(data)
	if err != nil {
		return nil, err
	}
	var best *Code
	pen := 0
	for mask := range maskFunc {
		c := p.Masked(cw, mask)
		if n := c.Penalty(); best == nil || n < pen {
			best, pen = c, n
		}
	}
	return best, nil
}

// Encode encodes data in byte mode at level l.  If v is 0, the
// smallest version that fits is used.
func Encode(data []byte, v Version, l Level) (*Code, error) {
	if v == 0 {
		var err error
		if v, err = ChooseVersion(len(data), l); err != nil {
			return nil, err
		}
	}
	p, err := NewPlan(v, l)
	if err != nil {
		return nil, err
	}
	return p.Encode(data)
}
