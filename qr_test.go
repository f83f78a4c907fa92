// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/unixdj/qrurl/coding"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"pgregory.net/rapid"
)

func TestOptionsErrors(t *testing.T) {
	for i, f := range []func(o *Options){
		func(o *Options) { o.Size = 0 },
		func(o *Options) { o.Size = -300 },
		func(o *Options) { o.Margin = -2 },
		func(o *Options) { o.Level = -1 },
		func(o *Options) { o.Level = 4 },
		func(o *Options) { o.Version = 41 },
		func(o *Options) { o.Version = -1 },
		func(o *Options) { o.Charset = 2 },
	} {
		o := NewOptions()
		f(o)
		if s, err := DataURL("hello", o); s != "" || err != ErrArgs {
			t.Errorf("%d: DataURL = %q, %v", i, s, err)
		}
	}
}

func TestOptionsLarge(t *testing.T) {
	for _, tt := range []struct {
		size, margin int
		err          error
	}{
		{math.MaxInt, AutoMargin, ErrLargeImage},
		{math.MaxInt, 0, ErrLargeImage},
		{1 << 30, 0, ErrLargeImage},
		{300, math.MaxInt, ErrLargeImage},
		{46341, 0, ErrLargeImage},
		{46340, 0, nil},
		{300, 46200, ErrLargeImage},
		{300, 46000, nil}, // 177 modules at one pixel, wide margin
		{1, AutoMargin, nil},
	} {
		o := NewOptions()
		o.Size, o.Margin = tt.size, tt.margin
		if err := o.check(); err != tt.err {
			t.Errorf("check(%d, %d) = %v, want %v",
				tt.size, tt.margin, err, tt.err)
		}
	}

	o := NewOptions()
	o.Size = math.MaxInt
	if s, err := DataURL("x", o); s != "" || err != ErrLargeImage {
		t.Errorf("DataURL(size MaxInt) = %.20q, %v", s, err)
	}
}

func TestGeometry(t *testing.T) {
	for _, tt := range []struct {
		size, margin, modules int
		cell, quiet           int
	}{
		{300, AutoMargin, 21, 12, 8},
		{300, AutoMargin, 25, 10, 8},
		{300, 0, 21, 14, 0},
		{100, 10, 21, 3, 5},
		{10, AutoMargin, 177, 1, 0},
		{75, AutoMargin, 21, 3, 2},
	} {
		o := NewOptions()
		o.Size, o.Margin = tt.size, tt.margin
		cell, quiet := Geometry(o, tt.modules)
		if cell != tt.cell || quiet != tt.quiet {
			t.Errorf("Geometry(%d, %d, %d) = %d, %d, want %d, %d",
				tt.size, tt.margin, tt.modules,
				cell, quiet, tt.cell, tt.quiet)
		}
	}
}

func TestMarginZero(t *testing.T) {
	o := NewOptions()
	o.Margin = 0
	u, err := DataURL("no border", o)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(decodeURL(t, u)))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := EncodeOptions("no border", o)
	side := c.Size * (300 / c.Size)
	if r := img.Bounds(); r.Dx() != side || r.Dy() != side {
		t.Errorf("image size %v, want %d", r, side)
	}
	if !c.Black(0, 0) || img.At(0, 0) != c.Raster(o).At(0, 0) {
		t.Error("finder pattern does not touch the image corner")
	}
}

func TestEncode(t *testing.T) {
	for _, tt := range []struct {
		text  string
		level Level
		ver   coding.Version
	}{
		{"", M, 1},
		{"hello", L, 1},
		{"https://example.com/a", M, 2},
		{strings.Repeat("x", 1273), H, 40},
	} {
		c, err := Encode(tt.text, tt.level)
		if err != nil {
			t.Fatalf("Encode(%.10q, %v): %v", tt.text, tt.level, err)
		}
		if c.Version != tt.ver || c.Level != tt.level ||
			c.Size != tt.ver.Size() || c.Mask < 0 || c.Mask > 7 {
			t.Errorf("Encode(%.10q, %v) = version %v level %v size %d mask %d",
				tt.text, tt.level, c.Version, c.Level, c.Size, c.Mask)
		}
	}
}

func TestCapacityError(t *testing.T) {
	s, err := DataURL(strings.Repeat("x", 1274), &Options{
		Size:   300,
		Margin: AutoMargin,
		Level:  H,
	})
	var ce *coding.CapacityError
	if s != "" || !errors.As(err, &ce) || ce.Bytes != 1274 {
		t.Errorf("DataURL(1274 bytes, H) = %.20q, %v", s, err)
	}
}

func TestCharset(t *testing.T) {
	o := NewOptions()
	o.Charset = Latin1
	c, err := EncodeOptions("café", o)
	if err != nil {
		t.Fatal(err)
	}
	u, err := EncodeOptions("caf\xe9", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.Bitmap, u.Bitmap) {
		t.Error("Latin-1 conversion differs from raw bytes")
	}

	_, err = EncodeOptions("日本", o)
	var ce *CharsetError
	if !errors.As(err, &ce) || ce.Charset != Latin1 {
		t.Errorf("EncodeOptions(kanji, Latin1) error = %v", err)
	}
}

func decodeURL(t testing.TB, url string) []byte {
	t.Helper()
	s, ok := strings.CutPrefix(url, DataURLPrefix)
	if !ok {
		t.Fatalf("bad prefix: %.40q", url)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestDataURL(t *testing.T) {
	const text = "https://example.com/a"
	url, err := DataURL(text, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := decodeURL(t, url)
	if !bytes.HasPrefix(b, []byte(pngHeader)) {
		t.Fatalf("bad PNG signature % x", b[:8])
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := Encode(text, M)
	cell, quiet := Geometry(NewOptions(), c.Size)
	side := c.Size*cell + 2*quiet
	if r := img.Bounds(); r.Dx() != side || r.Dy() != side {
		t.Errorf("image size %v, want %d", r, side)
	}
	if side != 266 {
		t.Errorf("side = %d, want 266", side)
	}

	again, _ := DataURL(text, nil)
	if again != url {
		t.Error("DataURL not deterministic")
	}
}

func TestRender(t *testing.T) {
	c, err := Encode("render", Q)
	if err != nil {
		t.Fatal(err)
	}
	rapid.Check(t, func(t *rapid.T) {
		cell := rapid.IntRange(1, 6).Draw(t, "cell")
		margin := rapid.IntRange(0, 12).Draw(t, "margin")
		r := Render(c, cell, margin)
		side := c.Size*cell + 2*margin
		if r.Width != side || r.Height != side || len(r.Pix) != side*side {
			t.Fatalf("raster %dx%d, want %d", r.Width, r.Height, side)
		}
		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				want := false
				if x >= margin && y >= margin &&
					x < side-margin && y < side-margin {
					want = c.Black((x-margin)/cell, (y-margin)/cell)
				}
				if r.Black(x, y) != want {
					t.Fatalf("pixel (%d,%d) = %v, want %v",
						x, y, r.Black(x, y), want)
				}
			}
		}
	})
}

// decode reads the QR code in a PNG image.
func decode(t testing.TB, b []byte, charset string) (*gozxing.Result, error) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	src := gozxing.NewLuminanceSourceFromImage(img)
	bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src))
	if err != nil {
		t.Fatal(err)
	}
	return qrcode.NewQRCodeReader().Decode(bmp,
		map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_CHARACTER_SET: charset,
		})
}

func TestDecode(t *testing.T) {
	for _, tt := range []struct {
		text    string
		level   Level
		charset Charset
	}{
		{"https://example.com/a", L, UTF8},
		{"https://example.com/a", M, UTF8},
		{"https://example.com/a", Q, UTF8},
		{"https://example.com/a", H, UTF8},
		{"héllo wörld ✓", M, UTF8},
		{"café crème brûlée", Q, Latin1},
		{strings.Repeat("The quick brown fox jumps over the lazy dog. ", 4), M, UTF8},
		{strings.Repeat("0123456789abcdef", 40), L, UTF8},
	} {
		o := NewOptions()
		o.Level, o.Charset = tt.level, tt.charset
		c, err := EncodeOptions(tt.text, o)
		if err != nil {
			t.Fatal(err)
		}
		name := fmt.Sprintf("%v-%v", c.Version, c.Level)
		res, err := decode(t, Render(c, 4, 32).PNG(), tt.charset.String())
		if err != nil {
			t.Errorf("%s %.20q: %v", name, tt.text, err)
			continue
		}
		if res.GetText() != tt.text {
			t.Errorf("%s: decoded %.20q, want %.20q",
				name, res.GetText(), tt.text)
		}
		lv := res.GetResultMetadata()[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL]
		if lv != nil && fmt.Sprint(lv) != tt.level.String() {
			t.Errorf("%s: decoded level %v", name, lv)
		}
	}
}

func TestDecodeVersions(t *testing.T) {
	for _, v := range []coding.Version{1, 2, 6, 7, 10, 14, 21} {
		o := NewOptions()
		o.Version = v
		c, err := EncodeOptions("version", o)
		if err != nil {
			t.Fatal(err)
		}
		if c.Version != v {
			t.Fatalf("version %v, want %v", c.Version, v)
		}
		res, err := decode(t, Render(c, 3, 24).PNG(), "UTF-8")
		if err != nil || res.GetText() != "version" {
			t.Errorf("version %v: %v, %v", v, res, err)
		}
	}
}

func TestConcurrent(t *testing.T) {
	const workers = 16
	type job struct {
		level Level
		ver   coding.Version
	}
	var jobs []job
	for _, v := range []coding.Version{0, 8, 23} {
		for l := L; l <= H; l++ {
			jobs = append(jobs, job{l, v})
		}
	}
	url := func(j job) (string, error) {
		o := NewOptions()
		o.Level, o.Version = j.level, j.ver
		return DataURL("https://example.com/concurrent", o)
	}

	// Run in parallel first, so that plans and generators are
	// built concurrently.
	got := make([][]string, workers)
	var wg sync.WaitGroup
	for w := range got {
		got[w] = make([]string, len(jobs))
		wg.Add(1)
		go func(res []string) {
			defer wg.Done()
			for i, j := range jobs {
				s, err := url(j)
				if err != nil {
					t.Errorf("%v-%v: %v", j.ver, j.level, err)
				}
				res[i] = s
			}
		}(got[w])
	}
	wg.Wait()

	for i, j := range jobs {
		want, err := url(j)
		if err != nil {
			t.Fatal(err)
		}
		for w := range got {
			if got[w][i] != want {
				t.Errorf("worker %d, %v-%v: URL differs from serial run",
					w, j.ver, j.level)
			}
		}
	}
}
