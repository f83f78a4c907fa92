// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qrurl encodes text as a QR code and prints it as a PNG data URL.
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/unixdj/qrurl"
	"github.com/unixdj/qrurl/coding"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	opts   *qr.Options // encoding and rendering options
	fn     string      // filename
	format int         // output file format
	latin1 bool        // Latin-1 byte mode
}{
	opts: qr.NewOptions(),
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QR code data URL generator\nUsage: ", cl.Program(), " ",
		cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qrurl version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

var formats = []string{"url", "png", "pbm", "utf8"}

var encoders = [...]func(*qr.Code, io.Writer) error{
	func(c *qr.Code, w io.Writer) error {
		return writeURL(c.Raster(g.opts), w)
	},
	func(c *qr.Code, w io.Writer) error {
		return c.Raster(g.opts).EncodePNG(w)
	},
	func(c *qr.Code, w io.Writer) error {
		return c.Raster(g.opts).EncodePBM(w)
	},
	utf8,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.latin1, '1', "convert text to Latin-1")
	getopt.Flag(&g.fn, 'o', `output file, or "-" for standard output`,
		"file")
	margin := getopt.Signed('m', qr.AutoMargin,
		&getopt.SignedLimit{Base: 0, Bits: 28, Min: qr.AutoMargin, Max: 1 << 20},
		"margin in pixels, half of which is the quiet zone; "+
			"default: 4/75 of size", "margin")
	size := getopt.Unsigned('s', qr.DefaultSize,
		&getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 20},
		"requested image side in pixels", "size")
	ver := getopt.Unsigned('v', 0,
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: uint64(coding.MaxVersion)},
		"QR code version; 0 chooses the smallest that fits", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "m",
		"error correction level, lowest to highest", "l|m|q|h")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+`; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise url`, "type")

	getopt.Parse()
	o := g.opts
	o.Size = int(*size)
	o.Margin = int(*margin)
	o.Version = coding.Version(*ver)
	o.Level = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if g.latin1 {
		o.Charset = qr.Latin1
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if *ff == "" {
		if g.fn == "" && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "url"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i
			break
		}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	c, err := qr.EncodeOptions(s, g.opts)
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

func write(c *qr.Code) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	err := encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// writeURL writes a data URL holding a PNG image of r, followed by
// a newline.  Nothing is written if r cannot be encoded.
func writeURL(r *qr.Raster, w io.Writer) error {
	var b bytes.Buffer
	if err := r.EncodePNG(&b); err != nil {
		return err
	}
	_, err := io.WriteString(w, qr.DataURLPrefix+
		base64.StdEncoding.EncodeToString(b.Bytes())+"\n")
	return err
}

// utf8 writes c as text using block elements, two modules per
// character cell, with a quiet zone of two modules.
func utf8(c *qr.Code, w io.Writer) error {
	const bord = 2
	blocks := [4]string{" ", "▀", "▄", "█"}
	siz := c.Size
	var b strings.Builder
	for y := -bord; y < siz+bord; y += 2 {
		for x := -bord; x < siz+bord; x++ {
			i := 0
			if !c.Black(x, y) {
				i |= 1
			}
			if !c.Black(x, y+1) && y+1 < siz+bord {
				i |= 2
			}
			b.WriteString(blocks[i])
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
