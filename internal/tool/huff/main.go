// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command huff compresses and decompresses files in the tree-header Huffman
// format.
//
// Example usage:
//
//	$ huff compress twain.txt             # Writes twain.txt.hf
//	$ huff decompress -o out.txt twain.txt.hf
//	$ cat twain.txt | huff -v c > twain.txt.hf
//
// Regular files are read twice in place. Other inputs, such as pipes, are
// buffered in memory first; -max-buffer bounds how much may be buffered.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/golib/unitconv"
	"github.com/pkg/errors"

	"github.com/dsnet/huff/huffman"
	"github.com/dsnet/huff/internal/bitstream"
)

const ext = ".hf"

type options struct {
	Output    string
	Verbose   bool
	Codes     bool
	MaxBuffer int64
}

type stats struct {
	In, Out int64 // Number of bytes read and written
}

func main() {
	var opts options
	flag.StringVar(&opts.Output, "o", "", "Output file; derived from the input name if empty, \"-\" for stdout")
	flag.BoolVar(&opts.Verbose, "v", false, "Print sizes and compression ratio to stderr")
	flag.BoolVar(&opts.Codes, "codes", false, "Print the code table to stderr when compressing a regular file")
	maxBuf := flag.String("max-buffer", "0", "Maximum input to buffer for non-seekable inputs (e.g. 64Mi); 0 means no limit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] compress|decompress [input]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	n, err := unitconv.ParsePrefix(*maxBuf, unitconv.AutoParse)
	if err != nil {
		fatalf("invalid -max-buffer: %q", *maxBuf)
	}
	opts.MaxBuffer = int64(n)

	var input string
	if flag.NArg() == 2 {
		input = flag.Arg(1)
	}
	st, err := run(flag.Arg(0), input, opts)
	if err != nil {
		fatalf("%v", err)
	}
	if opts.Verbose {
		fmt.Fprintln(os.Stderr, formatStats(displayName(input), st))
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "huff: "+format+"\n", args...)
	os.Exit(1)
}

// run executes cmd on the named input, or stdin if input is empty.
func run(cmd, input string, opts options) (st stats, err error) {
	var op func(io.Reader, io.Writer, options) (stats, error)
	switch cmd {
	case "compress", "c":
		cmd, op = "compress", compress
	case "decompress", "d":
		cmd, op = "decompress", decompress
	default:
		return st, errors.Errorf("unknown command %q", cmd)
	}

	var rd io.Reader = os.Stdin
	var inFile *os.File
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return st, errors.Wrap(err, "open input")
		}
		defer f.Close()
		rd, inFile = f, f
	}

	output := opts.Output
	if output == "" {
		output = outputName(cmd, input)
	}
	var wr io.Writer = os.Stdout
	if output != "" && output != "-" {
		if inFile != nil {
			same, serr := sameFile(inFile, output)
			if serr != nil {
				return st, errors.Wrap(serr, "stat output")
			}
			if same {
				return st, errors.Errorf("output %s is the input file", output)
			}
		}

		// Write to a temporary file next to the output and only move it
		// into place once the whole stream has been written.
		f, cerr := ioutil.TempFile(filepath.Dir(output), "."+filepath.Base(output)+".")
		if cerr != nil {
			return st, errors.Wrap(cerr, "create output")
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = errors.Wrap(cerr, "close output")
			}
			if err == nil {
				if rerr := os.Rename(f.Name(), output); rerr != nil {
					err = errors.Wrap(rerr, "rename output")
				}
			}
			if err != nil {
				os.Remove(f.Name())
			}
		}()
		if cerr := f.Chmod(0644); cerr != nil {
			return st, errors.Wrap(cerr, "create output")
		}
		wr = f
	}

	st, err = op(rd, wr, opts)
	return st, errors.Wrapf(err, "%s %s", cmd, displayName(input))
}

// sameFile reports whether the named output already exists as the same file
// as in, possibly through a link.
func sameFile(in *os.File, output string) (bool, error) {
	fo, err := os.Stat(output)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fi, err := in.Stat()
	if err != nil {
		return false, err
	}
	return os.SameFile(fi, fo), nil
}

// outputName derives the output file name from the input file name.
// Standard input maps to standard output.
func outputName(cmd, input string) string {
	switch {
	case input == "" || input == "-":
		return ""
	case cmd == "compress":
		return input + ext
	case strings.HasSuffix(input, ext) && len(input) > len(ext):
		return strings.TrimSuffix(input, ext)
	default:
		return input + ".out"
	}
}

func displayName(input string) string {
	if input == "" || input == "-" {
		return "<stdin>"
	}
	return input
}

// compress reads seekable inputs twice in place: once to count symbols and
// once to encode them. Anything else is buffered by a huffman.Writer.
func compress(r io.Reader, w io.Writer, opts options) (stats, error) {
	br := bitstream.NewReader(r)
	if err := br.Rewind(); err != nil {
		if opts.Codes {
			fmt.Fprintln(os.Stderr, "huff: code table requires a regular input file")
		}
		zw, err := huffman.NewWriter(w, &huffman.WriterConfig{MaxBufferSize: opts.MaxBuffer})
		if err != nil {
			return stats{}, err
		}
		if _, err := io.Copy(zw, r); err != nil {
			return stats{}, err
		}
		if err := zw.Close(); err != nil {
			return stats{}, err
		}
		return stats{zw.InputOffset, zw.OutputOffset}, nil
	}

	cnts, err := huffman.CountSymbols(br)
	if err != nil {
		return stats{}, errors.Wrap(err, "count symbols")
	}
	if err := br.Rewind(); err != nil {
		return stats{}, err
	}
	root := huffman.BuildTree(&cnts)
	if opts.Codes {
		codes := huffman.GenerateCodes(root)
		fmt.Fprintln(os.Stderr, codes)
		fmt.Fprintf(os.Stderr, "body: %d bits for %d bytes\n", codes.BitLen(&cnts), cnts.Total())
	}

	bw := bitstream.NewWriter(w)
	if err := huffman.CompressTree(br, bw, root); err != nil {
		return stats{}, err
	}
	return stats{br.Offset(), bw.BytesWritten()}, nil
}

func decompress(r io.Reader, w io.Writer, opts options) (stats, error) {
	zr := huffman.NewReader(r)
	if _, err := io.Copy(w, zr); err != nil {
		return stats{}, err
	}
	if err := zr.Close(); err != nil {
		return stats{}, err
	}
	return stats{zr.InputOffset, zr.OutputOffset}, nil
}

func formatStats(name string, st stats) string {
	in := unitconv.FormatPrefix(float64(st.In), unitconv.Base1024, 2)
	out := unitconv.FormatPrefix(float64(st.Out), unitconv.Base1024, 2)
	s := fmt.Sprintf("%s: %sB -> %sB", name, in, out)
	if st.In > 0 && st.Out > 0 {
		s += fmt.Sprintf(" (%.2f%%)", 100*float64(st.Out)/float64(st.In))
	}
	return s
}
