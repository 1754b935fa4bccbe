// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"io"

	"github.com/dsnet/huff"
	"github.com/dsnet/huff/internal"
	"github.com/dsnet/huff/internal/bitstream"
	"github.com/dsnet/huff/internal/errors"
)

// Decompress decodes the stream read from in and writes the original bytes
// to out, closing out on success.
//
// If the magic number does not match, nothing is written to out. If the body
// ends before the EOF code, the bytes decoded so far have already been
// written when ErrTruncated is returned.
func Decompress(in huff.BitReader, out huff.BitWriteCloser) (err error) {
	defer errors.Recover(&err)

	d := decoder{br: in, root: readHeader(in)}
	for {
		sym := d.next()
		if sym == EOF {
			break
		}
		writeBits(out, uint64(sym), symBits)
	}
	return out.Close()
}

// readHeader reads the magic number and the code tree.
// This function panics if an error occurs.
func readHeader(br huff.BitReader) Node {
	magic, err := br.ReadBits(magicBits)
	if err != nil {
		errors.PanicEOF(err, ErrBadMagic)
	}
	errors.Assert(magic == Magic, ErrBadMagic)

	root := readTree(br)
	if internal.Debug {
		errors.Panic(checkTree(root))
	}
	return root
}

type decoder struct {
	br   huff.BitReader
	root Node
}

// next walks the tree from the root, one bit per step, until it reaches a
// leaf and returns the leaf's symbol. A root that is itself a leaf is
// returned without reading any bits.
// This function panics if an error occurs.
func (d *decoder) next() Symbol {
	n := d.root
	for {
		switch nn := n.(type) {
		case *Leaf:
			return nn.Sym
		case *Internal:
			if readBits(d.br, 1, ErrTruncated) == 0 {
				n = nn.Left
			} else {
				n = nn.Right
			}
		default:
			panic(errorf(errors.Internal, "invalid tree node"))
		}
	}
}

// Reader is an io.ReadCloser that decompresses a stream.
// The magic number and tree header are read on the first call to Read.
type Reader struct {
	InputOffset  int64 // Number of compressed bytes consumed
	OutputOffset int64 // Total number of bytes emitted from Read

	br  bitstream.Reader
	dec decoder
	err error
}

// NewReader creates a new Reader reading from r.
// The Reader buffers its input and may read past the end of the stream.
func NewReader(r io.Reader) *Reader {
	zr := new(Reader)
	zr.Reset(r)
	return zr
}

// Read decodes up to len(buf) bytes. It returns io.EOF after the EOF code.
func (zr *Reader) Read(buf []byte) (int, error) {
	if zr.err != nil {
		return 0, zr.err
	}

	var cnt int
	func() {
		defer errors.Recover(&zr.err)
		if zr.dec.root == nil {
			zr.dec = decoder{br: &zr.br, root: readHeader(&zr.br)}
		}
		for cnt < len(buf) {
			sym := zr.dec.next()
			if sym == EOF {
				zr.err = io.EOF
				return
			}
			buf[cnt] = byte(sym)
			cnt++
		}
	}()

	zr.InputOffset = zr.br.Offset()
	zr.OutputOffset += int64(cnt)
	return cnt, zr.err
}

// Close ends the stream. It reports the persistent error if decoding failed.
func (zr *Reader) Close() error {
	if zr.err == errClosed {
		return nil
	}
	if zr.err != nil && zr.err != io.EOF {
		return zr.err
	}
	zr.err = errClosed
	return nil
}

// Reset discards the Reader's state and makes it equivalent to the result
// of a call to NewReader, but reading from r instead.
func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{br: zr.br}
	zr.br.Reset(r)
}
