// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitstream implements the bit-level input and output ports used by
// the codec on top of ordinary byte streams.
//
// Bits are packed most-significant bit first: the first bit written becomes
// bit 7 of the first byte. A trailing partial byte is padded with zero bits.
package bitstream

import (
	"bufio"
	"io"

	"github.com/icza/bitio"

	"github.com/dsnet/huff/internal/errors"
)

var errNoSeek error = errors.Error{Code: errors.Invalid, Pkg: "bitstream", Msg: "input does not support rewind"}

type countReader struct {
	R io.Reader
	N int64 // Number of bytes read from R
}

func (cr *countReader) Read(buf []byte) (int, error) {
	n, err := cr.R.Read(buf)
	cr.N += int64(n)
	return n, err
}

type countWriter struct {
	W io.Writer
	N int64 // Number of bytes written to W
}

func (cw *countWriter) Write(buf []byte) (int, error) {
	n, err := cw.W.Write(buf)
	cw.N += int64(n)
	return n, err
}

// Reader is a huff.BitReadRewinder over an io.Reader.
//
// The Reader buffers its input, so it may consume more bytes from the
// underlying reader than the bits it has handed out.
type Reader struct {
	rd    io.Reader
	start int64 // Offset of rd when the Reader was reset
	seek  bool  // Whether rd can be rewound

	cr    countReader
	bufRd *bufio.Reader
	br    *bitio.Reader
}

// NewReader creates a new Reader reading from r.
func NewReader(r io.Reader) *Reader {
	br := new(Reader)
	br.Reset(r)
	return br
}

// Reset discards the Reader's state and makes it equivalent to the result
// of a call to NewReader, but reading from r instead.
func (br *Reader) Reset(r io.Reader) {
	*br = Reader{rd: r, bufRd: br.bufRd}
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			br.start, br.seek = off, true
		}
	}
	br.init()
}

func (br *Reader) init() {
	br.cr = countReader{R: br.rd}
	if br.bufRd == nil {
		br.bufRd = bufio.NewReader(&br.cr)
	} else {
		br.bufRd.Reset(&br.cr)
	}
	br.br = bitio.NewReader(br.bufRd)
}

// ReadBits reads n bits, most-significant bit first.
// Running out of input part way through a request is reported as io.EOF.
func (br *Reader) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := br.br.ReadBits(n)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return v, err
}

// Rewind returns the Reader to the position the underlying reader was at
// when the Reader was created. The underlying reader must be an io.Seeker.
func (br *Reader) Rewind() error {
	if !br.seek {
		return errNoSeek
	}
	if _, err := br.rd.(io.Seeker).Seek(br.start, io.SeekStart); err != nil {
		return err
	}
	br.init()
	return nil
}

// Offset reports the number of input bytes whose bits have been at least
// partially consumed since the last Reset or Rewind.
func (br *Reader) Offset() int64 {
	return br.cr.N - int64(br.bufRd.Buffered())
}

// Writer is a huff.BitWriteCloser over an io.Writer.
// Closing the Writer flushes it, but does not close the underlying writer.
type Writer struct {
	cw    countWriter
	bufWr *bufio.Writer
	bw    *bitio.Writer
}

// NewWriter creates a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	bw := new(Writer)
	bw.Reset(w)
	return bw
}

// Reset discards the Writer's state and makes it equivalent to the result
// of a call to NewWriter, but writing to w instead.
func (bw *Writer) Reset(w io.Writer) {
	bw.cw = countWriter{W: w}
	if bw.bufWr == nil {
		bw.bufWr = bufio.NewWriter(&bw.cw)
	} else {
		bw.bufWr.Reset(&bw.cw)
	}
	bw.bw = bitio.NewWriter(bw.bufWr)
}

// WriteBits writes the low n bits of v, most-significant bit first.
func (bw *Writer) WriteBits(v uint64, n uint8) error {
	if n == 0 {
		return nil
	}
	if n < 64 {
		v &= 1<<n - 1
	}
	return bw.bw.WriteBits(v, n)
}

// Close pads the final partial byte with zero bits and flushes all
// buffered data to the underlying writer.
func (bw *Writer) Close() error {
	if err := bw.bw.Close(); err != nil {
		return err
	}
	return bw.bufWr.Flush()
}

// BytesWritten reports the number of bytes flushed to the underlying writer.
func (bw *Writer) BytesWritten() int64 {
	return bw.cw.N
}
