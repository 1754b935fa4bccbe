// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"bytes"
	"io"

	"github.com/dsnet/huff"
	"github.com/dsnet/huff/internal"
	"github.com/dsnet/huff/internal/bitstream"
	"github.com/dsnet/huff/internal/errors"
)

// Compress compresses everything readable from in and writes the stream to
// out, closing out on success.
//
// The input is scanned twice: once to count symbol frequencies and, after a
// single call to Rewind, once more to encode it.
func Compress(in huff.BitReadRewinder, out huff.BitWriteCloser) (err error) {
	defer errors.Recover(&err)

	cnts, err := CountSymbols(in)
	errors.Panic(err)
	root := BuildTree(&cnts)
	codes := buildCodes(root)

	writeBits(out, Magic, magicBits)
	writeTree(out, root)
	errors.Panic(in.Rewind())
	encodeBody(in, out, codes)
	return out.Close()
}

// CompressTree is like Compress, but encodes with a code tree the caller
// has already built, typically by BuildTree over the counts of the same
// input. The input is read once. Every byte value read from in must have a
// leaf in root, otherwise compression fails with an internal error.
func CompressTree(in huff.BitReader, out huff.BitWriteCloser, root Node) (err error) {
	defer errors.Recover(&err)

	if checkTree(root) != nil {
		return errorf(errors.Invalid, "invalid code tree")
	}
	codes := buildCodes(root)

	writeBits(out, Magic, magicBits)
	writeTree(out, root)
	encodeBody(in, out, codes)
	return out.Close()
}

func buildCodes(root Node) *CodeTable {
	codes := GenerateCodes(root)
	if internal.Debug {
		errors.Panic(checkTree(root))
		errors.Panic(checkCodes(codes))
	}
	return codes
}

// encodeBody writes the code of every 8-bit symbol read from br, followed by
// the code of EOF. This function panics if an error occurs.
func encodeBody(br huff.BitReader, bw huff.BitWriter, codes *CodeTable) {
	for {
		v, err := br.ReadBits(symBits)
		if err == io.EOF {
			break
		}
		errors.Panic(err)
		c := codes[v]
		errors.Assert(c != nil, errMissingCode)
		c.write(bw)
	}
	c := codes[EOF]
	errors.Assert(c != nil, errMissingCode)
	c.write(bw)
}

// WriterConfig configures the Writer.
// The zero value is valid and uses defaults.
type WriterConfig struct {
	// MaxBufferSize limits the number of input bytes the Writer will buffer.
	// Writes beyond the limit fail with ErrBufferLimit. Zero means no limit.
	MaxBufferSize int64
}

// Writer is an io.WriteCloser that compresses everything written to it.
//
// Since the code tree depends on the whole input, the Writer buffers all
// data in memory and only produces output when Close is called.
type Writer struct {
	InputOffset  int64 // Total number of bytes passed to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	wr   io.Writer
	conf WriterConfig
	buf  bytes.Buffer
	bw   bitstream.Writer
	err  error
}

// NewWriter creates a new Writer writing to w.
// If conf is nil, default settings are used.
func NewWriter(w io.Writer, conf *WriterConfig) (*Writer, error) {
	zw := new(Writer)
	if conf != nil {
		zw.conf = *conf
	}
	if zw.conf.MaxBufferSize < 0 {
		return nil, errorf(errors.Invalid, "negative buffer size")
	}
	zw.Reset(w)
	return zw, nil
}

// Write buffers buf for compression.
func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}
	if max := zw.conf.MaxBufferSize; max > 0 && int64(zw.buf.Len()+len(buf)) > max {
		zw.err = ErrBufferLimit
		return 0, zw.err
	}
	cnt, _ := zw.buf.Write(buf)
	zw.InputOffset += int64(cnt)
	return cnt, nil
}

// Close compresses all buffered data and flushes it to the underlying
// io.Writer. It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == errClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}

	zw.bw.Reset(zw.wr)
	in := bitstream.NewReader(bytes.NewReader(zw.buf.Bytes()))
	zw.err = Compress(in, &zw.bw)
	zw.OutputOffset = zw.bw.BytesWritten()
	if zw.err != nil {
		return zw.err
	}
	zw.buf.Reset()
	zw.err = errClosed
	return nil
}

// Reset discards the Writer's state and makes it equivalent to the result
// of a call to NewWriter, but writing to w instead. The configuration is kept.
func (zw *Writer) Reset(w io.Writer) {
	*zw = Writer{
		wr:   w,
		conf: zw.conf,
		buf:  zw.buf,
		bw:   zw.bw,
	}
	zw.buf.Reset()
}
