// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huff is a collection of interfaces shared by the tree-header
// Huffman codec and the bit streams it runs over.
//
// The codec itself lives in the huffman sub-package. It only ever talks to
// its input and output through the bit ports defined here, which makes it
// easy to drive from in-memory buffers, files, or custom transports.
package huff

import "io"

// The Error interface identifies all compression related errors.
type Error interface {
	error
	HuffError()

	// IsInternal reports whether the error is an internal inconsistency in
	// the library and indicates a bug.
	IsInternal() bool

	// IsInvalid reports whether the caller misused the API, such as by
	// requesting a rewind on an input that cannot seek.
	IsInvalid() bool

	// IsCorrupted reports whether the input stream was malformed.
	IsCorrupted() bool

	// IsClosed reports whether the stream was already closed.
	IsClosed() bool
}

// BitReader is a sequential source of bits.
//
// ReadBits reads n bits (n <= 64) with the most-significant bit first and
// returns them in the low bits of the result. It returns io.EOF when the
// source cannot provide the requested bits.
type BitReader interface {
	ReadBits(n uint8) (uint64, error)
}

// Rewinder is implemented by inputs that can restart from the position at
// which they were first opened.
type Rewinder interface {
	Rewind() error
}

// BitReadRewinder is the input port needed for compression, which scans the
// input twice.
type BitReadRewinder interface {
	BitReader
	Rewinder
}

// BitWriter is a sequential sink of bits.
//
// WriteBits writes the low n bits (n <= 64) of v with the most-significant
// bit first.
type BitWriter interface {
	WriteBits(v uint64, n uint8) error
}

// BitWriteCloser is a BitWriter that must be finalized. Close pads any
// partial byte with zero bits and flushes it.
type BitWriteCloser interface {
	BitWriter
	io.Closer
}
