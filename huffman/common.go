// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffman implements a two-pass Huffman compressed data format that
// stores its code tree in the stream header.
//
// A compressed stream is a sequence of bits, most-significant bit first:
//
//	Magic   32 bits  0xface8201
//	Tree    preorder tree description (see WriteTree)
//	Body    the code of every input byte, followed by the code of EOF
//	Pad     zero bits up to the next byte boundary
//
// The code tree is built from the byte frequencies of the whole input, so
// compression reads its input twice. The Writer buffers its input in memory
// for this reason.
package huffman

import (
	"github.com/dsnet/huff"
	"github.com/dsnet/huff/internal/errors"
)

// Symbol is a value of the code alphabet: a byte value or EOF.
type Symbol uint16

// Magic identifies the tree-header variant of the format.
const Magic = 0xface8201

const (
	magicBits = 32
	symBits   = 8           // Width of an input symbol
	valBits   = symBits + 1 // Width of a leaf value in the tree header
)

// EOF is the end-of-stream sentinel. It occurs exactly once in every
// stream and terminates the body.
const EOF Symbol = 1 << symBits

// NumSymbols is the size of the alphabet, including EOF.
const NumSymbols = int(EOF) + 1

// maxDepth is the deepest leaf possible in a tree of NumSymbols leaves.
const maxDepth = NumSymbols - 1

func errorf(c int, msg string) error {
	return errors.Error{Code: c, Pkg: "huffman", Msg: msg}
}

var (
	ErrBadMagic      = errorf(errors.Corrupted, "bad magic number")
	ErrCorruptHeader = errorf(errors.Corrupted, "tree header is corrupted")
	ErrTruncated     = errorf(errors.Corrupted, "stream ended before end-of-stream marker")
	ErrBufferLimit   = errorf(errors.Invalid, "input exceeds buffer limit")

	errMissingCode = errorf(errors.Internal, "symbol has no code")
	errClosed      = errorf(errors.Closed, "")
)

// readBits reads n bits from br, panicking with err if the input runs out.
func readBits(br huff.BitReader, n uint8, eof error) uint64 {
	v, err := br.ReadBits(n)
	if err != nil {
		errors.PanicEOF(err, eof)
	}
	return v
}

// writeBits writes the low n bits of v to bw.
// This function panics if an error occurs.
func writeBits(bw huff.BitWriter, v uint64, n uint8) {
	errors.Panic(bw.WriteBits(v, n))
}

