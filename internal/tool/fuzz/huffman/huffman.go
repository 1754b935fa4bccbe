// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package huffman

import (
	"bytes"
	"io/ioutil"

	ihuffman "github.com/icza/huffman"

	"github.com/dsnet/huff"
	"github.com/dsnet/huff/huffman"
	"github.com/dsnet/huff/internal/bitstream"
)

func Fuzz(data []byte) int {
	_, ok := testDecoders(data)
	testEncoders(data)
	testOptimal(data)
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoders tests that the streaming Reader and Decompress agree on the
// input. Both may reject it, but only as corrupted.
func testDecoders(data []byte) ([]byte, bool) {
	zr := huffman.NewReader(bytes.NewReader(data))
	rb, rerr := ioutil.ReadAll(zr)

	var buf bytes.Buffer
	derr := huffman.Decompress(bitstream.NewReader(bytes.NewReader(data)), bitstream.NewWriter(&buf))

	switch {
	case rerr == nil && derr == nil:
		if !bytes.Equal(rb, buf.Bytes()) {
			panic("mismatching bytes")
		}
		if err := zr.Close(); err != nil {
			panic(err)
		}
		return rb, true
	case rerr != nil && derr != nil:
		if rerr != derr {
			panic("mismatching errors")
		}
		if err, ok := rerr.(huff.Error); !ok || !err.IsCorrupted() {
			panic(rerr)
		}
		return nil, false
	default:
		panic("decoders disagree")
	}
}

// testEncoders tests that the Writer and Compress produce the same stream,
// and that the stream decodes back to the input.
func testEncoders(data []byte) {
	var bw bytes.Buffer
	zw, err := huffman.NewWriter(&bw, nil)
	if err != nil {
		panic(err)
	}
	n, err := zw.Write(data)
	if n != len(data) || err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}

	var bc bytes.Buffer
	in := bitstream.NewReader(bytes.NewReader(data))
	if err := huffman.Compress(in, bitstream.NewWriter(&bc)); err != nil {
		panic(err)
	}
	if !bytes.Equal(bw.Bytes(), bc.Bytes()) {
		panic("mismatching streams")
	}

	b, ok := testDecoders(bc.Bytes())
	if !ok {
		panic("decoder error")
	}
	if !bytes.Equal(b, data) {
		panic("mismatching bytes")
	}
}

// testOptimal tests that the code tree is as good as one built by an
// independent Huffman implementation.
func testOptimal(data []byte) {
	cnts, err := huffman.CountSymbols(bitstream.NewReader(bytes.NewReader(data)))
	if err != nil {
		panic(err)
	}

	var leaves []*ihuffman.Node
	var syms []int
	for sym, cnt := range cnts {
		if cnt > 0 {
			leaves = append(leaves, &ihuffman.Node{Value: ihuffman.ValueType(sym), Count: int(cnt)})
			syms = append(syms, sym)
		}
	}
	refs := append([]*ihuffman.Node(nil), leaves...)
	ihuffman.Build(leaves)

	var want uint64
	for i, n := range refs {
		_, nb := n.Code()
		want += cnts[syms[i]] * uint64(nb)
	}
	codes := huffman.GenerateCodes(huffman.BuildTree(&cnts))
	if got := codes.BitLen(&cnts); got != want {
		panic("suboptimal code tree")
	}
}
