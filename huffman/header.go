// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"github.com/dsnet/huff"
	"github.com/dsnet/huff/internal/errors"
)

// The tree header is a preorder description of the code tree:
//
//	Internal node:  0 <left subtree> <right subtree>
//	Leaf:           1 <9-bit symbol value>
//
// The grammar is self-delimiting, so no length or end marker is needed.
// Weights are not stored.

// WriteTree writes the preorder description of the tree rooted at root.
func WriteTree(bw huff.BitWriter, root Node) (err error) {
	defer errors.Recover(&err)
	writeTree(bw, root)
	return nil
}

func writeTree(bw huff.BitWriter, root Node) {
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := n.(type) {
		case *Leaf:
			writeBits(bw, 1, 1)
			writeBits(bw, uint64(n.Sym), valBits)
		case *Internal:
			writeBits(bw, 0, 1)
			stack = append(stack, n.Right, n.Left)
		default:
			panic(errorf(errors.Internal, "invalid tree node"))
		}
	}
}

// ReadTree reads a tree written by WriteTree.
//
// Besides running out of input, ReadTree rejects trees that could never have
// been produced by the encoder: leaf values above EOF, duplicate symbols,
// trees deeper than the alphabet allows, and trees without an EOF leaf.
// All such failures are reported as ErrCorruptHeader.
func ReadTree(br huff.BitReader) (root Node, err error) {
	defer errors.Recover(&err)
	return readTree(br), nil
}

func readTree(br huff.BitReader) Node {
	// Internal nodes whose children are still being read.
	type frame struct {
		node   *Internal
		filled int
	}

	var root Node
	var seen [NumSymbols]bool
	var stack []frame
	for {
		var n Node
		if readBits(br, 1, ErrCorruptHeader) == 1 {
			sym := readBits(br, valBits, ErrCorruptHeader)
			errors.Assert(sym <= uint64(EOF) && !seen[sym], ErrCorruptHeader)
			seen[sym] = true
			n = &Leaf{Sym: Symbol(sym)}
		} else {
			errors.Assert(len(stack) < maxDepth, ErrCorruptHeader)
			n = &Internal{}
		}

		if len(stack) == 0 {
			root = n
		} else {
			top := &stack[len(stack)-1]
			if top.filled == 0 {
				top.node.Left = n
			} else {
				top.node.Right = n
			}
			top.filled++
		}
		if in, ok := n.(*Internal); ok {
			stack = append(stack, frame{node: in})
		}

		for len(stack) > 0 && stack[len(stack)-1].filled == 2 {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			break
		}
	}

	errors.Assert(seen[EOF], ErrCorruptHeader)
	return root
}
