// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"fmt"
	"strings"

	"github.com/dsnet/huff"
	"github.com/dsnet/huff/internal/errors"
)

// Code is the bit sequence identifying a symbol: the path from the root of
// the code tree to the symbol's leaf. Bits are stored most-significant bit
// first in Val, and only the first Len bits are meaningful.
type Code struct {
	Len int
	Val [(maxDepth + 63) / 64]uint64
}

// Bit returns the i-th bit of the code.
func (c Code) Bit(i int) uint {
	return uint(c.Val[i/64]>>(63-uint(i%64))) & 1
}

func (c *Code) appendBit(b uint) {
	if b != 0 {
		c.Val[c.Len/64] |= 1 << (63 - uint(c.Len%64))
	}
	c.Len++
}

// HasPrefix reports whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	if p.Len > c.Len {
		return false
	}
	for i := 0; i < p.Len; i++ {
		if c.Bit(i) != p.Bit(i) {
			return false
		}
	}
	return true
}

func (c Code) String() string {
	var sb strings.Builder
	for i := 0; i < c.Len; i++ {
		sb.WriteByte(byte('0' + c.Bit(i)))
	}
	return sb.String()
}

// write emits the code to bw, 64 bits at a time.
// This function panics if an error occurs.
func (c *Code) write(bw huff.BitWriter) {
	for i, n := 0, c.Len; n > 0; i, n = i+1, n-64 {
		k := n
		if k > 64 {
			k = 64
		}
		writeBits(bw, c.Val[i]>>uint(64-k), uint8(k))
	}
}

// CodeTable maps each symbol to its code. Absent symbols have a nil entry.
type CodeTable [NumSymbols]*Code

// GenerateCodes walks the tree and records the path to every leaf.
//
// If the root itself is a leaf, its symbol gets a code of zero length.
func GenerateCodes(root Node) *CodeTable {
	type frame struct {
		node Node
		code Code
	}

	codes := new(CodeTable)
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := f.node.(type) {
		case *Leaf:
			c := f.code
			codes[n.Sym] = &c
		case *Internal:
			l, r := f.code, f.code
			l.appendBit(0)
			r.appendBit(1)
			stack = append(stack, frame{n.Right, r}, frame{n.Left, l})
		}
	}
	return codes
}

// BitLen reports the number of body bits needed to encode symbols with the
// given frequencies, including the EOF code.
func (ct *CodeTable) BitLen(cnts *Counts) (n uint64) {
	for sym, cnt := range cnts {
		if c := ct[sym]; c != nil {
			n += cnt * uint64(c.Len)
		}
	}
	return n
}

func (ct *CodeTable) String() string {
	var ss []string
	ss = append(ss, "{")
	for sym, c := range ct {
		if c == nil {
			continue
		}
		name := fmt.Sprintf("%q", rune(sym))
		if Symbol(sym) == EOF {
			name = "EOF"
		}
		ss = append(ss, fmt.Sprintf("\t%3d %-6s %3d  %v,", sym, name, c.Len, c))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

// checkCodes verifies that no code in the table is a prefix of another.
func checkCodes(ct *CodeTable) error {
	for i, ci := range ct {
		for j, cj := range ct {
			if i == j || ci == nil || cj == nil {
				continue
			}
			if cj.HasPrefix(*ci) {
				return errorf(errors.Internal, fmt.Sprintf("code of symbol %d is a prefix of symbol %d", i, j))
			}
		}
	}
	return nil
}
