// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"io"

	"github.com/dsnet/huff"
)

// Counts is a frequency table indexed by Symbol.
type Counts [NumSymbols]uint64

// CountSymbols reads 8-bit symbols from br until io.EOF and returns the
// number of occurrences of each. The count of EOF is always 1.
func CountSymbols(br huff.BitReader) (cnts Counts, err error) {
	cnts[EOF] = 1
	for {
		v, err := br.ReadBits(symBits)
		if err == io.EOF {
			return cnts, nil
		}
		if err != nil {
			return cnts, err
		}
		cnts[v]++
	}
}

// Total reports the number of input bytes counted, excluding EOF.
func (c *Counts) Total() (n uint64) {
	for _, cnt := range c[:EOF] {
		n += cnt
	}
	return n
}
