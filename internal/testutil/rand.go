// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand implements a deterministic pseudo-random number generator.
// This differs from the math.Rand in that the exact output will be consistent
// across different versions of Go.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func NewRand(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

func (r *Rand) Int() int {
	r.Encrypt(r.blk[:], r.blk[:])
	return int(binary.LittleEndian.Uint64(r.blk[:]) >> 2)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

func (r *Rand) Bytes(n int) []byte {
	b := make([]byte, n)
	bb := b
	for len(bb) > 0 {
		r.Encrypt(r.blk[:], r.blk[:])
		cnt := copy(bb, r.blk[:])
		bb = bb[cnt:]
	}
	return b
}

// Skewed returns n bytes drawn from the first k byte values, where smaller
// values are much more likely than larger ones. Such data has a wide spread
// of symbol frequencies and therefore deep, uneven code trees.
func (r *Rand) Skewed(n, k int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.Intn(r.Intn(k) + 1))
	}
	return b
}

// Counts returns n random symbol counts. About half of them are zero and
// the rest are spread over several orders of magnitude.
func (r *Rand) Counts(n int) []uint64 {
	cnts := make([]uint64, n)
	for i := range cnts {
		if r.Intn(2) == 0 {
			cnts[i] = uint64(1 + r.Intn(1<<uint(r.Intn(20))))
		}
	}
	return cnts
}
