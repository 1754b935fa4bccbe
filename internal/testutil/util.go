// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testutil is a collection of testing helper methods.
package testutil

import (
	"bytes"
	"encoding/hex"
	"io"
)

// ResizeData resizes the input. If n < 0, then the original input will be
// returned as is. If n <= len(input), then the input slice will be truncated.
// However, if n > len(input), then the input will be replicated to fill in
// the missing bytes.
//
// If n > len(input), then len(input) must be > 0.
func ResizeData(input []byte, n int) []byte {
	if n < 0 {
		return input
	}
	if len(input) >= n {
		return input[:n]
	}
	if len(input) == 0 {
		panic("unable to replicate an empty string")
	}
	output := make([]byte, n)
	for i := range output {
		output[i] = input[i%len(input)]
	}
	return output
}

// MustDecodeHex must decode a hexadecimal string or else panics.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MustDecodeBitGen must decode a BitGen formatted string or else panics.
func MustDecodeBitGen(s string) []byte {
	b, err := DecodeBitGen(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesCompare compares inputs a and b and reports whether they are equal.
// If they are not equal, it returns two one-line hexadecimal strings showing
// the neighborhood of the first difference.
func BytesCompare(a, b []byte) (sa, sb string, ok bool) {
	if bytes.Equal(a, b) {
		return "", "", true
	}

	const context = 8
	var i int
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	lo := i - context
	if lo < 0 {
		lo = 0
	}
	clip := func(x []byte) string {
		hi := i + context
		if hi > len(x) {
			hi = len(x)
		}
		s := hex.EncodeToString(x[lo:hi])
		if lo > 0 {
			s = "..." + s
		}
		if hi < len(x) {
			s += "..."
		}
		return s
	}
	return clip(a), clip(b), false
}

// BuggyReader returns Err after N bytes have been read from R.
type BuggyReader struct {
	R   io.Reader
	N   int64 // Number of valid bytes to read
	Err error // Return this error after N bytes
}

func (br *BuggyReader) Read(buf []byte) (int, error) {
	if int64(len(buf)) > br.N {
		buf = buf[:br.N]
	}
	n, err := br.R.Read(buf)
	br.N -= int64(n)
	if err == nil && br.N <= 0 {
		return n, br.Err
	}
	return n, err
}

// BuggyWriter returns Err after N bytes have been written to W.
type BuggyWriter struct {
	W   io.Writer
	N   int64 // Number of valid bytes to write
	Err error // Return this error after N bytes
}

func (bw *BuggyWriter) Write(buf []byte) (int, error) {
	if int64(len(buf)) > bw.N {
		buf = buf[:bw.N]
	}
	n, err := bw.W.Write(buf)
	bw.N -= int64(n)
	if err == nil && bw.N <= 0 {
		return n, bw.Err
	}
	return n, err
}
