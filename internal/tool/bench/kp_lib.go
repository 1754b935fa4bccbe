// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_kp_lib
// +build !no_kp_lib

package bench

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

func init() {
	RegisterEncoder("kp-flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("kp-flate",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	RegisterEncoder("kp-zstd",
		func(w io.Writer, lvl int) io.WriteCloser {
			// Flate levels 1..9 roughly map onto zstd levels 1..9.
			zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(lvl)))
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("kp-zstd",
		func(r io.Reader) io.ReadCloser {
			zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
			if err != nil {
				panic(err)
			}
			return zr.IOReadCloser()
		})
}
