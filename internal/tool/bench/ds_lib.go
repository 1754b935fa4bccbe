// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ds_lib
// +build !no_ds_lib

package bench

import (
	"io"

	"github.com/dsnet/huff/huffman"
)

func init() {
	RegisterEncoder("ds",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := huffman.NewWriter(w, nil)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("ds",
		func(r io.Reader) io.ReadCloser {
			return huffman.NewReader(r)
		})
}
