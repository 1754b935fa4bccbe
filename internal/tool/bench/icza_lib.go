// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_icza_lib
// +build !no_icza_lib

package bench

import (
	"io"
	"io/ioutil"

	"github.com/icza/huffman/hufio"
)

func init() {
	RegisterEncoder("icza",
		func(w io.Writer, lvl int) io.WriteCloser {
			return hufio.NewWriter(w)
		})
	RegisterDecoder("icza",
		func(r io.Reader) io.ReadCloser {
			return ioutil.NopCloser(hufio.NewReader(r))
		})
}
