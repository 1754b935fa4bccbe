// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore
// +build ignore

// Generates the benchmark corpus. Each file stresses the Huffman codec
// differently:
//
//	zeros.bin    A single byte value; the smallest possible tree.
//	random.bin   Uniform bytes; every code is about 8 bits and nothing is saved.
//	skewed.bin   Geometrically distributed bytes; a deep and lopsided tree.
//	text.txt     Words drawn from a Zipf distribution; typical of prose.
//	repeats.bin  Random data copied from earlier positions; favors LZ77
//	             based codecs over prefix coding alone.
//
// Example usage:
//
//	$ go run gen.go -o . -size 256Ki
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/golib/unitconv"
)

var generators = map[string]func(r *rand.Rand, n int) []byte{
	"zeros.bin":   genZeros,
	"random.bin":  genRandom,
	"skewed.bin":  genSkewed,
	"text.txt":    genText,
	"repeats.bin": genRepeats,
}

func main() {
	out := flag.String("o", ".", "Output directory")
	size := flag.String("size", "256Ki", "Size of each generated file")
	flag.Parse()

	n, err := unitconv.ParsePrefix(*size, unitconv.AutoParse)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "gen: invalid size: %q\n", *size)
		os.Exit(1)
	}

	for name, gen := range generators {
		b := gen(rand.New(rand.NewSource(0)), int(n))
		if err := ioutil.WriteFile(filepath.Join(*out, name), b, 0664); err != nil {
			fmt.Fprintf(os.Stderr, "gen: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\n", name, unitconv.FormatPrefix(float64(len(b)), unitconv.Base1024, 2))
	}
}

func genZeros(r *rand.Rand, n int) []byte {
	return make([]byte, n)
}

func genRandom(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

func genSkewed(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		v := int(r.ExpFloat64() * 8)
		if v > 255 {
			v = 255
		}
		b[i] = byte(v)
	}
	return b
}

func genText(r *rand.Rand, n int) []byte {
	const letters = "etaoinshrdlcumwfgypbvkjxqz"
	words := make([]string, 1000)
	for i := range words {
		l := 1 + r.Intn(8)
		var sb strings.Builder
		for j := 0; j < l; j++ {
			sb.WriteByte(letters[int(r.ExpFloat64()*5)%len(letters)])
		}
		words[i] = sb.String()
	}

	z := rand.NewZipf(r, 1.1, 1, uint64(len(words)-1))
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(words[z.Uint64()])
		if r.Intn(12) == 0 {
			sb.WriteString(".\n")
		} else {
			sb.WriteByte(' ')
		}
	}
	return []byte(sb.String()[:n])
}

func genRepeats(r *rand.Rand, n int) []byte {
	// Lengths and distances are drawn from power-of-two buckets.
	bucket := func(lo, hi uint) int {
		s := lo + uint(r.Intn(int(hi-lo)))
		return 1<<s + r.Intn(1<<s)
	}

	b := make([]byte, 0, n+512)
	for len(b) < n {
		l := bucket(2, 9)
		if len(b) < 64 || r.Intn(10) == 0 {
			for i := 0; i < l; i++ {
				b = append(b, byte(r.Int()))
			}
			continue
		}
		d := bucket(0, 15)
		if d > len(b) {
			d = len(b)
		}
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}
	return b[:n]
}
