// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string.
//
// The BitGen format allows bit-streams to be generated from a series of tokens
// describing bits in the resulting string. It is designed for testing by
// aiding a human in the manual scripting of compressed streams from individual
// bit-strings, while allowing comments to record authorial intent.
//
// Bits are packed most-significant bit first: the first bit of the stream
// is bit 7 of the first byte.
//
// The format consists of a series of tokens separated by white space of any
// kind. The '#' character is used for commenting. Thus, any bytes on a given
// line that appear after the '#' character is ignored.
//
// A token of the pattern "[01]{1,64}" forms a bit-string (e.g. 11010), which
// is written to the stream from left to right.
//
// A token of the form "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}"
// represents either a decimal value or a hexadecimal value, respectively.
// The first number is the bit-length (0 to 64) and the second is the value,
// which must fit in that many bits. The value is written most-significant
// bit first.
//
// A token of the pattern "X:[0-9a-fA-F]+" represents literal bytes in
// hexadecimal format. It may only be used when the bit-stream is byte-aligned.
//
// A token decorator of the pattern "[*][0-9]+" may trail any token. This is
// a quantifier decorator which indicates that the current token is to be
// repeated some number of times.
//
// If the total bit-stream does not end on a byte-aligned edge, then the stream
// will automatically be padded up to the nearest byte with 0 bits.
//
// Example BitGen string:
//
//	H32:face8201        # Magic
//	0 1 D9:256 1 D9:97  # Tree: {EOF, 'a'}
//	1*3 0               # Body: "aaa", EOF
//
// Generated output stream (in hexadecimal):
//
//	"face820160130f00"
func DecodeBitGen(str string) ([]byte, error) {
	// Tokenize the input string by removing comments and superfluous spaces.
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var bw bitBuffer
	for _, t := range toks {
		// Check for quantifier decorators.
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			tt, tn := t[:i], t[i+1:]
			n, err := strconv.Atoi(tn)
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = tt, n
		}

		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v <<= 1
				v |= uint64(b - '0')
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(len(t)))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}

			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(n))
			}
		case reRaw.MatchString(t):
			b, err := hex.DecodeString(t[2:])
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			if _, err := bw.Write(bytes.Repeat(b, rep)); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
	}
	return bw.Bytes(), nil
}

// bitBuffer is a minimal MSB-first bit writer.
// This is implemented here to avoid depending on the package under test.
type bitBuffer struct {
	b []byte
	n uint // Number of bits used in the last byte; 0 if aligned
}

func (b *bitBuffer) Write(buf []byte) (int, error) {
	if b.n != 0 {
		return 0, errors.New("testutil: unaligned write")
	}
	b.b = append(b.b, buf...)
	return len(buf), nil
}

func (b *bitBuffer) WriteBits64(v uint64, n uint) {
	for i := n; i > 0; i-- {
		if b.n == 0 {
			b.b = append(b.b, 0x00)
		}
		if v&(1<<(i-1)) != 0 {
			b.b[len(b.b)-1] |= 0x80 >> b.n
		}
		b.n = (b.n + 1) % 8
	}
}

func (b *bitBuffer) Bytes() []byte {
	return b.b
}
