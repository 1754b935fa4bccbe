// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"bytes"
	"io"
	"io/ioutil"
	"runtime"
	"testing"

	"github.com/dsnet/huff/internal/bitstream"
	"github.com/dsnet/huff/internal/errors"
	"github.com/dsnet/huff/internal/testutil"
)

var errBuggy = errorf(errors.Unknown, "buggy I/O")

// compressBytes compresses input with Compress over in-memory bit ports.
func compressBytes(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	in := bitstream.NewReader(bytes.NewReader(input))
	if err := Compress(in, bitstream.NewWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var decompressVectors = func() []struct {
	desc   string // Description of the test
	input  []byte // Test input string
	output []byte // Expected output string
	inIdx  int64  // Expected input offset after reading
	err    error  // Expected error
} {
	db := testutil.MustDecodeBitGen
	dh := testutil.MustDecodeHex

	return []struct {
		desc   string
		input  []byte
		output []byte
		inIdx  int64
		err    error
	}{{
		desc: "empty string",
		err:  ErrBadMagic,
	}, {
		desc:  "short magic",
		input: db("H16:face"),
		inIdx: 2,
		err:   ErrBadMagic,
	}, {
		desc:  "bad magic",
		input: db("H32:face8200 1 D9:256"),
		inIdx: 4,
		err:   ErrBadMagic,
	}, {
		desc:  "magic only",
		input: db("H32:face8201"),
		inIdx: 4,
		err:   ErrCorruptHeader,
	}, {
		desc: "empty stream",
		input: db(`
			H32:face8201 # Magic
			1 D9:256     # Tree: EOF
		`),
		inIdx: 6,
	}, {
		desc: "three A's",
		input: db(`
			H32:face8201        # Magic
			0 1 D9:256 1 D9:65  # Tree: {EOF, 'A'}
			1 1 1               # Body: "AAA"
			0                   # EOF
		`),
		output: []byte("AAA"),
		inIdx:  8,
	}, {
		desc: "trailing bytes are ignored",
		input: db(`
			H32:face8201        # Magic
			0 1 D9:256 1 D9:65  # Tree: {EOF, 'A'}
			1 1 1 0             # Body: "AAA", EOF
			0*7                 # Padding
			X:deadbeef          # Trailing junk
		`),
		output: []byte("AAA"),
		inIdx:  8,
	}, {
		desc: "truncated body",
		input: db(`
			H32:face8201        # Magic
			0 1 D9:65 1 D9:256  # Tree: {'A', EOF}
			0 0 0               # Body: "AAA"
		`),
		output: []byte("AAA"),
		inIdx:  7,
		err:    ErrTruncated,
	}, {
		desc: "corrupted tree",
		input: db(`
			H32:face8201        # Magic
			0 1 D9:65 1 D9:66   # Tree without EOF
			0 1 0 1
		`),
		inIdx: 7,
		err:   ErrCorruptHeader,
	}, {
		desc: "deepest tree",
		input: db(`
			H32:face8201  # Magic
		` + chainBitGen() + `
			1*255 0       # Body: 0xff
			0             # Body: 0x00
			1*256         # EOF
		`),
		output: dh("ff00"),
		inIdx:  4 + (257*10+256+256+1+256+7)/8,
	}}
}()

func TestDecompress(t *testing.T) {
	for _, v := range decompressVectors {
		var buf bytes.Buffer
		bw := bitstream.NewWriter(&buf)
		err := Decompress(bitstream.NewReader(bytes.NewReader(v.input)), bw)
		if err != v.err {
			t.Errorf("test %q, mismatching error: got %v, want %v", v.desc, err, v.err)
		}
		if err != nil {
			if !errors.IsCorrupted(err) {
				t.Errorf("test %q, IsCorrupted(%v) = false, want true", v.desc, err)
			}
			bw.Close() // Flush partial output
		}
		output := buf.Bytes()
		if got, want, ok := testutil.BytesCompare(output, v.output); !ok {
			t.Errorf("test %q, mismatching output:\ngot  %s\nwant %s", v.desc, got, want)
		}
	}
}

func TestReader(t *testing.T) {
	for _, v := range decompressVectors {
		rd := NewReader(bytes.NewReader(v.input))
		output, err := ioutil.ReadAll(rd)
		if err != v.err {
			t.Errorf("test %q, mismatching error: got %v, want %v", v.desc, err, v.err)
		}
		if got, want, ok := testutil.BytesCompare(output, v.output); !ok {
			t.Errorf("test %q, mismatching output:\ngot  %s\nwant %s", v.desc, got, want)
		}
		if rd.InputOffset != v.inIdx {
			t.Errorf("test %q, mismatching input offset: got %d, want %d", v.desc, rd.InputOffset, v.inIdx)
		}
		if rd.OutputOffset != int64(len(v.output)) {
			t.Errorf("test %q, mismatching output offset: got %d, want %d", v.desc, rd.OutputOffset, len(v.output))
		}

		// Close reports the decoding error and is idempotent afterwards.
		if err := rd.Close(); err != v.err {
			t.Errorf("test %q, mismatching Close error: got %v, want %v", v.desc, err, v.err)
		}
		if v.err == nil {
			if err := rd.Close(); err != nil {
				t.Errorf("test %q, second Close error: got %v, want nil", v.desc, err)
			}
			if _, err := rd.Read(make([]byte, 1)); !errors.IsClosed(err) {
				t.Errorf("test %q, Read after Close: got %v, want closed error", v.desc, err)
			}
		}
	}
}

func TestCompress(t *testing.T) {
	db := testutil.MustDecodeBitGen

	var vectors = []struct {
		desc   string
		input  []byte
		output []byte
	}{{
		desc: "empty input",
		output: db(`
			H32:face8201 # Magic
			1 D9:256     # Tree: EOF
		`),
	}, {
		desc:  "three A's",
		input: []byte("AAA"),
		output: db(`
			H32:face8201        # Magic
			0 1 D9:256 1 D9:65  # Tree: {EOF, 'A'}
			1 1 1 0             # Body: "AAA", EOF
		`),
	}, {
		desc:  "skewed",
		input: []byte("aaaaabbc"),
		output: db(`
			H32:face8201                            # Magic
			0 0 1 D9:98 0 1 D9:99 1 D9:256 1 D9:97  # Tree: {{'b', {'c', EOF}}, 'a'}
			1*5 00 00 010                           # Body: "aaaaabbc"
			011                                     # EOF
		`),
	}}

	for _, v := range vectors {
		output, err := compressBytes(v.input)
		if err != nil {
			t.Errorf("test %q, unexpected error: %v", v.desc, err)
			continue
		}
		if got, want, ok := testutil.BytesCompare(output, v.output); !ok {
			t.Errorf("test %q, mismatching output:\ngot  %s\nwant %s", v.desc, got, want)
		}
	}
}

func TestCompressNoRewind(t *testing.T) {
	// Hide the Seek method of the input.
	in := bitstream.NewReader(struct{ io.Reader }{bytes.NewReader([]byte("hello"))})
	err := Compress(in, bitstream.NewWriter(ioutil.Discard))
	if !errors.IsInvalid(err) {
		t.Errorf("Compress() = %v, want invalid argument error", err)
	}
}

func TestEncodeBodyMissingCode(t *testing.T) {
	codesAEOF := func() *CodeTable {
		return GenerateCodes(BuildTree(makeCounts(map[Symbol]uint64{'A': 1, EOF: 1})))
	}
	noEOF := codesAEOF()
	noEOF[EOF] = nil

	var vectors = []struct {
		desc  string
		codes *CodeTable
		input string
	}{
		{"byte value without code", codesAEOF(), "AB"},
		{"sentinel without code", noEOF, "A"},
		{"sentinel without code on empty input", noEOF, ""},
	}

	for _, v := range vectors {
		err := func() (err error) {
			defer errors.Recover(&err)
			in := bitstream.NewReader(bytes.NewReader([]byte(v.input)))
			encodeBody(in, bitstream.NewWriter(ioutil.Discard), v.codes)
			return nil
		}()
		if err != errMissingCode {
			t.Errorf("test %q, mismatching error: got %v, want %v", v.desc, err, errMissingCode)
		}
		if !errors.IsInternal(err) {
			t.Errorf("test %q, IsInternal(%v) = false, want true", v.desc, err)
		}
	}
}

func TestCompressTree(t *testing.T) {
	input := []byte("aaaaabbc")
	want, err := compressBytes(input)
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}

	// The input is only read once, so it need not be seekable.
	cnts, err := CountSymbols(bitstream.NewReader(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("unexpected CountSymbols error: %v", err)
	}
	var buf bytes.Buffer
	in := bitstream.NewReader(struct{ io.Reader }{bytes.NewReader(input)})
	if err := CompressTree(in, bitstream.NewWriter(&buf), BuildTree(&cnts)); err != nil {
		t.Fatalf("unexpected CompressTree error: %v", err)
	}
	if got, want, ok := testutil.BytesCompare(buf.Bytes(), want); !ok {
		t.Errorf("mismatching output:\ngot  %s\nwant %s", got, want)
	}

	var vectors = []struct {
		desc  string
		root  Node
		input string
		errf  func(error) bool
	}{
		{"byte value missing from tree", BuildTree(makeCounts(map[Symbol]uint64{'A': 3, EOF: 1})), "AB", errors.IsInternal},
		{"nil tree", nil, "", errors.IsInvalid},
		{"tree without sentinel", &Internal{Left: &Leaf{Sym: 'A'}, Right: &Leaf{Sym: 'B'}}, "AB", errors.IsInvalid},
		{"incomplete tree", &Internal{Left: &Leaf{Sym: EOF}}, "", errors.IsInvalid},
	}
	for _, v := range vectors {
		in := bitstream.NewReader(bytes.NewReader([]byte(v.input)))
		err := CompressTree(in, bitstream.NewWriter(ioutil.Discard), v.root)
		if err == nil || !v.errf(err) {
			t.Errorf("test %q, unexpected error: %v", v.desc, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rand := testutil.NewRand(4)
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	var vectors = []struct {
		desc  string
		input []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0x00}},
		{"degenerate alphabet", bytes.Repeat([]byte{0x41}, 1000)},
		{"short text", []byte("hello, world")},
		{"every byte value", all},
		{"random", rand.Bytes(1e4)},
		{"skewed", rand.Skewed(1e5, 64)},
		{"very skewed", rand.Skewed(1e5, 4)},
	}

	for _, v := range vectors {
		var buf bytes.Buffer
		wr, err := NewWriter(&buf, nil)
		if err != nil {
			t.Fatalf("test %q, NewWriter error: %v", v.desc, err)
		}
		cnt, err := io.Copy(wr, bytes.NewReader(v.input))
		if err != nil {
			t.Errorf("test %q, write error: got %v", v.desc, err)
		}
		if cnt != int64(len(v.input)) {
			t.Errorf("test %q, write count mismatch: got %d, want %d", v.desc, cnt, len(v.input))
		}
		if err := wr.Close(); err != nil {
			t.Errorf("test %q, close error: got %v", v.desc, err)
		}
		if wr.InputOffset != int64(len(v.input)) || wr.OutputOffset != int64(buf.Len()) {
			t.Errorf("test %q, offsets mismatch: got (%d, %d), want (%d, %d)",
				v.desc, wr.InputOffset, wr.OutputOffset, len(v.input), buf.Len())
		}

		// The output size is fully determined by the symbol frequencies.
		cnts, _ := CountSymbols(bitstream.NewReader(bytes.NewReader(v.input)))
		codes := GenerateCodes(BuildTree(&cnts))
		numLeaves := len(Leaves(BuildTree(&cnts)))
		bits := magicBits + uint64(11*numLeaves-1) + codes.BitLen(&cnts)
		if got, want := int64(buf.Len()), int64((bits+7)/8); got != want {
			t.Errorf("test %q, output size mismatch: got %d, want %d", v.desc, got, want)
		}

		// Compress and the Writer produce the same stream.
		output, err := compressBytes(v.input)
		if err != nil {
			t.Errorf("test %q, Compress error: %v", v.desc, err)
		}
		if !bytes.Equal(output, buf.Bytes()) {
			t.Errorf("test %q, Compress and Writer outputs differ", v.desc)
		}

		rd := NewReader(bytes.NewReader(buf.Bytes()))
		got, err := ioutil.ReadAll(rd)
		if err != nil {
			t.Errorf("test %q, read error: got %v", v.desc, err)
		}
		if err := rd.Close(); err != nil {
			t.Errorf("test %q, close error: got %v", v.desc, err)
		}
		if got, want, ok := testutil.BytesCompare(got, v.input); !ok {
			t.Errorf("test %q, mismatching output:\ngot  %s\nwant %s", v.desc, got, want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	input := testutil.NewRand(5).Skewed(1e4, 100)
	out1, err1 := compressBytes(input)
	out2, err2 := compressBytes(input)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !bytes.Equal(out1, out2) {
		t.Errorf("outputs of identical inputs differ")
	}
}

func TestWriter(t *testing.T) {
	if _, err := NewWriter(ioutil.Discard, &WriterConfig{MaxBufferSize: -1}); !errors.IsInvalid(err) {
		t.Errorf("NewWriter() = %v, want invalid argument error", err)
	}

	// Exceeding the buffer limit is a sticky error.
	var buf bytes.Buffer
	wr, err := NewWriter(&buf, &WriterConfig{MaxBufferSize: 10})
	if err != nil {
		t.Fatalf("unexpected NewWriter error: %v", err)
	}
	if _, err := wr.Write(make([]byte, 8)); err != nil {
		t.Errorf("Write() = %v, want nil", err)
	}
	if _, err := wr.Write(make([]byte, 3)); err != ErrBufferLimit {
		t.Errorf("Write() = %v, want %v", err, ErrBufferLimit)
	}
	if err := wr.Close(); err != ErrBufferLimit {
		t.Errorf("Close() = %v, want %v", err, ErrBufferLimit)
	}
	if buf.Len() != 0 {
		t.Errorf("output length = %d, want 0", buf.Len())
	}

	// Reset clears the error but keeps the configuration.
	wr.Reset(&buf)
	if _, err := wr.Write([]byte("AAA")); err != nil {
		t.Errorf("Write() = %v, want nil", err)
	}
	if err := wr.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	if err := wr.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if _, err := wr.Write([]byte("A")); !errors.IsClosed(err) {
		t.Errorf("Write after Close = %v, want closed error", err)
	}
	if wr.InputOffset != 3 || wr.OutputOffset != 8 {
		t.Errorf("offsets = (%d, %d), want (3, 8)", wr.InputOffset, wr.OutputOffset)
	}
	if _, err := wr.Write(make([]byte, 11)); !errors.IsClosed(err) {
		t.Errorf("Write after Close = %v, want closed error", err)
	}
}

func TestWriterBuggy(t *testing.T) {
	wr, _ := NewWriter(&testutil.BuggyWriter{W: ioutil.Discard, N: 2, Err: errBuggy}, nil)
	if _, err := wr.Write([]byte("hello, world")); err != nil {
		t.Fatalf("unexpected Write error: %v", err)
	}
	if err := wr.Close(); err != errBuggy {
		t.Errorf("Close() = %v, want %v", err, errBuggy)
	}
	if err := wr.Close(); err != errBuggy {
		t.Errorf("second Close() = %v, want %v", err, errBuggy)
	}
}

func TestReaderBuggy(t *testing.T) {
	input, err := compressBytes([]byte("AAA"))
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	rd := NewReader(&testutil.BuggyReader{R: bytes.NewReader(input), N: 5, Err: errBuggy})
	if _, err := ioutil.ReadAll(rd); err != errBuggy {
		t.Errorf("ReadAll() = %v, want %v", err, errBuggy)
	}
	if err := rd.Close(); err != errBuggy {
		t.Errorf("Close() = %v, want %v", err, errBuggy)
	}

	// Reset recovers the Reader.
	rd.Reset(bytes.NewReader(input))
	if output, err := ioutil.ReadAll(rd); err != nil || string(output) != "AAA" {
		t.Errorf("ReadAll() = (%q, %v), want (%q, nil)", output, err, "AAA")
	}
}

func TestReaderSmallBuffer(t *testing.T) {
	input := testutil.NewRand(6).Skewed(1000, 32)
	stream, err := compressBytes(input)
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}

	rd := NewReader(bytes.NewReader(stream))
	var output []byte
	buf := make([]byte, 7)
	for {
		n, err := rd.Read(buf)
		output = append(output, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected Read error: %v", err)
		}
	}
	if !bytes.Equal(output, input) {
		t.Errorf("output mismatch")
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("A"))
	f.Add([]byte("hello, world"))
	f.Add(bytes.Repeat([]byte{0x41}, 1000))
	f.Fuzz(func(t *testing.T, input []byte) {
		stream, err := compressBytes(input)
		if err != nil {
			t.Fatalf("unexpected Compress error: %v", err)
		}
		output, err := ioutil.ReadAll(NewReader(bytes.NewReader(stream)))
		if err != nil {
			t.Fatalf("unexpected Read error: %v", err)
		}
		if !bytes.Equal(output, input) {
			t.Fatalf("output mismatch")
		}
	})
}

func FuzzDecompress(f *testing.F) {
	for _, v := range decompressVectors {
		f.Add(v.input)
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		output, err := ioutil.ReadAll(NewReader(bytes.NewReader(input)))
		if err != nil {
			if !errors.IsCorrupted(err) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		stream, err := compressBytes(output)
		if err != nil {
			t.Fatalf("unexpected Compress error: %v", err)
		}
		got, err := ioutil.ReadAll(NewReader(bytes.NewReader(stream)))
		if err != nil || !bytes.Equal(got, output) {
			t.Fatalf("round trip mismatch: %v", err)
		}
	})
}

func benchmarkEncode(b *testing.B, k, n int) {
	b.StopTimer()
	b.SetBytes(int64(n))
	input := testutil.NewRand(n).Skewed(n, k)
	runtime.GC()
	b.ReportAllocs()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		wr, _ := NewWriter(ioutil.Discard, nil)
		if _, err := wr.Write(input); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if err := wr.Close(); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func benchmarkDecode(b *testing.B, k, n int) {
	b.StopTimer()
	b.SetBytes(int64(n))
	stream, err := compressBytes(testutil.NewRand(n).Skewed(n, k))
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	runtime.GC()
	b.ReportAllocs()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		rd := NewReader(bytes.NewReader(stream))
		if _, err := io.Copy(ioutil.Discard, rd); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if err := rd.Close(); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkEncodeSkewed1e4(b *testing.B) { benchmarkEncode(b, 64, 1e4) }
func BenchmarkEncodeSkewed1e5(b *testing.B) { benchmarkEncode(b, 64, 1e5) }
func BenchmarkEncodeSkewed1e6(b *testing.B) { benchmarkEncode(b, 64, 1e6) }
func BenchmarkEncodeRandom1e4(b *testing.B) { benchmarkEncode(b, 256, 1e4) }
func BenchmarkEncodeRandom1e5(b *testing.B) { benchmarkEncode(b, 256, 1e5) }
func BenchmarkEncodeRandom1e6(b *testing.B) { benchmarkEncode(b, 256, 1e6) }
func BenchmarkDecodeSkewed1e4(b *testing.B) { benchmarkDecode(b, 64, 1e4) }
func BenchmarkDecodeSkewed1e5(b *testing.B) { benchmarkDecode(b, 64, 1e5) }
func BenchmarkDecodeSkewed1e6(b *testing.B) { benchmarkDecode(b, 64, 1e6) }
func BenchmarkDecodeRandom1e4(b *testing.B) { benchmarkDecode(b, 256, 1e4) }
func BenchmarkDecodeRandom1e5(b *testing.B) { benchmarkDecode(b, 256, 1e5) }
func BenchmarkDecodeRandom1e6(b *testing.B) { benchmarkDecode(b, 256, 1e6) }
