// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore
// +build ignore

// Benchmark tool that measures the tree-header Huffman format ("ds") against
// reference codecs: another Huffman coder (icza) and general purpose
// compressors (std, kp-flate, kp-zstd, xz).
//
// Example usage:
//
//	$ go run ../../../testdata/gen.go -o ../../../testdata
//	$ go run main.go -tests ratio,decRate -codecs ds,icza -sizes 1e5,1e6
//
// Every column is compared against the "ds" column. Levels only affect the
// reference codecs; the Huffman format has no tuning knobs.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dsnet/golib/unitconv"

	"github.com/dsnet/huff/internal/tool/bench"
)

const baseline = "ds"

var tests = []struct {
	name          string
	test          int
	title, suffix string
}{
	{"ratio", bench.TestCompressRatio, "ratio", "x"},
	{"encRate", bench.TestEncodeRate, "MB/s", ""},
	{"decRate", bench.TestDecodeRate, "MB/s", ""},
}

func main() {
	var testNames []string
	for _, t := range tests {
		testNames = append(testNames, t.name)
	}
	fTests := flag.String("tests", strings.Join(testNames, ","), "Benchmarks to run")
	fCodecs := flag.String("codecs", strings.Join(registered(), ","), "Codecs to compare")
	fDir := flag.String("dir", "../../../testdata", "Directory holding the test files")
	fFiles := flag.String("files", "", "Test files to use; all files in -dir if empty")
	fLevels := flag.String("levels", "6", "Compression levels for the reference codecs")
	fSizes := flag.String("sizes", "1e4,1e5,1e6", "Input sizes; files are repeated or cut to size")
	flag.Parse()

	files := split(*fFiles)
	if len(files) == 0 {
		files = dataFiles(*fDir)
	}
	if len(files) == 0 {
		fatalf("no test files in %s", *fDir)
	}
	bench.Paths = []string{*fDir}

	ts := time.Now()
	codecs := split(*fCodecs)
	levels, sizes := parseInts("level", *fLevels), parseInts("size", *fSizes)
	for _, name := range split(*fTests) {
		ran := false
		for _, t := range tests {
			if t.name == name {
				runTest(t.test, t.title, t.suffix, codecs, files, levels, sizes)
				ran = true
			}
		}
		if !ran {
			fatalf("invalid test: %q", name)
		}
	}
	fmt.Printf("RUNTIME: %v\n", time.Since(ts))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "benchmark: "+format+"\n", args...)
	os.Exit(1)
}

func split(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ':' })
}

func parseInts(what, s string) []int {
	var vs []int
	for _, f := range split(s) {
		v, err := unitconv.ParsePrefix(f, unitconv.AutoParse)
		if err != nil {
			fatalf("invalid %s: %q", what, f)
		}
		vs = append(vs, int(v))
	}
	return vs
}

// registered lists all registered codecs with the baseline first.
func registered() []string {
	var s []string
	for k := range bench.Encoders {
		if k != baseline {
			s = append(s, k)
		}
	}
	sort.Strings(s)
	if _, ok := bench.Encoders[baseline]; ok {
		s = append([]string{baseline}, s...)
	}
	return s
}

func dataFiles(dir string) []string {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil
	}
	var s []string
	for _, fi := range fis {
		if fi.Mode().IsRegular() && !strings.HasSuffix(fi.Name(), ".go") {
			s = append(s, fi.Name())
		}
	}
	return s
}

func runTest(test int, title, suffix string, codecs, files []string, levels, sizes []int) {
	var avail []string
	for _, c := range codecs {
		_, hasEnc := bench.Encoders[c]
		_, hasDec := bench.Decoders[c]
		if hasEnc && (hasDec || test != bench.TestDecodeRate) {
			avail = append(avail, c)
		}
	}
	if len(avail) == 0 {
		fmt.Print("\tSKIP: none of the codecs support this benchmark.\n\n")
		return
	}

	var cnt int
	total := len(avail) * len(files) * len(levels) * len(sizes)
	tick := func() {
		fmt.Printf("\t[%6.2f%%] %d of %d\r", 100*float64(cnt)/float64(total), cnt, total)
		cnt++
	}

	var results [][]bench.Result
	var names []string
	switch test {
	case bench.TestEncodeRate:
		results, names = bench.BenchmarkEncoderSuite(avail, files, levels, sizes, tick)
	case bench.TestDecodeRate:
		results, names = bench.BenchmarkDecoderSuite(avail, files, levels, sizes, tick)
	case bench.TestCompressRatio:
		results, names = bench.BenchmarkRatioSuite(avail, files, levels, sizes, tick)
	}
	printResults(results, names, avail, title, suffix)
	fmt.Println()
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer tw.Flush()

	fmt.Fprint(tw, "\tbenchmark\t")
	for _, c := range codecs {
		fmt.Fprintf(tw, "%s %s\tdelta\t", c, title)
	}
	fmt.Fprintln(tw)
	for j, row := range results {
		fmt.Fprintf(tw, "\t%s\t", names[j])
		for _, r := range row {
			fmt.Fprintf(tw, "%s\t%s\t", format(r.R, suffix), format(r.D, "x"))
		}
		fmt.Fprintln(tw)
	}
}

func format(v float64, suffix string) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f", v) + suffix
}
