// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements functions to manipulate compression errors.
//
// In idiomatic Go, it is an anti-pattern to use panics as a form of error
// reporting in the API. Instead, the expected way to transmit errors is by
// returning an error value. Unfortunately, the checking of "err != nil" in
// tight loops commonly found in compression causes non-negligible performance
// degradation. While this may not be idiomatic, the codec packages use panics
// internally and convert them back to errors with Recover at the API boundary.
package errors

import (
	"io"
	"runtime"
	"strings"
)

const (
	// Unknown indicates that there is no classification for this error.
	Unknown = iota

	// Internal indicates that this error is due to an internal bug.
	// Users should file a issue report if this type of error is encountered.
	Internal

	// Invalid indicates that this error is due to the user misusing the API
	// and is indicative of a bug on the user's part.
	Invalid

	// Corrupted indicates that the input stream is corrupted.
	Corrupted

	// Closed indicates that the handlers are closed.
	Closed
)

var codeMap = map[int]string{
	Unknown:   "unknown error",
	Internal:  "internal error",
	Invalid:   "invalid argument",
	Corrupted: "corrupted input",
	Closed:    "closed handler",
}

type Error struct {
	Code int    // The error type
	Pkg  string // Name of the package where the error originated
	Msg  string // Descriptive message about the error (optional)
}

func (e Error) Error() string {
	var ss []string
	for _, s := range []string{e.Pkg, codeMap[e.Code], e.Msg} {
		if s != "" {
			ss = append(ss, s)
		}
	}
	return strings.Join(ss, ": ")
}

func (e Error) HuffError()        {}
func (e Error) IsInternal() bool  { return e.Code == Internal }
func (e Error) IsInvalid() bool   { return e.Code == Invalid }
func (e Error) IsCorrupted() bool { return e.Code == Corrupted }
func (e Error) IsClosed() bool    { return e.Code == Closed }

func IsInternal(err error) bool  { return isCode(err, Internal) }
func IsInvalid(err error) bool   { return isCode(err, Invalid) }
func IsCorrupted(err error) bool { return isCode(err, Corrupted) }
func IsClosed(err error) bool    { return isCode(err, Closed) }

func isCode(err error, code int) bool {
	if cerr, ok := err.(Error); ok && cerr.Code == code {
		return true
	}
	return false
}

// Recover is a function that must be called in a deferred statement.
// It recovers from a panic carrying an error and stores it in err.
// Runtime errors and non-error values are re-panicked.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// Panic panics with err if it is not nil.
func Panic(err error) {
	if err != nil {
		panic(err)
	}
}

// Assert panics with err if cond is false.
func Assert(cond bool, err error) {
	if !cond {
		panic(err)
	}
}

// PanicEOF panics with err, replacing the end-of-data signal with eof.
// It is used when running out of input is a property of the stream format
// rather than of the underlying I/O.
func PanicEOF(err, eof error) {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = eof
	}
	Panic(err)
}
