// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal holds build-mode switches shared by the codec packages.
//
// For performance reasons, the codec packages lack strong invariant checking
// in release builds. Building with either the "debug" or "gofuzz" tag enables
// extra validation of every code tree that is built or decoded.
package internal
