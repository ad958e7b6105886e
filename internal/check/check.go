//go:build debug

// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package check

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// Buffer panics if length exceeds capacity or either is negative.
// Only enabled with -tags debug.
func Buffer(method string, length, capacity int) {
	if length < 0 || capacity < 0 || length > capacity {
		panic(fmt.Sprintf("%s: length %d, capacity %d", method, length, capacity))
	}
}

// Block panics if an allocator returned a block of the wrong size.
// Only enabled with -tags debug.
func Block(method string, block []byte, size int) {
	if len(block) != size {
		panic(fmt.Sprintf("%s: block size %d != %d", method, len(block), size))
	}
}

// NoError panics if err is not nil. It covers failures that have no
// error return to travel through, such as releasing a block.
// Only enabled with -tags debug.
func NoError(method string, err error) {
	if err != nil {
		panic(fmt.Sprintf("%s: %v", method, err))
	}
}
