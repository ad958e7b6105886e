//go:build !debug

// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package check

// Enabled reports whether assertions are compiled in.
const Enabled = false

// Buffer is a no-op in production.
// Enable with -tags debug for runtime checks.
func Buffer(string, int, int) {}

// Block is a no-op in production.
// Enable with -tags debug for runtime checks.
func Block(string, []byte, int) {}

// NoError is a no-op in production.
// Enable with -tags debug for runtime checks.
func NoError(string, error) {}
