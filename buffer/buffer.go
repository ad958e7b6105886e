// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package buffer implements a contiguous in-memory byte store that grows as
// data is appended.
package buffer

import (
	"fmt"
	"math"

	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/alloc"
	"github.com/dacapoday/membuf/internal/check"
)

// Buffer accumulates appended bytes in a single contiguous block obtained
// from a membuf.Allocator.
//
// Append either records all of its input or, on failure, leaves length,
// capacity and content exactly as they were. Capacity only grows, following
// Grow, until Release hands the block back to the allocator. Every
// operation on a released buffer fails with ErrReleased.
//
// The zero value is an empty buffer of capacity 0 backed by alloc.Default.
// A Buffer has a single owner; it is not safe for concurrent use.
type Buffer struct {
	alloc    membuf.Allocator
	block    []byte // len(block) is the capacity, nil when 0
	length   int
	released bool
}

// New returns a buffer with exactly capacity bytes of storage taken from a
// (alloc.Default if nil). A capacity of 0 allocates nothing.
//
// If the allocator fails, New returns an error wrapping ErrAllocateFailed
// and no buffer.
func New(a membuf.Allocator, capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("buffer.New: %w: %d", ErrNegativeSize, capacity)
	}
	buffer := &Buffer{alloc: a}
	if capacity == 0 {
		return buffer, nil
	}
	block, err := buffer.allocator().Allocate(capacity)
	if err != nil {
		return nil, fmt.Errorf("buffer.New: %w", err)
	}
	check.Block("buffer.New", block, capacity)
	buffer.block = block
	return buffer, nil
}

// Len returns the number of bytes appended so far.
func (buffer *Buffer) Len() int { return buffer.length }

// Cap returns the number of bytes of storage currently held.
func (buffer *Buffer) Cap() int { return len(buffer.block) }

// Released reports whether Release has been called.
func (buffer *Buffer) Released() bool { return buffer.released }

// Bytes returns the content, Len bytes long.
//
// The slice aliases the buffer's storage and is valid until the next
// Reserve, Append or Release. Its capacity is clipped to its length, so
// appending to it never writes into the buffer.
func (buffer *Buffer) Bytes() []byte {
	return buffer.block[:buffer.length:buffer.length]
}

// Reserve makes sure the buffer can hold capacity bytes without another
// reallocation. It does nothing if Cap is already large enough; otherwise
// the storage moves to a block of Grow(Cap(), capacity) bytes and the
// content is copied over.
//
// On failure the buffer is unchanged.
func (buffer *Buffer) Reserve(capacity int) error {
	if buffer.released {
		return fmt.Errorf("buffer.Reserve: %w", ErrReleased)
	}
	if capacity < 0 {
		return fmt.Errorf("buffer.Reserve: %w: %d", ErrNegativeSize, capacity)
	}
	if capacity <= len(buffer.block) {
		return nil
	}
	old, err := buffer.grow(capacity)
	if err != nil {
		return fmt.Errorf("buffer.Reserve: %w", err)
	}
	buffer.free(old)
	return nil
}

// Append adds p to the end of the content, growing the storage if needed.
// An empty p is a no-op.
//
// On failure nothing of p is recorded and the buffer is unchanged.
func (buffer *Buffer) Append(p []byte) error {
	return buffer.append("buffer.Append", p)
}

// Extend appends n zero bytes and returns them so the caller can encode
// into the buffer in place. The slice is valid until the next Reserve,
// Append or Release.
//
// On failure the buffer is unchanged.
func (buffer *Buffer) Extend(n int) ([]byte, error) {
	tail, old, err := buffer.extend("buffer.Extend", n)
	if err != nil {
		return nil, err
	}
	buffer.free(old)
	clear(tail)
	return tail, nil
}

// Release returns the storage to the allocator. The buffer is unusable
// afterwards; a second Release fails with ErrReleased.
func (buffer *Buffer) Release() error {
	if buffer.released {
		return fmt.Errorf("buffer.Release: %w", ErrReleased)
	}
	buffer.free(buffer.block)
	buffer.block = nil
	buffer.length = 0
	buffer.released = true
	return nil
}

func (buffer *Buffer) append(method string, p []byte) error {
	tail, old, err := buffer.extend(method, len(p))
	if err != nil {
		return err
	}
	// p may alias the old block, so it is freed after the copy.
	copy(tail, p)
	buffer.free(old)
	return nil
}

// extend advances length by n and returns the new tail, plus the previous
// block if the storage moved.
func (buffer *Buffer) extend(method string, n int) (tail, old []byte, err error) {
	if buffer.released {
		return nil, nil, fmt.Errorf("%s: %w", method, ErrReleased)
	}
	if n < 0 {
		return nil, nil, fmt.Errorf("%s: %w: %d", method, ErrNegativeSize, n)
	}
	if n > math.MaxInt-buffer.length {
		return nil, nil, fmt.Errorf("%s: %w: %d + %d bytes", method, ErrTooLarge, buffer.length, n)
	}
	end := buffer.length + n
	if end > len(buffer.block) {
		old, err = buffer.grow(end)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", method, err)
		}
	}
	tail = buffer.block[buffer.length:end:end]
	buffer.length = end
	check.Buffer(method, buffer.length, len(buffer.block))
	return tail, old, nil
}

// grow moves the content into a new block of Grow(Cap(), need) bytes and
// returns the previous block for the caller to free.
func (buffer *Buffer) grow(need int) (old []byte, err error) {
	size := Grow(len(buffer.block), need)
	block, err := buffer.allocator().Allocate(size)
	if err != nil {
		return nil, err
	}
	check.Block("buffer.grow", block, size)
	copy(block, buffer.block[:buffer.length])
	old, buffer.block = buffer.block, block
	check.Buffer("buffer.grow", buffer.length, len(buffer.block))
	return old, nil
}

func (buffer *Buffer) free(block []byte) {
	if block != nil {
		buffer.alloc.Free(block)
	}
}

// allocator pins the allocator on first use so that every block is freed
// where it came from.
func (buffer *Buffer) allocator() membuf.Allocator {
	if buffer.alloc == nil {
		buffer.alloc = alloc.Default
	}
	return buffer.alloc
}
