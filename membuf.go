// Package membuf defines the interfaces shared by the growable byte store
// and the allocators that back it.
//
// The store itself lives in package buffer; allocators live in package alloc.
package membuf

// Allocator hands out raw byte blocks for a buffer's storage.
//
// Allocate returns a block with len(block) == size. The contents are
// unspecified; callers must not rely on zeroed memory. When the request
// cannot be satisfied the error wraps ErrAllocateFailed and block is nil.
//
// Free takes back a block exactly as returned by Allocate. The block must
// not be used afterwards.
//
// Implementations must be safe for concurrent use: one allocator is
// commonly shared by many buffers.
type Allocator interface {
	Allocate(size int) (block []byte, err error)
	Free(block []byte)
}
