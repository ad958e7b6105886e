//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package alloc

import "github.com/dacapoday/membuf"

// Mmap is not available on this platform; every request fails.
type Mmap struct{}

var _ membuf.Allocator = Mmap{}

func (Mmap) Allocate(size int) ([]byte, error) {
	return nil, errAllocateFailed(size, ErrUnsupported)
}

func (Mmap) Free([]byte) {}
