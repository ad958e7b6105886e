//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package alloc

import (
	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/internal/check"
	"golang.org/x/sys/unix"
)

// Mmap allocates each block as an anonymous private mapping and unmaps it
// on Free. Blocks are zeroed by the kernel and live outside the Go heap,
// so a block must be freed exactly once. Freeing a block Mmap did not hand
// out, or freeing one twice, panics under -tags debug.
type Mmap struct{}

var _ membuf.Allocator = Mmap{}

func (Mmap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, errAllocateFailed(size, ErrNegativeSize)
	}
	if size == 0 {
		return []byte{}, nil
	}
	block, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errAllocateFailed(size, err)
	}
	return block, nil
}

func (Mmap) Free(block []byte) {
	if cap(block) == 0 {
		return
	}
	err := unix.Munmap(block[:cap(block)])
	check.NoError("alloc.Mmap.Free", err)
}
