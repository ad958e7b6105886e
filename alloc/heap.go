package alloc

import (
	"runtime"

	"github.com/dacapoday/membuf"
)

// Heap allocates blocks from the Go heap.
// Free is a no-op; the garbage collector reclaims unreachable blocks.
//
// Requests the runtime rejects outright (length out of range) are reported
// as ErrAllocateFailed. Exhausting the process memory is fatal in Go and
// cannot be reported; wrap Heap in a Limit to fail before that point.
type Heap struct{}

var _ membuf.Allocator = Heap{}

func (Heap) Allocate(size int) (block []byte, err error) {
	if size < 0 {
		return nil, errAllocateFailed(size, ErrNegativeSize)
	}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			block, err = nil, errAllocateFailed(size, e)
		}
	}()
	return make([]byte, size), nil
}

func (Heap) Free([]byte) {}
