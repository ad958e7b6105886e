package alloc

import (
	"math/bits"
	"sync"

	"github.com/dacapoday/membuf"
)

const (
	minClassShift = 6  // 64 B
	maxClassShift = 24 // 16 MiB
)

// Pool recycles blocks through power-of-two size classes from 64 B to
// 16 MiB. Larger requests are served by Heap and dropped on Free.
//
// Recycled blocks are not zeroed.
//
// The zero value is ready to use. A Pool must not be copied after first use.
type Pool struct {
	classes [maxClassShift - minClassShift + 1]sync.Pool
}

var _ membuf.Allocator = new(Pool)

// classOf returns the index of the smallest class holding size bytes.
func classOf(size int) int {
	if size <= 1<<minClassShift {
		return 0
	}
	return bits.Len(uint(size-1)) - minClassShift
}

func (pool *Pool) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, errAllocateFailed(size, ErrNegativeSize)
	}
	class := classOf(size)
	if class >= len(pool.classes) {
		return Heap{}.Allocate(size)
	}
	if v := pool.classes[class].Get(); v != nil {
		return (*v.(*[]byte))[:size], nil
	}
	block, err := Heap{}.Allocate(1 << (class + minClassShift))
	if err != nil {
		return nil, err
	}
	return block[:size], nil
}

func (pool *Pool) Free(block []byte) {
	c := cap(block)
	if c < 1<<minClassShift || c&(c-1) != 0 {
		return
	}
	class := bits.Len(uint(c)) - 1 - minClassShift
	if class >= len(pool.classes) {
		return
	}
	block = block[:c]
	pool.classes[class].Put(&block)
}
