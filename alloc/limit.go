package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/dacapoday/membuf"
)

// Limit bounds the bytes outstanding from an underlying allocator.
// A request that would take the total above Max fails with
// ErrAllocateFailed wrapping ErrOutOfBudget.
//
// The budget is charged by the capacity a block really holds, so a Pool
// block of class 128 costs 128 bytes even when 65 were asked for.
//
// Since a growing buffer holds its old block until the copy is done,
// growing from n to m bytes needs n+m bytes of budget.
type Limit struct {
	alloc membuf.Allocator
	max   int64
	used  atomic.Int64
}

var _ membuf.Allocator = new(Limit)

// NewLimit returns a Limit of budget bytes over a (Default if nil).
func NewLimit(a membuf.Allocator, budget int64) *Limit {
	return &Limit{alloc: orDefault(a), max: budget}
}

// Max returns the budget in bytes.
func (limit *Limit) Max() int64 { return limit.max }

// Used returns the bytes currently allocated and not yet freed.
func (limit *Limit) Used() int64 { return limit.used.Load() }

func (limit *Limit) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, errAllocateFailed(size, ErrNegativeSize)
	}
	n := int64(size)
	if err := limit.charge(n); err != nil {
		return nil, errAllocateFailed(size, err)
	}
	block, err := limit.alloc.Allocate(size)
	if err != nil {
		limit.used.Add(-n)
		return nil, err
	}
	if extra := int64(cap(block)) - n; extra > 0 {
		if err = limit.charge(extra); err != nil {
			limit.alloc.Free(block)
			limit.used.Add(-n)
			return nil, errAllocateFailed(size, err)
		}
	}
	return block, nil
}

// charge takes n bytes of budget or fails without taking any.
func (limit *Limit) charge(n int64) error {
	for {
		used := limit.used.Load()
		if n > limit.max-used {
			return fmt.Errorf("%w: %d of %d bytes in use", ErrOutOfBudget, used, limit.max)
		}
		if limit.used.CompareAndSwap(used, used+n) {
			return nil
		}
	}
}

func (limit *Limit) Free(block []byte) {
	limit.used.Add(-int64(cap(block)))
	limit.alloc.Free(block)
}
