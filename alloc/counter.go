package alloc

import (
	"sync/atomic"

	"github.com/dacapoday/membuf"
)

// Stats is a snapshot of a Counter.
type Stats struct {
	Allocs    int64 // successful Allocate calls
	Failures  int64 // failed Allocate calls
	Frees     int64 // Free calls
	LiveBytes int64 // bytes allocated and not yet freed
}

// Counter records the traffic through an underlying allocator.
type Counter struct {
	alloc    membuf.Allocator
	allocs   atomic.Int64
	failures atomic.Int64
	frees    atomic.Int64
	live     atomic.Int64
}

var _ membuf.Allocator = new(Counter)

// NewCounter wraps a (Default if nil).
func NewCounter(a membuf.Allocator) *Counter {
	return &Counter{alloc: orDefault(a)}
}

func (counter *Counter) Allocate(size int) ([]byte, error) {
	block, err := counter.alloc.Allocate(size)
	if err != nil {
		counter.failures.Add(1)
		return nil, err
	}
	counter.allocs.Add(1)
	counter.live.Add(int64(len(block)))
	return block, nil
}

func (counter *Counter) Free(block []byte) {
	counter.frees.Add(1)
	counter.live.Add(-int64(len(block)))
	counter.alloc.Free(block)
}

func (counter *Counter) Stats() Stats {
	return Stats{
		Allocs:    counter.allocs.Load(),
		Failures:  counter.failures.Load(),
		Frees:     counter.frees.Load(),
		LiveBytes: counter.live.Load(),
	}
}
