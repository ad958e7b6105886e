// Package alloc provides membuf.Allocator implementations.
//
// Heap, Pool and Mmap obtain memory; Limit and Counter wrap another
// allocator to bound or observe it. All of them are safe for concurrent use.
package alloc

import "github.com/dacapoday/membuf"

// Default is the allocator used when none is given.
var Default membuf.Allocator = Heap{}

func orDefault(a membuf.Allocator) membuf.Allocator {
	if a == nil {
		return Default
	}
	return a
}
