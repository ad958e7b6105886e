package alloc

import (
	"fmt"

	"github.com/dacapoday/membuf"
)

var (
	ErrAllocateFailed = membuf.ErrAllocateFailed
	ErrNegativeSize   = membuf.ErrNegativeSize
	ErrOutOfBudget    = membuf.ErrOutOfBudget
	ErrUnsupported    = membuf.ErrUnsupported
)

func errAllocateFailed(size int, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %d bytes: %w", ErrAllocateFailed, size, err)
	}
	return fmt.Errorf("%w: %d bytes", ErrAllocateFailed, size)
}
