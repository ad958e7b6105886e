package buffer

import "github.com/dacapoday/membuf"

var (
	ErrAllocateFailed = membuf.ErrAllocateFailed
	ErrReleased       = membuf.ErrReleased
	ErrNegativeSize   = membuf.ErrNegativeSize
	ErrTooLarge       = membuf.ErrTooLarge
)
