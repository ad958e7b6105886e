package membuf

import "errors"

var (
	ErrAllocateFailed     = errors.New("allocate failed")
	ErrReleased           = errors.New("released")
	ErrNegativeSize       = errors.New("negative size")
	ErrTooLarge           = errors.New("too large")
	ErrOutOfBudget        = errors.New("out of budget")
	ErrUnsupported        = errors.New("unsupported")
	ErrInvalidCipherSuite = errors.New("invalid cipher suite")
	ErrInvalidCipherKey   = errors.New("invalid cipher key")
	ErrBadChecksum        = errors.New("bad checksum")
)
