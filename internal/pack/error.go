package pack

import (
	"errors"

	"github.com/dacapoday/membuf"
)

var (
	ErrInvalidCipherSuite = membuf.ErrInvalidCipherSuite
	ErrInvalidCipherKey   = membuf.ErrInvalidCipherKey
	ErrBadChecksum        = membuf.ErrBadChecksum
	ErrUnsupported        = membuf.ErrUnsupported
	ErrUnknownMagicCode   = errors.New("unknown magic code")
	ErrTruncated          = errors.New("truncated")
	ErrTrailingData       = errors.New("trailing data after archive")
)
