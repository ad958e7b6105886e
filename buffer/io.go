package buffer

import (
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/dacapoday/membuf/internal/check"
)

var (
	_ io.Writer       = (*Buffer)(nil)
	_ io.StringWriter = (*Buffer)(nil)
	_ io.ByteWriter   = (*Buffer)(nil)
	_ io.ReaderFrom   = (*Buffer)(nil)
	_ io.WriterTo     = (*Buffer)(nil)
	_ io.Closer       = (*Buffer)(nil)
)

// minRead is the least spare room ReadFrom offers to a Read call.
const minRead = 512

// Write appends p. It returns len(p) on success and 0 on failure; a failed
// Write records nothing.
func (buffer *Buffer) Write(p []byte) (n int, err error) {
	if err = buffer.append("buffer.Write", p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends s without copying it to an intermediate slice.
func (buffer *Buffer) WriteString(s string) (n int, err error) {
	p := unsafe.Slice(unsafe.StringData(s), len(s))
	if err = buffer.append("buffer.WriteString", p); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte appends c.
func (buffer *Buffer) WriteByte(c byte) error {
	p := [1]byte{c}
	return buffer.append("buffer.WriteByte", p[:])
}

// ReadFrom appends data from r until EOF. It implements io.ReaderFrom.
//
// r reads straight into spare capacity. Every byte r returns is kept, also
// when ReadFrom stops early because r or the allocator failed. io.EOF is not
// returned as an error.
func (buffer *Buffer) ReadFrom(r io.Reader) (n int64, err error) {
	if buffer.released {
		return 0, fmt.Errorf("buffer.ReadFrom: %w", ErrReleased)
	}
	for {
		if len(buffer.block)-buffer.length < minRead {
			if buffer.length > math.MaxInt-minRead {
				return n, fmt.Errorf("buffer.ReadFrom: %w: %d bytes", ErrTooLarge, buffer.length)
			}
			old, err := buffer.grow(buffer.length + minRead)
			if err != nil {
				return n, fmt.Errorf("buffer.ReadFrom: %w", err)
			}
			buffer.free(old)
		}
		c, err := r.Read(buffer.block[buffer.length:])
		buffer.length += c
		n += int64(c)
		check.Buffer("buffer.ReadFrom", buffer.length, len(buffer.block))
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return n, err
		}
	}
}

// WriteTo writes the content to w. It implements io.WriterTo.
// Unlike bytes.Buffer, the content is not consumed.
func (buffer *Buffer) WriteTo(w io.Writer) (n int64, err error) {
	if buffer.released {
		return 0, fmt.Errorf("buffer.WriteTo: %w", ErrReleased)
	}
	if buffer.length == 0 {
		return 0, nil
	}
	c, err := w.Write(buffer.block[:buffer.length])
	n = int64(c)
	if err != nil {
		return n, err
	}
	if c != buffer.length {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Close is Release, for use as an io.Closer.
func (buffer *Buffer) Close() error {
	return buffer.Release()
}
