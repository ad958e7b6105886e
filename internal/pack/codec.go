// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/dacapoday/membuf/buffer"
)

const (
	suiteNone byte = iota
	suiteCRC32
	suiteAES256GCM
)

// codec seals a finished payload. none adds nothing; crc32 appends a
// Castagnoli checksum of everything before it; aes-256-gcm encrypts the
// payload with the header as additional data and appends tag and nonce.
type codec struct {
	suite byte
	aead  cipher.AEAD
}

func newCodec(suite string, key []byte) (codec codec, err error) {
	switch suite {
	case "", "none":
		codec.suite = suiteNone
		return
	case "crc32":
		codec.suite = suiteCRC32
		return
	case "aes-256-gcm":
		if len(key) != 32 {
			err = fmt.Errorf("aes-256-gcm: %w size", ErrInvalidCipherKey)
			return
		}
		codec.aead, err = aesGCMAEAD(key)
		if err != nil {
			err = fmt.Errorf("aes-256-gcm: %w", err)
			return
		}
		codec.suite = suiteAES256GCM
		return
	}
	err = fmt.Errorf("%w: %s", ErrInvalidCipherSuite, suite)
	return
}

func loadCodec(suite byte, key []byte) (codec, error) {
	switch suite {
	case suiteNone:
		return newCodec("none", nil)
	case suiteCRC32:
		return newCodec("crc32", nil)
	case suiteAES256GCM:
		return newCodec("aes-256-gcm", key)
	}
	return codec{}, fmt.Errorf("%w cipher suite: %d", ErrUnsupported, suite)
}

// separate reports whether the payload must be built apart from dst and
// sealed into it, rather than sealed where it lies.
func (codec codec) separate() bool { return codec.aead != nil }

// size is the number of bytes seal adds after the payload.
func (codec codec) size() int {
	switch codec.suite {
	case suiteCRC32:
		return 4
	case suiteAES256GCM:
		return codec.aead.NonceSize() + codec.aead.Overhead()
	}
	return 0
}

// seal finishes the pack that starts at dst.Bytes()[start:] with header.
// For the crc32 and none suites the payload is already in dst and payload
// is ignored.
func (codec codec) seal(dst, payload *buffer.Buffer, header []byte, start int) error {
	switch codec.suite {
	case suiteCRC32:
		var sum [4]byte
		binary.LittleEndian.PutUint32(sum[:], crc32.Checksum(dst.Bytes()[start:], castagnoliCrcTable))
		return dst.Append(sum[:])
	case suiteAES256GCM:
		tail, err := dst.Extend(payload.Len() + codec.size())
		if err != nil {
			return err
		}
		off := len(tail) - codec.aead.NonceSize()
		rand.Read(tail[off:])
		codec.aead.Seal(tail[:0], tail[off:], payload.Bytes(), header)
	}
	return nil
}

// open verifies data (header included) and returns the payload.
// The payload may alias data.
func (codec codec) open(data []byte, header int) (payload []byte, err error) {
	if len(data) < header+codec.size() {
		return nil, ErrTruncated
	}
	switch codec.suite {
	case suiteCRC32:
		off := len(data) - 4
		if binary.LittleEndian.Uint32(data[off:]) != crc32.Checksum(data[:off], castagnoliCrcTable) {
			return nil, ErrBadChecksum
		}
		return data[header:off], nil
	case suiteAES256GCM:
		off := len(data) - codec.aead.NonceSize()
		payload, err = codec.aead.Open(nil, data[off:], data[header:off], data[:header])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadChecksum, err)
		}
		return payload, nil
	}
	return data[header:], nil
}

var castagnoliCrcTable = crc32.MakeTable(crc32.Castagnoli)

func aesGCMAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
