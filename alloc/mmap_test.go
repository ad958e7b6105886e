//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package alloc

import (
	"testing"

	"github.com/dacapoday/membuf/internal/check"
	"github.com/stretchr/testify/require"
)

func TestMmap(t *testing.T) {
	block, err := Mmap{}.Allocate(10000)
	require.NoError(t, err)
	require.Len(t, block, 10000)
	for i := range block {
		require.Zero(t, block[i])
		block[i] = byte(i)
	}
	require.Equal(t, byte(9999%256), block[9999])
	Mmap{}.Free(block)

	block, err = Mmap{}.Allocate(0)
	require.NoError(t, err)
	require.Len(t, block, 0)
	Mmap{}.Free(block)

	_, err = Mmap{}.Allocate(-1)
	require.ErrorIs(t, err, ErrNegativeSize)
}

func TestMmapFreeUnmapped(t *testing.T) {
	block, err := Mmap{}.Allocate(4096)
	require.NoError(t, err)
	Mmap{}.Free(block)

	twice := func() { Mmap{}.Free(block) }
	foreign := func() { Mmap{}.Free(make([]byte, 4096)) }
	if !check.Enabled {
		require.NotPanics(t, twice)
		require.NotPanics(t, foreign)
		return
	}
	require.Panics(t, twice)
	require.Panics(t, foreign)
}
