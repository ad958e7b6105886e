package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrow(t *testing.T) {
	cases := []struct{ capacity, need, want int }{
		{0, 0, 0},
		{0, 1, 1},
		{0, 5, 5},
		{1, 2, 2},
		{3, 7, 7},
		{4, 5, 8},
		{4, 8, 8},
		{4, 16, 16},
		{4, 17, 17},
		{8, 9, 16},
		{1000, 1001, 2000},
		{math.MaxInt/2 + 1, math.MaxInt, math.MaxInt},
		{math.MaxInt / 2, math.MaxInt/2 + 1, math.MaxInt - 1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Grow(c.capacity, c.need), "Grow(%d, %d)", c.capacity, c.need)
	}
}

func TestGrowNeverBelowNeed(t *testing.T) {
	for capacity := range 64 {
		for need := capacity + 1; need < 256; need++ {
			got := Grow(capacity, need)
			if got < need || got < 2*capacity {
				t.Fatalf("Grow(%d, %d) = %d", capacity, need, got)
			}
		}
	}
}
