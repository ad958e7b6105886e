package alloc

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeap(t *testing.T) {
	block, err := Heap{}.Allocate(100)
	require.NoError(t, err)
	require.Len(t, block, 100)
	require.Equal(t, 100, cap(block))

	block, err = Heap{}.Allocate(0)
	require.NoError(t, err)
	require.Len(t, block, 0)

	_, err = Heap{}.Allocate(-1)
	require.ErrorIs(t, err, ErrAllocateFailed)
	require.ErrorIs(t, err, ErrNegativeSize)
}

func TestHeapLenOutOfRange(t *testing.T) {
	block, err := Heap{}.Allocate(math.MaxInt)
	require.ErrorIs(t, err, ErrAllocateFailed)
	require.Nil(t, block)
}

func TestClassOf(t *testing.T) {
	cases := []struct{ size, class int }{
		{0, 0},
		{1, 0},
		{64, 0},
		{65, 1},
		{128, 1},
		{129, 2},
		{1 << 20, 14},
		{1 << maxClassShift, maxClassShift - minClassShift},
		{1<<maxClassShift + 1, maxClassShift - minClassShift + 1},
	}
	for _, c := range cases {
		require.Equal(t, c.class, classOf(c.size), "size %d", c.size)
	}
}

func TestPool(t *testing.T) {
	var pool Pool

	block, err := pool.Allocate(100)
	require.NoError(t, err)
	require.Len(t, block, 100)
	require.Equal(t, 128, cap(block))

	pool.Free(block)

	block, err = pool.Allocate(120)
	require.NoError(t, err)
	require.Len(t, block, 120)
	require.Equal(t, 128, cap(block))
	pool.Free(block)

	big := 1<<maxClassShift + 1
	block, err = pool.Allocate(big)
	require.NoError(t, err)
	require.Len(t, block, big)
	require.Equal(t, big, cap(block))
	pool.Free(block)

	// foreign blocks are dropped
	pool.Free(make([]byte, 100))
	pool.Free(nil)

	_, err = pool.Allocate(-1)
	require.ErrorIs(t, err, ErrNegativeSize)
}

func TestPoolKeepsFullBlock(t *testing.T) {
	var pool Pool
	block, err := pool.Allocate(65)
	require.NoError(t, err)
	pool.Free(block)

	// Get may come back empty, the runtime is free to drop pooled items.
	if v := pool.classes[classOf(65)].Get(); v != nil {
		p, ok := v.(*[]byte)
		require.True(t, ok, "pooled %T", v)
		require.Len(t, *p, 128)
	}
}

func TestPoolConcurrent(t *testing.T) {
	var pool Pool
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				size := (i+1)*(j+1) + 1
				block, err := pool.Allocate(size)
				if err != nil || len(block) != size {
					t.Errorf("Allocate(%d): len=%d err=%v", size, len(block), err)
					return
				}
				for k := range block {
					block[k] = byte(i)
				}
				pool.Free(block)
			}
		}()
	}
	wg.Wait()
}

func TestLimit(t *testing.T) {
	limit := NewLimit(nil, 10)
	require.EqualValues(t, 10, limit.Max())

	a, err := limit.Allocate(6)
	require.NoError(t, err)
	require.EqualValues(t, 6, limit.Used())

	_, err = limit.Allocate(5)
	require.ErrorIs(t, err, ErrAllocateFailed)
	require.ErrorIs(t, err, ErrOutOfBudget)
	require.EqualValues(t, 6, limit.Used())

	b, err := limit.Allocate(4)
	require.NoError(t, err)
	require.EqualValues(t, 10, limit.Used())

	limit.Free(a)
	limit.Free(b)
	require.EqualValues(t, 0, limit.Used())

	_, err = limit.Allocate(10)
	require.NoError(t, err)
}

func TestLimitOverPool(t *testing.T) {
	var pool Pool
	limit := NewLimit(&pool, 1000)

	var blocks [][]byte
	var held int64
	for {
		block, err := limit.Allocate(65)
		if err != nil {
			require.ErrorIs(t, err, ErrOutOfBudget)
			break
		}
		require.Len(t, block, 65)
		blocks = append(blocks, block)
		held += int64(cap(block))
	}
	require.Len(t, blocks, 7)
	require.Equal(t, held, limit.Used())
	require.LessOrEqual(t, held, limit.Max())

	for _, block := range blocks {
		limit.Free(block)
	}
	require.Zero(t, limit.Used())
}

func TestLimitChargesClassSize(t *testing.T) {
	var pool Pool
	counter := NewCounter(&pool)
	limit := NewLimit(counter, 100)

	// 65 fits the budget but its 128 byte class does not.
	_, err := limit.Allocate(65)
	require.ErrorIs(t, err, ErrAllocateFailed)
	require.ErrorIs(t, err, ErrOutOfBudget)
	require.Zero(t, limit.Used())
	require.Equal(t, Stats{Allocs: 1, Frees: 1}, counter.Stats())

	block, err := limit.Allocate(64)
	require.NoError(t, err)
	require.EqualValues(t, 64, limit.Used())
	limit.Free(block)
	require.Zero(t, limit.Used())
}

type failing struct{}

var errInjected = errors.New("injected")

func (failing) Allocate(size int) ([]byte, error) { return nil, errAllocateFailed(size, errInjected) }
func (failing) Free([]byte)                       {}

func TestLimitReturnsBudgetOnFailure(t *testing.T) {
	limit := NewLimit(failing{}, 10)
	_, err := limit.Allocate(8)
	require.ErrorIs(t, err, errInjected)
	require.EqualValues(t, 0, limit.Used())
}

func TestCounter(t *testing.T) {
	counter := NewCounter(nil)

	a, err := counter.Allocate(10)
	require.NoError(t, err)
	b, err := counter.Allocate(20)
	require.NoError(t, err)
	counter.Free(a)

	require.Equal(t, Stats{Allocs: 2, Frees: 1, LiveBytes: 20}, counter.Stats())

	counter.Free(b)
	_, err = NewLimit(counter, 0).Allocate(1)
	require.Error(t, err)
	require.Equal(t, Stats{Allocs: 2, Frees: 2}, counter.Stats())

	failed := NewCounter(failing{})
	_, err = failed.Allocate(1)
	require.Error(t, err)
	require.Equal(t, Stats{Failures: 1}, failed.Stats())
}
