package dirstat_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diskusage/internal/dirstat"
)

func sizes(entries []dirstat.FileStat) []uint64 {
	out := make([]uint64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Size)
	}

	return out
}

func TestNewTopN_RejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		top, err := dirstat.NewTopN(capacity)
		require.ErrorIs(t, err, dirstat.ErrZeroCapacity)
		assert.Nil(t, top)
	}
}

func TestTopN_FreshFloorIsZero(t *testing.T) {
	top, err := dirstat.NewTopN(3)
	require.NoError(t, err)

	assert.False(t, top.Admits(0), "zero-size entries never qualify, even with free capacity")
	assert.True(t, top.Admits(1))
	assert.Empty(t, top.Snapshot())
}

func TestTopN_FillPhaseAppendsUnconditionally(t *testing.T) {
	top, err := dirstat.NewTopN(3)
	require.NoError(t, err)

	top.Insert(dirstat.FileStat{Path: "a", Size: 5})
	top.Insert(dirstat.FileStat{Path: "b", Size: 1})
	top.Insert(dirstat.FileStat{Path: "c", Size: 9})

	assert.Equal(t, []uint64{5, 1, 9}, sizes(top.Snapshot()), "insertion order is kept until a resort")
	assert.Equal(t, uint64(0), top.Resorts())
	assert.True(t, top.Admits(1), "floor stays 0 until the first resort")
}

func TestTopN_DisplacingTheMinimumResortsOnce(t *testing.T) {
	top, err := dirstat.NewTopN(3)
	require.NoError(t, err)

	for _, size := range []uint64{10, 20, 30} {
		top.Insert(dirstat.FileStat{Path: fmt.Sprint(size), Size: size})
	}

	top.Insert(dirstat.FileStat{Path: "15", Size: 15})

	assert.Equal(t, uint64(1), top.Resorts())
	assert.Equal(t, []uint64{30, 20, 15}, sizes(top.Snapshot()))
	assert.False(t, top.Admits(15))
	assert.True(t, top.Admits(16))
}

func TestTopN_EntryEqualToFloorIsDiscarded(t *testing.T) {
	top, err := dirstat.NewTopN(2)
	require.NoError(t, err)

	top.Insert(dirstat.FileStat{Path: "a", Size: 4})
	top.Insert(dirstat.FileStat{Path: "b", Size: 8})
	top.Insert(dirstat.FileStat{Path: "c", Size: 6}) // floor becomes 6
	require.Equal(t, uint64(1), top.Resorts())

	top.Insert(dirstat.FileStat{Path: "d", Size: 6})
	top.Insert(dirstat.FileStat{Path: "e", Size: 3})

	assert.Equal(t, uint64(1), top.Resorts())
	assert.Equal(t, []dirstat.FileStat{{Path: "b", Size: 8}, {Path: "c", Size: 6}}, top.Snapshot())
}

func TestTopN_KeepsTheLargestEntries(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := range 200 {
		capacity := 1 + rng.IntN(8)
		count := rng.IntN(60)

		top, err := dirstat.NewTopN(capacity)
		require.NoError(t, err)

		all := make([]uint64, 0, count)

		for i := range count {
			size := rng.Uint64N(20)
			all = append(all, size)
			top.Insert(dirstat.FileStat{Path: fmt.Sprint(i), Size: size})

			require.LessOrEqual(t, top.Len(), capacity)
		}

		slices.Sort(all)
		slices.Reverse(all)
		want := all[:min(capacity, len(all))]

		assert.Equal(t, want, sizes(top.Sorted()), "round %d", round)
	}
}

func TestTopN_SnapshotIsACopy(t *testing.T) {
	top, err := dirstat.NewTopN(2)
	require.NoError(t, err)

	top.Insert(dirstat.FileStat{Path: "a", Size: 1})

	snap := top.Snapshot()
	snap[0].Size = 99

	assert.Equal(t, uint64(1), top.Snapshot()[0].Size)
}
