package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTickers(n int) []string {
	tickers := make([]string, n)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%03d", i)
	}
	return tickers
}

func TestPartition_UnionCoversListExactly(t *testing.T) {
	testCases := []struct {
		name        string
		listSize    int
		totalChunks int
	}{
		{"even split", 10, 5},
		{"uneven split", 503, 10},
		{"single chunk", 7, 1},
		{"more chunks than tickers", 3, 8},
		{"empty list", 0, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tickers := makeTickers(tc.listSize)

			union := make([]string, 0, tc.listSize)
			seen := make(map[string]int)
			for i := 0; i < tc.totalChunks; i++ {
				shard, err := Partition(tickers, Spec{ChunkIndex: i, TotalChunks: tc.totalChunks})
				require.NoError(t, err)
				for _, symbol := range shard {
					seen[symbol]++
				}
				union = append(union, shard...)
			}

			assert.Equal(t, tickers, union, "concatenated shards must reproduce the list in order")
			for symbol, count := range seen {
				assert.Equal(t, 1, count, "symbol %s assigned to multiple shards", symbol)
			}
		})
	}
}

func TestPartition_Deterministic(t *testing.T) {
	tickers := makeTickers(101)
	spec := Spec{ChunkIndex: 3, TotalChunks: 7}

	first, err := Partition(tickers, spec)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Partition(tickers, spec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPartition_TwoChunkExample(t *testing.T) {
	tickers := []string{"A", "B", "C", "D", "E"}

	first, err := Partition(tickers, Spec{ChunkIndex: 0, TotalChunks: 2})
	require.NoError(t, err)
	second, err := Partition(tickers, Spec{ChunkIndex: 1, TotalChunks: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, first)
	assert.Equal(t, []string{"D", "E"}, second)

	for _, symbol := range first {
		assert.NotContains(t, second, symbol)
	}
	assert.ElementsMatch(t, tickers, append(append([]string{}, first...), second...))
}

func TestPartition_InvalidSpec(t *testing.T) {
	tickers := makeTickers(5)

	testCases := []struct {
		name string
		spec Spec
	}{
		{"zero total", Spec{ChunkIndex: 0, TotalChunks: 0}},
		{"negative total", Spec{ChunkIndex: 0, TotalChunks: -1}},
		{"negative index", Spec{ChunkIndex: -1, TotalChunks: 3}},
		{"index equals total", Spec{ChunkIndex: 3, TotalChunks: 3}},
		{"index beyond total", Spec{ChunkIndex: 9, TotalChunks: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Partition(tickers, tc.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidChunkSpec)
		})
	}
}

func TestPartition_DoesNotAliasInput(t *testing.T) {
	tickers := []string{"A", "B", "C", "D"}
	shard, err := Partition(tickers, Spec{ChunkIndex: 0, TotalChunks: 2})
	require.NoError(t, err)

	shard[0] = "MUTATED"
	assert.Equal(t, "A", tickers[0])
}
