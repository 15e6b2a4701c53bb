// Package partition splits a group's ticker list into disjoint shards so
// parallel CI workers can each own a slice of the batch.
package partition

import (
	"errors"
	"fmt"
)

// ErrInvalidChunkSpec is returned when the chunk index or total is out of range.
var ErrInvalidChunkSpec = errors.New("invalid chunk spec")

// Spec identifies one shard of a partitioned list.
type Spec struct {
	ChunkIndex  int
	TotalChunks int
}

// Validate checks the spec against the partition contract.
func (s Spec) Validate() error {
	if s.TotalChunks < 1 {
		return fmt.Errorf("%w: total chunks %d, must be >= 1", ErrInvalidChunkSpec, s.TotalChunks)
	}
	if s.ChunkIndex < 0 || s.ChunkIndex >= s.TotalChunks {
		return fmt.Errorf("%w: chunk index %d, must be in [0,%d)", ErrInvalidChunkSpec, s.ChunkIndex, s.TotalChunks)
	}
	return nil
}

// Partition returns the contiguous sublist owned by the given chunk.
// Chunks are ceil(n/total) long, so trailing chunks may be shorter or empty.
// The same inputs always yield the same sublist, and the union of all chunks
// for a list is exactly the list with no overlap.
func Partition(tickers []string, spec Spec) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	n := len(tickers)
	if n == 0 {
		return nil, nil
	}

	chunkSize := n / spec.TotalChunks
	if n%spec.TotalChunks > 0 {
		chunkSize++
	}

	start := spec.ChunkIndex * chunkSize
	if start >= n {
		return nil, nil
	}
	end := start + chunkSize
	if end > n {
		end = n
	}

	out := make([]string, end-start)
	copy(out, tickers[start:end])
	return out, nil
}
