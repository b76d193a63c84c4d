// Package series holds the ordered bar sequence of a single symbol.
//
// A Series keeps its bars sorted by strictly increasing timestamp and is
// safe for concurrent use: range queries take a read lock and may run in
// parallel, while a batch insert takes the write lock of that Series only.
package series

import (
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fxstore/internal/types"
)

// Series is an ordered, append-biased sequence of bars for one symbol.
type Series struct {
	// bars is sorted by Timestamp with no duplicates
	bars []types.Bar
	mu   sync.RWMutex
}

// New creates an empty Series.
func New() *Series {
	return &Series{
		bars: nil,
		mu:   sync.RWMutex{},
	}
}

// InsertBatch merges a possibly unsorted batch into the series.
// A bar whose timestamp already exists replaces the stored bar, and within
// the batch the last bar for a timestamp wins. Returns the number of bars
// merged, which is len(batch).
//
// The batch is sorted on its own and merged only against the stored bars it
// overlaps, so appending newer data costs O(batch log batch).
func (s *Series) InsertBatch(batch []types.Bar) int {
	if len(batch) == 0 {
		return 0
	}

	incoming := normalizeBatch(batch)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Fast path: chronological append
	if len(s.bars) == 0 || incoming[0].Timestamp > s.bars[len(s.bars)-1].Timestamp {
		s.bars = append(s.bars, incoming...)

		return len(batch)
	}

	// Everything before the first incoming timestamp is untouched
	lo := lowerBound(s.bars, incoming[0].Timestamp)
	tail := mergeSorted(s.bars[lo:], incoming)
	s.bars = append(s.bars[:lo], tail...)

	return len(batch)
}

// RangeQuery returns a copy of the bars with start <= Timestamp < end in
// ascending order. An empty or inverted interval yields an empty slice.
func (s *Series) RangeQuery(start, end int64) []types.Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := searchRange(s.bars, start, end)

	result := make([]types.Bar, hi-lo)
	copy(result, s.bars[lo:hi])

	return result
}

// CountRange returns how many bars fall inside [start, end).
func (s *Series) CountRange(start, end int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := searchRange(s.bars, start, end)

	return hi - lo
}

// Len returns the number of stored bars.
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bars)
}

// First returns the earliest bar, if any.
func (s *Series) First() optional.Option[types.Bar] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.bars) == 0 {
		return optional.None[types.Bar]()
	}

	return optional.Some(s.bars[0])
}

// Last returns the latest bar, if any.
func (s *Series) Last() optional.Option[types.Bar] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.bars) == 0 {
		return optional.None[types.Bar]()
	}

	return optional.Some(s.bars[len(s.bars)-1])
}

// SplitByCount returns n+1 boundaries b[0]=start .. b[n]=end such that the
// half-open ranges [b[i], b[i+1]) hold roughly the same number of bars.
// Interior boundaries sit on bar timestamps. Returns nil when n < 1, when
// the interval is empty, or when it holds no bars.
func (s *Series) SplitByCount(start, end int64, n int) []int64 {
	if n < 1 || start >= end {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := searchRange(s.bars, start, end)
	count := hi - lo
	if count == 0 {
		return nil
	}

	boundaries := make([]int64, n+1)
	boundaries[0] = start
	boundaries[n] = end

	for i := 1; i < n; i++ {
		boundaries[i] = s.bars[lo+i*count/n].Timestamp
	}

	return boundaries
}
