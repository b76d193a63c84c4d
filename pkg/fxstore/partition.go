package fxstore

import (
	"math/bits"

	"github.com/rxtech-lab/fxstore/pkg/errors"
)

// TimeRange is the half-open interval [Start, End) in nanoseconds.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Empty reports whether the range holds no instant.
func (r TimeRange) Empty() bool {
	return r.Start >= r.End
}

// SplitTimeRange splits [start, end) into n contiguous ranges of equal time
// span. The ranges tile the input exactly: the first starts at start, the
// last ends at end, and each ends where the next begins. An empty input
// yields a single empty range.
func SplitTimeRange(start, end int64, n int) ([]TimeRange, error) {
	if n <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "partition count must be positive, got %d", n)
	}

	if start >= end {
		return []TimeRange{{Start: start, End: end}}, nil
	}

	boundaries := make([]int64, n+1)
	boundaries[0] = start
	boundaries[n] = end

	// span fits in uint64 even when end-start overflows int64
	span := uint64(end) - uint64(start)
	for i := 1; i < n; i++ {
		hi, lo := bits.Mul64(span, uint64(i))
		offset, _ := bits.Div64(hi, lo, uint64(n))
		boundaries[i] = int64(uint64(start) + offset)
	}

	return rangesFromBoundaries(boundaries), nil
}

// Partition splits [start, end) for parallel reads of symbol using the
// configured partition mode. In rows mode each range holds roughly the same
// number of bars; a range with no bars falls back to equal time spans.
func (s *Store) Partition(symbol string, start, end int64, n int) ([]TimeRange, error) {
	target, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "partition count must be positive, got %d", n)
	}

	if s.config.Partition.Mode == PartitionByRows {
		if boundaries := target.SplitByCount(start, end, n); boundaries != nil {
			return rangesFromBoundaries(boundaries), nil
		}
	}

	return SplitTimeRange(start, end, n)
}

func rangesFromBoundaries(boundaries []int64) []TimeRange {
	ranges := make([]TimeRange, len(boundaries)-1)
	for i := range ranges {
		ranges[i] = TimeRange{Start: boundaries[i], End: boundaries[i+1]}
	}

	return ranges
}
