package series

import (
	"sort"

	"github.com/rxtech-lab/fxstore/internal/types"
)

// lowerBound returns the index of the first bar whose timestamp is >= ts.
func lowerBound(bars []types.Bar, ts int64) int {
	return sort.Search(len(bars), func(i int) bool {
		return bars[i].Timestamp >= ts
	})
}

// searchRange returns the bounds [lo, hi) of the bars inside the half-open
// interval [start, end). It never scans; both bounds are binary searched.
func searchRange(bars []types.Bar, start, end int64) (int, int) {
	if start >= end {
		return 0, 0
	}

	lo := lowerBound(bars, start)
	hi := lo + lowerBound(bars[lo:], end)

	return lo, hi
}
