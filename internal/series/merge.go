package series

import (
	"sort"

	"github.com/rxtech-lab/fxstore/internal/types"
)

// normalizeBatch returns a sorted copy of batch with unique timestamps.
// When a timestamp repeats, the occurrence that came last in batch wins.
func normalizeBatch(batch []types.Bar) []types.Bar {
	sorted := make([]types.Bar, len(batch))
	copy(sorted, batch)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	// Stable sort keeps equal timestamps in input order, so the last one of
	// each run is the latest write.
	out := sorted[:0]
	for i, bar := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Timestamp == bar.Timestamp {
			continue
		}

		out = append(out, bar)
	}

	return out
}

// mergeSorted merges two sorted, duplicate-free sequences. On equal
// timestamps the bar from incoming replaces the existing one.
func mergeSorted(existing, incoming []types.Bar) []types.Bar {
	merged := make([]types.Bar, 0, len(existing)+len(incoming))

	i, j := 0, 0
	for i < len(existing) && j < len(incoming) {
		switch {
		case existing[i].Timestamp < incoming[j].Timestamp:
			merged = append(merged, existing[i])
			i++
		case existing[i].Timestamp > incoming[j].Timestamp:
			merged = append(merged, incoming[j])
			j++
		default:
			merged = append(merged, incoming[j])
			i++
			j++
		}
	}

	merged = append(merged, existing[i:]...)
	merged = append(merged, incoming[j:]...)

	return merged
}
