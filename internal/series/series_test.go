package series

import (
	"math"
	"sync"
	"testing"

	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func bar(ts int64, close float64) types.Bar {
	return types.Bar{Timestamp: ts, Open: close, High: close, Low: close, Close: close, Volume: uint64(ts)}
}

func timestamps(bars []types.Bar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}

	return out
}

func (suite *SeriesTestSuite) TestInsertBatchSortsUnsortedInput() {
	s := New()
	n := s.InsertBatch([]types.Bar{bar(30, 3), bar(10, 1), bar(20, 2)})

	suite.Equal(3, n)
	suite.Equal(3, s.Len())
	suite.Equal([]int64{10, 20, 30}, timestamps(s.RangeQuery(0, math.MaxInt64)))
}

func (suite *SeriesTestSuite) TestInsertBatchEmpty() {
	s := New()
	suite.Equal(0, s.InsertBatch(nil))
	suite.Equal(0, s.Len())
	suite.True(s.First().IsNone())
	suite.True(s.Last().IsNone())
}

func (suite *SeriesTestSuite) TestInsertBatchAppendFastPath() {
	s := New()
	s.InsertBatch([]types.Bar{bar(1, 1), bar(2, 2)})
	s.InsertBatch([]types.Bar{bar(4, 4), bar(3, 3)})

	suite.Equal([]int64{1, 2, 3, 4}, timestamps(s.RangeQuery(0, 10)))
}

func (suite *SeriesTestSuite) TestInsertBatchInterleavedMerge() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1), bar(30, 3), bar(50, 5)})
	s.InsertBatch([]types.Bar{bar(40, 4), bar(5, 0.5), bar(20, 2)})

	suite.Equal([]int64{5, 10, 20, 30, 40, 50}, timestamps(s.RangeQuery(0, 100)))
}

func (suite *SeriesTestSuite) TestLastWriteWinsAgainstExisting() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1), bar(20, 2), bar(30, 3)})
	s.InsertBatch([]types.Bar{bar(20, 99)})

	result := s.RangeQuery(0, 100)
	suite.Len(result, 3)
	suite.Equal(99.0, result[1].Close)
}

func (suite *SeriesTestSuite) TestLastWriteWinsWithinBatch() {
	s := New()
	s.InsertBatch([]types.Bar{bar(20, 1), bar(10, 5), bar(20, 2), bar(20, 3)})

	result := s.RangeQuery(0, 100)
	suite.Equal([]int64{10, 20}, timestamps(result))
	suite.Equal(3.0, result[1].Close)
}

func (suite *SeriesTestSuite) TestIdempotentReinsert() {
	batch := []types.Bar{bar(1, 1), bar(2, 2), bar(3, 3)}
	s := New()
	s.InsertBatch(batch)
	before := s.RangeQuery(0, 10)

	s.InsertBatch(batch)
	suite.Equal(3, s.Len())
	suite.Equal(before, s.RangeQuery(0, 10))
}

func (suite *SeriesTestSuite) TestInsertBatchDoesNotMutateInput() {
	batch := []types.Bar{bar(3, 3), bar(1, 1)}
	New().InsertBatch(batch)

	suite.Equal([]int64{3, 1}, timestamps(batch))
}

func (suite *SeriesTestSuite) TestRangeQueryHalfOpen() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1), bar(20, 2), bar(30, 3), bar(40, 4)})

	suite.Equal([]int64{20, 30}, timestamps(s.RangeQuery(20, 40)))
	suite.Equal([]int64{20, 30, 40}, timestamps(s.RangeQuery(11, 41)))
	suite.Empty(s.RangeQuery(41, 100))
	suite.Empty(s.RangeQuery(0, 10))
}

func (suite *SeriesTestSuite) TestRangeQueryEmptyInterval() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1), bar(20, 2)})

	for _, t := range []int64{0, 10, 15, 20, 100} {
		result := s.RangeQuery(t, t)
		suite.NotNil(result)
		suite.Empty(result)
	}

	suite.Empty(s.RangeQuery(20, 10))
}

func (suite *SeriesTestSuite) TestRangeQueryReturnsCopy() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1)})

	result := s.RangeQuery(0, 100)
	result[0].Close = 42

	suite.Equal(1.0, s.RangeQuery(0, 100)[0].Close)
}

func (suite *SeriesTestSuite) TestTiling() {
	s := New()
	var batch []types.Bar
	for i := int64(0); i < 100; i++ {
		batch = append(batch, bar(i*7, float64(i)))
	}
	s.InsertBatch(batch)

	full := s.RangeQuery(3, 600)
	for _, m := range []int64{3, 4, 7, 100, 350, 599, 600} {
		left := s.RangeQuery(3, m)
		right := s.RangeQuery(m, 600)
		suite.Equal(full, append(left, right...), "split at %d", m)
	}
}

func (suite *SeriesTestSuite) TestCountRange() {
	s := New()
	s.InsertBatch([]types.Bar{bar(10, 1), bar(20, 2), bar(30, 3)})

	suite.Equal(2, s.CountRange(10, 30))
	suite.Equal(0, s.CountRange(30, 30))
	suite.Equal(3, s.CountRange(math.MinInt64, math.MaxInt64))
}

func (suite *SeriesTestSuite) TestFirstLast() {
	s := New()
	s.InsertBatch([]types.Bar{bar(20, 2), bar(10, 1), bar(30, 3)})

	suite.Equal(int64(10), s.First().Unwrap().Timestamp)
	suite.Equal(int64(30), s.Last().Unwrap().Timestamp)
}

func (suite *SeriesTestSuite) TestSplitByCount() {
	s := New()
	var batch []types.Bar
	for i := int64(0); i < 10; i++ {
		batch = append(batch, bar(i*10, float64(i)))
	}
	s.InsertBatch(batch)

	boundaries := s.SplitByCount(0, 100, 2)
	suite.Equal([]int64{0, 50, 100}, boundaries)

	boundaries = s.SplitByCount(5, 95, 3)
	suite.Equal(int64(5), boundaries[0])
	suite.Equal(int64(95), boundaries[3])

	total := 0
	for i := 0; i < 3; i++ {
		got := s.CountRange(boundaries[i], boundaries[i+1])
		suite.Equal(3, got)
		total += got
	}
	suite.Equal(s.CountRange(5, 95), total)
}

func (suite *SeriesTestSuite) TestSplitByCountDegenerate() {
	s := New()
	suite.Nil(s.SplitByCount(0, 100, 2))

	s.InsertBatch([]types.Bar{bar(10, 1)})
	suite.Nil(s.SplitByCount(0, 100, 0))
	suite.Nil(s.SplitByCount(50, 50, 2))
	suite.Nil(s.SplitByCount(20, 100, 2))

	// More parts than bars still tiles
	boundaries := s.SplitByCount(0, 100, 4)
	suite.Len(boundaries, 5)
	for i := 1; i < len(boundaries); i++ {
		suite.LessOrEqual(boundaries[i-1], boundaries[i])
	}
}

func (suite *SeriesTestSuite) TestConcurrentInsertAndQuery() {
	s := New()
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var batch []types.Bar
			for i := 0; i < 100; i++ {
				batch = append(batch, bar(int64(i*8+w), float64(w)))
			}
			s.InsertBatch(batch)
		}(w)
	}

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				result := s.RangeQuery(0, 800)
				for j := 1; j < len(result); j++ {
					if result[j-1].Timestamp >= result[j].Timestamp {
						suite.Fail("results out of order")

						return
					}
				}
			}
		}()
	}

	wg.Wait()
	suite.Equal(800, s.Len())
}
