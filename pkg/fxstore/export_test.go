package fxstore

import (
	"math"
	"path/filepath"

	"github.com/rxtech-lab/fxstore/mocks"
	"github.com/rxtech-lab/fxstore/pkg/errors"
)

func (suite *StoreTestSuite) TestExportParquetRoundTrip() {
	bars := mocks.NewDataGenerator(9).Generate(mocks.DefaultConfig())
	_, err := suite.store.InsertBars("EURUSD", bars)
	suite.Require().NoError(err)

	path := filepath.Join(suite.T().TempDir(), "eurusd.parquet")
	n, err := suite.store.ExportParquet("EURUSD", path, bars[100].Timestamp, bars[200].Timestamp)
	suite.Require().NoError(err)
	suite.Equal(100, n)

	other := New()
	n, err = other.ImportParquet(path, "EURUSD")
	suite.Require().NoError(err)
	suite.Equal(100, n)

	loaded, err := other.QueryRange("EURUSD", 0, math.MaxInt64)
	suite.Require().NoError(err)
	suite.Equal(bars[100:200], loaded)
}

func (suite *StoreTestSuite) TestExportParquetKeepsVolumeExact() {
	bars := mocks.NewDataGenerator(4).Generate(mocks.DefaultConfig())[:3]
	bars[0].Volume = 1<<53 + 1
	bars[1].Volume = math.MaxUint64
	_, err := suite.store.InsertBars("EURUSD", bars)
	suite.Require().NoError(err)

	path := filepath.Join(suite.T().TempDir(), "volume.parquet")
	_, err = suite.store.ExportParquet("EURUSD", path, 0, math.MaxInt64)
	suite.Require().NoError(err)

	other := New()
	_, err = other.ImportParquet(path, "EURUSD")
	suite.Require().NoError(err)

	loaded, err := other.QueryRange("EURUSD", 0, math.MaxInt64)
	suite.Require().NoError(err)
	suite.Equal(bars, loaded)
}

func (suite *StoreTestSuite) TestExportParquetUnknownSymbol() {
	_, err := suite.store.ExportParquet("EURUSD", filepath.Join(suite.T().TempDir(), "x.parquet"), 0, math.MaxInt64)
	suite.True(errors.IsUnknownSymbolError(err))
}

func (suite *StoreTestSuite) TestExportParquetBadPath() {
	_, err := suite.store.InsertBars("EURUSD", mocks.NewDataGenerator(1).Generate(mocks.DefaultConfig())[:3])
	suite.Require().NoError(err)

	_, err = suite.store.ExportParquet("EURUSD", filepath.Join(suite.T().TempDir(), "missing", "dir", "x.parquet"), 0, math.MaxInt64)
	suite.Equal(errors.ErrCodeExportFailed, errors.GetCode(err))
}
