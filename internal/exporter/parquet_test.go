package exporter

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/fxstore/internal/importer"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/mocks"
	"github.com/stretchr/testify/suite"
)

type ParquetWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestParquetWriterSuite(t *testing.T) {
	suite.Run(t, new(ParquetWriterTestSuite))
}

func (suite *ParquetWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *ParquetWriterTestSuite) TestWriteWithoutInitialize() {
	w := NewParquetWriter(filepath.Join(suite.tempDir, "out.parquet"), "EURUSD")

	suite.Error(w.Write(types.Bar{Timestamp: 0}))

	_, err := w.Finalize()
	suite.Error(err)
	suite.NoError(w.Close())
}

func (suite *ParquetWriterTestSuite) TestCloseWithoutFinalize() {
	w := NewParquetWriter(filepath.Join(suite.tempDir, "out.parquet"), "EURUSD")
	suite.Require().NoError(w.Initialize())
	suite.Require().NoError(w.Write(types.Bar{Timestamp: 0, Close: 1}))
	suite.Equal(1, w.Rows())

	suite.NoError(w.Close())
	suite.NoError(w.Close())
}

func (suite *ParquetWriterTestSuite) TestRoundTrip() {
	config := mocks.DefaultConfig()
	config.Count = 200
	bars := mocks.NewDataGenerator(3).Generate(config)
	path := filepath.Join(suite.tempDir, "eurusd.parquet")

	suite.Require().NoError(WriteParquet(path, "EURUSD", bars))

	loaded, err := importer.NewParquetSource(path, importer.WithSymbolFilter("EURUSD")).Load()
	suite.Require().NoError(err)
	suite.Equal(bars, loaded)

	other, err := importer.NewParquetSource(path, importer.WithSymbolFilter("GBPUSD")).Load()
	suite.Require().NoError(err)
	suite.Empty(other)
}

func (suite *ParquetWriterTestSuite) TestEmptyExport() {
	path := filepath.Join(suite.tempDir, "empty.parquet")
	suite.Require().NoError(WriteParquet(path, "EURUSD", nil))

	loaded, err := importer.NewParquetSource(path).Load()
	suite.Require().NoError(err)
	suite.Empty(loaded)
}

func (suite *ParquetWriterTestSuite) TestRoundTripLargeVolume() {
	bars := []types.Bar{
		{Timestamp: 1672574400_000000000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1, Volume: 1<<53 + 1},
		{Timestamp: 1672574460_000000000, Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1, Volume: math.MaxUint64},
	}
	path := filepath.Join(suite.tempDir, "large.parquet")

	suite.Require().NoError(WriteParquet(path, "EURUSD", bars))

	loaded, err := importer.NewParquetSource(path).Load()
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 2)
	suite.Equal(uint64(1<<53+1), loaded[0].Volume)
	suite.Equal(uint64(math.MaxUint64), loaded[1].Volume)
}
