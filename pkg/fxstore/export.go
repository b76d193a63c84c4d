package fxstore

import (
	"github.com/rxtech-lab/fxstore/internal/exporter"
	"github.com/rxtech-lab/fxstore/pkg/errors"
	"go.uber.org/zap"
)

// ExportParquet writes the bars of symbol in [start, end) to a parquet file
// that ImportParquet can load again. Returns the number of bars written.
func (s *Store) ExportParquet(symbol, path string, start, end int64) (int, error) {
	bars, err := s.QueryRange(symbol, start, end)
	if err != nil {
		return 0, err
	}

	if err := exporter.WriteParquet(path, symbol, bars); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to export %s to %s", symbol, path)
	}

	s.logger.Info("Exported bars to Parquet file",
		zap.String("symbol", symbol),
		zap.String("path", path),
		zap.Int("count", len(bars)),
	)

	return len(bars), nil
}
