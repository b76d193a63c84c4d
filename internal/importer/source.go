// Package importer turns external market data into bars for the store.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/fxstore/internal/types"
)

// Source produces bars for a single symbol.
type Source interface {
	// Name identifies the source in logs and errors, usually a file path.
	Name() string
	// Load reads every bar of the source in source order.
	// It returns an *errors.ImportError when the source cannot be read.
	// On an *errors.ParseError it also returns the bars parsed before the
	// offending row, so callers can commit that prefix.
	Load() ([]types.Bar, error)
}

// Format names a supported source encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// FormatFromPath infers the format from the file extension.
// Anything that is not .parquet is treated as CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}

	return FormatCSV
}
