package importer

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/pkg/errors"
)

// ParquetSource reads bars from a parquet file laid out like the
// market_data table: time TIMESTAMP, symbol TEXT, open/high/low/close DOUBLE
// and volume as DOUBLE or UBIGINT.
// The file is scanned through an in-memory DuckDB connection.
type ParquetSource struct {
	path   string
	symbol string
	sq     squirrel.StatementBuilderType
}

// ParquetOption configures a ParquetSource.
type ParquetOption func(*ParquetSource)

// WithSymbolFilter keeps only the rows whose symbol column equals symbol.
// Files holding several symbols need it; single-symbol files do not.
func WithSymbolFilter(symbol string) ParquetOption {
	return func(p *ParquetSource) {
		p.symbol = symbol
	}
}

// NewParquetSource creates a source that reads the parquet file at path.
func NewParquetSource(path string, opts ...ParquetOption) *ParquetSource {
	p := &ParquetSource{
		path:   path,
		symbol: "",
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name implements Source.
func (p *ParquetSource) Name() string {
	return p.path
}

// Query returns the SQL used to read the file.
func (p *ParquetSource) Query() (string, []interface{}, error) {
	query := p.sq.
		Select(
			"time",
			"CAST(open AS DOUBLE) AS open",
			"CAST(high AS DOUBLE) AS high",
			"CAST(low AS DOUBLE) AS low",
			"CAST(close AS DOUBLE) AS close",
			"CAST(volume AS DOUBLE) AS volume",
			"TRY_CAST(volume AS UBIGINT) AS volume_exact",
		).
		From(fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(p.path, "'", "''"))).
		OrderBy("time ASC")

	if p.symbol != "" {
		query = query.Where(squirrel.Eq{"symbol": p.symbol})
	}

	return query.ToSql()
}

// Load implements Source. Row numbers in parse errors are 1-based positions
// in time order.
func (p *ParquetSource) Load() ([]types.Bar, error) {
	// DuckDB reports a missing file as a generic IO error; check up front so
	// the caller gets the underlying os error.
	if _, err := os.Stat(p.path); err != nil {
		return nil, errors.NewImportError(p.path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.NewImportError(p.path, err)
	}
	defer db.Close()

	query, args, err := p.Query()
	if err != nil {
		return nil, errors.NewImportError(p.path, err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewImportError(p.path, err)
	}
	defer rows.Close()

	bars := make([]types.Bar, 0)
	row := 0

	for rows.Next() {
		row++

		var (
			ts                             time.Time
			open, high, low, close, volume float64
			volumeExact                    sql.Null[uint64]
		)

		if err := rows.Scan(&ts, &open, &high, &low, &close, &volume, &volumeExact); err != nil {
			return bars, errors.NewParseError(p.path, row, 0, err)
		}

		bar := types.Bar{
			Timestamp: ts.UnixNano(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    0,
		}

		if err := bar.Validate(); err != nil {
			return bars, errors.NewParseError(p.path, row, 1, err)
		}

		for i, price := range []float64{open, high, low, close} {
			if math.IsNaN(price) || math.IsInf(price, 0) {
				return bars, errors.NewParseErrorf(p.path, row, i+2, "price %v is not a finite number", price)
			}
		}

		// volume_exact keeps UBIGINT columns exact; the DOUBLE view catches
		// fractional values, which TRY_CAST would round.
		if volume < 0 || volume != math.Trunc(volume) || !volumeExact.Valid {
			return bars, errors.NewParseErrorf(p.path, row, 6, "volume %v is not a non-negative integer", volume)
		}

		bar.Volume = volumeExact.V
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return bars, errors.NewImportError(p.path, err)
	}

	return bars, nil
}
