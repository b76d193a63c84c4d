// Package exporter writes stored bars to files other tools can read.
package exporter

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/pkg/errors"
)

// ParquetWriter stages bars in an in-memory DuckDB table and copies them to
// a parquet file on Finalize. The file uses the market_data layout read by
// importer.ParquetSource.
type ParquetWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	symbol     string
	rows       int
}

// NewParquetWriter creates a writer for bars of symbol.
func NewParquetWriter(outputPath, symbol string) *ParquetWriter {
	return &ParquetWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		outputPath: outputPath,
		symbol:     symbol,
		rows:       0,
	}
}

// Initialize opens the staging database and prepares the insert statement.
func (w *ParquetWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume UBIGINT
		)
	`)
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, CAST(CAST(? AS VARCHAR) AS UBIGINT))
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// Write stages one bar.
func (w *ParquetWriter) Write(bar types.Bar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "writer not initialized")
	}

	_, err := w.stmt.Exec(
		uuid.New().String(),
		bar.Time(),
		w.symbol,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		// database/sql rejects uint64 values with the high bit set
		strconv.FormatUint(bar.Volume, 10),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bar: %w", err)
	}

	w.rows++

	return nil
}

// Finalize commits the staged bars and writes the parquet file.
func (w *ParquetWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeInvalidParameter, "writer not initialized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	query := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY time) TO '%s' (FORMAT PARQUET)`,
		strings.ReplaceAll(w.outputPath, "'", "''"))
	if _, err := w.db.Exec(query); err != nil {
		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return w.outputPath, nil
}

// Rows returns the number of bars written so far.
func (w *ParquetWriter) Rows() int {
	return w.rows
}

// Close releases the staging database. A transaction that was never
// finalized is rolled back.
func (w *ParquetWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return fmt.Errorf("errors occurred during close: %s", strings.Join(closeErrors, "; "))
	}

	return nil
}

// WriteParquet writes bars of symbol to a parquet file at path.
func WriteParquet(path, symbol string, bars []types.Bar) (err error) {
	w := NewParquetWriter(path, symbol)
	if err := w.Initialize(); err != nil {
		return err
	}

	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()

	for _, bar := range bars {
		if err := w.Write(bar); err != nil {
			return err
		}
	}

	_, err = w.Finalize()

	return err
}
