// Package fxstore is an in-memory store of OHLCV bars keyed by symbol.
//
// A Store is created with New and shared by passing the pointer to every
// consumer. Imports and queries may run from any goroutine: each symbol has
// its own lock, so writing one symbol never blocks reads of another.
//
//	store := fxstore.New()
//	n, err := store.ImportCSV("eurusd.csv", "EURUSD")
//	bars, err := store.QueryRange("EURUSD", start, end)
package fxstore

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fxstore/internal/importer"
	"github.com/rxtech-lab/fxstore/internal/logger"
	"github.com/rxtech-lab/fxstore/internal/series"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/pkg/errors"
	"go.uber.org/zap"
)

type (
	Bar        = types.Bar
	SymbolInfo = types.SymbolInfo
	Format     = importer.Format
)

const (
	FormatCSV     = importer.FormatCSV
	FormatParquet = importer.FormatParquet
)

// Store maps symbol names to their bar series.
type Store struct {
	// series holds symbol -> *series.Series; entries are never removed
	series sync.Map
	config Config
	logger *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config Config) Option {
	return func(s *Store) {
		s.config = config
	}
}

// New creates an empty store with no symbols.
func New(opts ...Option) *Store {
	s := &Store{
		series: sync.Map{},
		config: DefaultConfig(),
		logger: logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Config returns the configuration the store was created with.
func (s *Store) Config() Config {
	return s.config
}

// register returns the series for symbol, creating it if needed.
func (s *Store) register(symbol string) *series.Series {
	if existing, ok := s.series.Load(symbol); ok {
		return existing.(*series.Series)
	}

	actual, loaded := s.series.LoadOrStore(symbol, series.New())
	if !loaded {
		s.logger.Debug("Registered symbol", zap.String("symbol", symbol))
	}

	return actual.(*series.Series)
}

func (s *Store) lookup(symbol string) (*series.Series, error) {
	value, ok := s.series.Load(symbol)
	if !ok {
		return nil, errors.NewUnknownSymbolError(symbol)
	}

	return value.(*series.Series), nil
}

// Import loads src and merges its bars into symbol.
//
// The symbol is registered before the source is read, so it exists even
// when the source is empty or fails. When the source reports a parse error
// the bars before the offending row are still merged and stay visible.
// Bars with a negative timestamp end the import the same way. The returned
// count is the number of bars merged, including ones that replaced a bar
// with the same timestamp.
func (s *Store) Import(src importer.Source, symbol string) (int, error) {
	target := s.register(symbol)
	began := time.Now()

	s.logger.Debug("Importing bars", zap.String("symbol", symbol), zap.String("source", src.Name()))

	bars, err := src.Load()
	for i, bar := range bars {
		if verr := bar.Validate(); verr != nil {
			bars = bars[:i]
			err = errors.Wrapf(errors.ErrCodeInvalidTimestamp, verr, "%s: bar %d", src.Name(), i+1)

			break
		}
	}

	count := target.InsertBatch(bars)

	if err != nil {
		fields := []zap.Field{
			zap.String("symbol", symbol),
			zap.String("source", src.Name()),
			zap.Int("committed", count),
			zap.Error(err),
		}
		if parseErr, ok := errors.AsParseError(err); ok {
			fields = append(fields, zap.Int("line", parseErr.Line))
		}

		s.logger.Warn("Import stopped early", fields...)

		return count, err
	}

	s.logger.Info("Imported bars",
		zap.String("symbol", symbol),
		zap.String("source", src.Name()),
		zap.Int("count", count),
		zap.Duration("duration", time.Since(began)),
	)

	return count, nil
}

// ImportCSV imports the CSV file at path into symbol.
func (s *Store) ImportCSV(path, symbol string) (int, error) {
	return s.Import(importer.NewCSVFileSource(path), symbol)
}

// ImportCSVReader imports CSV text read from r into symbol.
func (s *Store) ImportCSVReader(r io.Reader, symbol string) (int, error) {
	return s.Import(importer.NewCSVReaderSource(symbol, r), symbol)
}

// ImportParquet imports the parquet file at path into symbol.
func (s *Store) ImportParquet(path, symbol string, opts ...importer.ParquetOption) (int, error) {
	return s.Import(importer.NewParquetSource(path, opts...), symbol)
}

// InsertBars merges bars into symbol. The whole batch is rejected when any
// bar is invalid; the symbol is registered either way.
func (s *Store) InsertBars(symbol string, bars []types.Bar) (int, error) {
	target := s.register(symbol)

	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return 0, errors.Wrapf(errors.ErrCodeInvalidTimestamp, err, "bar %d", i)
		}
	}

	return target.InsertBatch(bars), nil
}

// QueryRange returns the bars of symbol with start <= Timestamp < end in
// ascending order. The slice is a copy owned by the caller.
func (s *Store) QueryRange(symbol string, start, end int64) ([]types.Bar, error) {
	target, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}

	return target.RangeQuery(start, end), nil
}

// GetSymbols returns the registered symbols in sorted order.
func (s *Store) GetSymbols() []string {
	symbols := make([]string, 0)

	s.series.Range(func(key, _ any) bool {
		symbols = append(symbols, key.(string))

		return true
	})
	sort.Strings(symbols)

	return symbols
}

// Len returns the number of bars stored for symbol.
func (s *Store) Len(symbol string) (int, error) {
	target, err := s.lookup(symbol)
	if err != nil {
		return 0, err
	}

	return target.Len(), nil
}

// Bounds returns the earliest and latest bar of symbol.
func (s *Store) Bounds(symbol string) (optional.Option[types.Bar], optional.Option[types.Bar], error) {
	target, err := s.lookup(symbol)
	if err != nil {
		return optional.None[types.Bar](), optional.None[types.Bar](), err
	}

	return target.First(), target.Last(), nil
}

// SymbolInfo describes a registered symbol.
func (s *Store) SymbolInfo(symbol string) (types.SymbolInfo, error) {
	if _, err := s.lookup(symbol); err != nil {
		return types.SymbolInfo{}, err
	}

	return types.ParseSymbolInfo(symbol), nil
}
