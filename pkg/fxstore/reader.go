package fxstore

import "github.com/rxtech-lab/fxstore/internal/types"

// Reader is the read side of a Store. Consumers such as backtesters and
// batch pipelines should accept a Reader rather than a *Store.
type Reader interface {
	// QueryRange returns the bars of symbol with start <= Timestamp < end.
	QueryRange(symbol string, start, end int64) ([]types.Bar, error)
	// GetSymbols returns every registered symbol in sorted order.
	GetSymbols() []string
}

var _ Reader = (*Store)(nil)
