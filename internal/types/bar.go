package types

import (
	"time"

	"github.com/rxtech-lab/fxstore/pkg/errors"
	"github.com/shopspring/decimal"
)

// PricePrecision is the number of decimal places quoted for FX prices.
const PricePrecision = 5

// Bar is a single OHLCV record for one instant in time.
// Bars are ordered and compared by Timestamp only.
type Bar struct {
	// Timestamp is nanoseconds since the Unix epoch, UTC.
	Timestamp int64   `json:"timestamp" csv:"timestamp"`
	Open      float64 `json:"open" csv:"open"`
	High      float64 `json:"high" csv:"high"`
	Low       float64 `json:"low" csv:"low"`
	Close     float64 `json:"close" csv:"close"`
	Volume    uint64  `json:"volume" csv:"volume"`
}

// PriceField selects one of the four prices of a bar.
type PriceField int

const (
	PriceOpen PriceField = iota
	PriceHigh
	PriceLow
	PriceClose
)

// Validate checks the only invariant the store enforces on a bar: the
// timestamp must not precede the epoch. Price relationships are not checked.
func (b Bar) Validate() error {
	if b.Timestamp < 0 {
		return errors.Newf(errors.ErrCodeInvalidTimestamp, "timestamp must be >= 0, got %d", b.Timestamp)
	}

	return nil
}

// Time returns the bar timestamp as a UTC time.
func (b Bar) Time() time.Time {
	return time.Unix(0, b.Timestamp).UTC()
}

// Before reports whether b is ordered before other.
func (b Bar) Before(other Bar) bool {
	return b.Timestamp < other.Timestamp
}

// Price returns the selected price.
func (b Bar) Price(field PriceField) float64 {
	switch field {
	case PriceOpen:
		return b.Open
	case PriceHigh:
		return b.High
	case PriceLow:
		return b.Low
	case PriceClose:
		return b.Close
	default:
		return 0
	}
}

// PriceDecimal returns the selected price rounded to PricePrecision places.
func (b Bar) PriceDecimal(field PriceField) decimal.Decimal {
	return decimal.NewFromFloat(b.Price(field)).Round(PricePrecision)
}
