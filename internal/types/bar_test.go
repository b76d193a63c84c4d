package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/fxstore/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BarTestSuite struct {
	suite.Suite
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func (suite *BarTestSuite) TestValidate() {
	suite.NoError(Bar{Timestamp: 0}.Validate())
	suite.NoError(Bar{Timestamp: 1672574400 * int64(time.Second)}.Validate())

	err := Bar{Timestamp: -1}.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimestamp))
}

func (suite *BarTestSuite) TestValidateToleratesInconsistentPrices() {
	// Low above high is garbage, but not the store's concern
	bar := Bar{Timestamp: 10, Open: 1, High: 0.5, Low: 2, Close: 3}
	suite.NoError(bar.Validate())
}

func (suite *BarTestSuite) TestTime() {
	bar := Bar{Timestamp: 1672574400 * int64(time.Second)}
	suite.Equal(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), bar.Time())
	suite.Equal(time.UTC, bar.Time().Location())
}

func (suite *BarTestSuite) TestBefore() {
	a := Bar{Timestamp: 1, Open: 9}
	b := Bar{Timestamp: 2, Open: 1}

	suite.True(a.Before(b))
	suite.False(b.Before(a))
	suite.False(a.Before(Bar{Timestamp: 1, Open: 100}))
}

func (suite *BarTestSuite) TestPriceDecimal() {
	bar := Bar{Open: 1.10000, High: 1.100504, Low: 1.09950, Close: 1.100606}

	suite.Equal("1.1", bar.PriceDecimal(PriceOpen).String())
	suite.Equal("1.1005", bar.PriceDecimal(PriceHigh).String())
	suite.Equal("1.0995", bar.PriceDecimal(PriceLow).String())
	suite.Equal("1.10061", bar.PriceDecimal(PriceClose).String())
	suite.Equal("1.10061", bar.PriceDecimal(PriceClose).StringFixed(PricePrecision))
	suite.Equal(0.0, bar.Price(PriceField(42)))
}

func (suite *BarTestSuite) TestParseSymbolInfo() {
	tests := []struct {
		name     string
		expected SymbolInfo
	}{
		{"EURUSD", SymbolInfo{Name: "EURUSD", Base: "EUR", Quote: "USD"}},
		{"eurusd", SymbolInfo{Name: "eurusd", Base: "eur", Quote: "usd"}},
		{"BTC/USDT", SymbolInfo{Name: "BTC/USDT", Base: "BTC", Quote: "USDT"}},
		{"BTC-USD", SymbolInfo{Name: "BTC-USD", Base: "BTC", Quote: "USD"}},
		{"AAPL", SymbolInfo{Name: "AAPL", Base: "AAPL", Quote: ""}},
		{"US500X", SymbolInfo{Name: "US500X", Base: "US500X", Quote: ""}},
		{"/USD", SymbolInfo{Name: "/USD", Base: "/USD", Quote: ""}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, ParseSymbolInfo(tt.name))
		})
	}
}
