package mocks

import (
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/fxstore/internal/types"
)

// DataGenerator generates realistic FX bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartTime is the timestamp of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per bar (0.0005 = 5 pips on 1.0)
	Volatility float64
	// Trend is the drift factor over the whole series
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one day of
// one-minute EURUSD-like bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          1440,
		InitialPrice:   1.1,
		Volatility:     0.0005,
		Trend:          0.0,
		VolumeBase:     100,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion.
// Prices are rounded to types.PricePrecision decimals.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Timestamp: currentTime.UnixNano(),
			Open:      roundToDecimals(open, types.PricePrecision),
			High:      roundToDecimals(high, types.PricePrecision),
			Low:       roundToDecimals(low, types.PricePrecision),
			Close:     roundToDecimals(close, types.PricePrecision),
			Volume:    uint64(math.Round(volume)),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K() []types.Bar {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 10000

	return gen.Generate(config)
}

type csvRecord struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume uint64 `csv:"Volume"`
}

// WriteCSV writes bars in the importer's Date,Open,High,Low,Close,Volume format.
// Bars must have whole-second timestamps to round-trip.
func WriteCSV(w io.Writer, bars []types.Bar) error {
	records := make([]csvRecord, len(bars))
	for i, bar := range bars {
		records[i] = csvRecord{
			Date:   bar.Time().Format("20060102 150405"),
			Open:   formatPrice(bar.Open),
			High:   formatPrice(bar.High),
			Low:    formatPrice(bar.Low),
			Close:  formatPrice(bar.Close),
			Volume: bar.Volume,
		}
	}

	return gocsv.Marshal(&records, w)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', types.PricePrecision, 64)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
