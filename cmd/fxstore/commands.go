package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/fxstore/internal/importer"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/pkg/fxstore"
	"github.com/urfave/cli/v3"
)

// barRecord is a bar in the importer's CSV layout, so query output can be
// loaded again.
type barRecord struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume uint64 `csv:"Volume"`
}

func writeBars(w io.Writer, bars []types.Bar) error {
	records := make([]barRecord, len(bars))
	for i, bar := range bars {
		records[i] = barRecord{
			Date:   bar.Time().Format(importer.DateLayout),
			Open:   formatPrice(bar, types.PriceOpen),
			High:   formatPrice(bar, types.PriceHigh),
			Low:    formatPrice(bar, types.PriceLow),
			Close:  formatPrice(bar, types.PriceClose),
			Volume: bar.Volume,
		}
	}

	return gocsv.Marshal(&records, w)
}

// formatPrice renders a price with fixed precision. Bars inserted through
// the API may carry NaN or Inf, which have no decimal form.
func formatPrice(bar types.Bar, field types.PriceField) string {
	v := bar.Price(field)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return bar.PriceDecimal(field).StringFixed(types.PricePrecision)
}

// timeRange reads --start and --end, defaulting to the whole series.
func timeRange(cmd *cli.Command) (int64, int64) {
	start := int64(0)
	end := int64(math.MaxInt64)

	if cmd.IsSet("start") {
		start = cmd.Timestamp("start").UnixNano()
	}

	if cmd.IsSet("end") {
		end = cmd.Timestamp("end").UnixNano()
	}

	return start, end
}

func queryAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	start, end := timeRange(cmd)

	bars, err := store.QueryRange(cmd.String("symbol"), start, end)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(bars)
	}

	return writeBars(os.Stdout, bars)
}

func symbolsAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	return writeSymbols(os.Stdout, store)
}

func writeSymbols(w io.Writer, store *fxstore.Store) error {
	for _, symbol := range store.GetSymbols() {
		count, err := store.Len(symbol)
		if err != nil {
			return err
		}

		first, last, err := store.Bounds(symbol)
		if err != nil {
			return err
		}

		info, err := store.SymbolInfo(symbol)
		if err != nil {
			return err
		}

		bounds := "-"
		if first.IsSome() && last.IsSome() {
			bounds = fmt.Sprintf("%s..%s",
				first.Unwrap().Time().Format(importer.DateLayout),
				last.Unwrap().Time().Format(importer.DateLayout))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", info.Name, info.Base, info.Quote, count, bounds)
	}

	return nil
}

func partitionAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	symbol := cmd.String("symbol")
	start, end := timeRange(cmd)

	ranges, err := store.Partition(symbol, start, end, int(cmd.Int("parts")))
	if err != nil {
		return err
	}

	for _, r := range ranges {
		bars, err := store.QueryRange(symbol, r.Start, r.End)
		if err != nil {
			return err
		}

		fmt.Printf("%d\t%d\t%d\n", r.Start, r.End, len(bars))
	}

	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	start, end := timeRange(cmd)
	output := cmd.String("output")

	n, err := store.ExportParquet(cmd.String("symbol"), output, start, end)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %d bars to %s\n", n, output)

	return nil
}
