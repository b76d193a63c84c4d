package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rxtech-lab/fxstore/internal/version"
	"github.com/rxtech-lab/fxstore/pkg/fxstore"
	"github.com/urfave/cli/v3"
)

var timestampConfig = cli.TimestampConfig{
	Timezone: time.UTC,
	Layouts:  []string{"2006-01-02", "20060102 150405", time.RFC3339},
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "symbol",
			Aliases:  []string{"s"},
			Usage:    "Symbol to read",
			Required: true,
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "Inclusive start as `YYYY-MM-DD`, YYYYMMDD HHMMSS or RFC3339. Defaults to the first bar.",
			Config: timestampConfig,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Exclusive end, same layouts as --start. Defaults to after the last bar.",
			Config: timestampConfig,
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "fxstore",
		Usage: "Load OHLCV files into memory and query them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"i"},
				Usage:   "File to load as `SYMBOL=PATH`, may be repeated",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "query",
				Usage: "Print the bars of a symbol in a time range as CSV",
				Flags: append(rangeFlags(), &cli.BoolFlag{
					Name:  "json",
					Usage: "Print bars as JSON instead of CSV",
				}),
				Action: queryAction,
			},
			{
				Name:   "symbols",
				Usage:  "List loaded symbols with their bar counts and bounds",
				Action: symbolsAction,
			},
			{
				Name:  "partition",
				Usage: "Split a time range into sub-ranges for parallel reads",
				Flags: append(rangeFlags(), &cli.IntFlag{
					Name:    "parts",
					Aliases: []string{"n"},
					Usage:   "Number of sub-ranges",
					Value:   4,
				}),
				Action: partitionAction,
			},
			{
				Name:  "export",
				Usage: "Write the bars of a symbol in a time range to a parquet file",
				Flags: append(rangeFlags(), &cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Usage:    "Path of the parquet file to write",
					Required: true,
				}),
				Action: exportAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the config file",
				Action: func(_ context.Context, _ *cli.Command) error {
					schema, err := fxstore.ConfigSchema()
					if err != nil {
						return err
					}

					fmt.Println(schema)

					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Println(version.GetVersion())

					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
