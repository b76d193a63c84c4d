package main

import (
	"context"
	"os"
	"strings"

	"github.com/rxtech-lab/fxstore/internal/logger"
	"github.com/rxtech-lab/fxstore/pkg/errors"
	"github.com/rxtech-lab/fxstore/pkg/fxstore"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// parseSource parses a --source value of the form SYMBOL=PATH.
func parseSource(value string) (fxstore.ImportJob, error) {
	symbol, path, ok := strings.Cut(value, "=")
	symbol = strings.TrimSpace(symbol)
	path = strings.TrimSpace(path)

	if !ok || symbol == "" || path == "" {
		return fxstore.ImportJob{}, errors.Newf(errors.ErrCodeInvalidParameter, "invalid source %q, expected SYMBOL=PATH", value)
	}

	return fxstore.ImportJob{Symbol: symbol, Path: path, Format: ""}, nil
}

// loadConfig returns the --config file, or the defaults when none is given,
// with --source jobs appended.
func loadConfig(cmd *cli.Command) (fxstore.Config, error) {
	config := fxstore.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := fxstore.LoadConfig(path)
		if err != nil {
			return fxstore.Config{}, err
		}

		config = loaded
	}

	for _, value := range cmd.StringSlice("source") {
		job, err := parseSource(value)
		if err != nil {
			return fxstore.Config{}, err
		}

		config.Sources = append(config.Sources, fxstore.SourceConfig{Symbol: job.Symbol, Path: job.Path, Format: job.Format})
	}

	if level := cmd.String("log-level"); level != "" {
		config.LogLevel = level
	}

	return config, nil
}

// openStore builds a store from the command flags and imports every
// configured source. Stdout is left to command output.
func openStore(ctx context.Context, cmd *cli.Command) (*fxstore.Store, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewStderrLogger(config.LogLevel)
	if err != nil {
		return nil, err
	}
	defer log.Sync() //nolint:errcheck

	store := fxstore.New(fxstore.WithConfig(config), fxstore.WithLogger(log))

	jobs := config.Jobs()
	if len(jobs) == 0 {
		return store, nil
	}

	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionClearOnFinish(),
	)

	_, err = store.ImportFiles(ctx, jobs, fxstore.WithProgress(func(result fxstore.ImportResult) {
		_ = bar.Add(1)

		if result.Err != nil {
			log.Error("Failed to import file",
				zap.String("id", result.ID.String()),
				zap.String("symbol", result.Symbol),
				zap.String("path", result.Path),
				zap.Int("committed", result.Count),
				zap.Error(result.Err),
			)
		}
	}))
	if err != nil {
		return nil, err
	}

	return store, nil
}
