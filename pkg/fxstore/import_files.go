package fxstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rxtech-lab/fxstore/internal/importer"
	"github.com/rxtech-lab/fxstore/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImportJob describes one file to import.
type ImportJob struct {
	Symbol string
	Path   string
	// Format is inferred from the file extension when empty.
	Format Format
}

// ImportResult reports the outcome of one ImportJob.
type ImportResult struct {
	ID     uuid.UUID
	Symbol string
	Path   string
	// Count is the number of bars merged, including a committed prefix on error.
	Count int
	Err   error
}

// ImportOption configures ImportFiles.
type ImportOption func(*importOptions)

type importOptions struct {
	progress func(ImportResult)
}

// WithProgress registers a callback invoked once per finished job.
// Calls are serialized.
func WithProgress(fn func(ImportResult)) ImportOption {
	return func(o *importOptions) {
		o.progress = fn
	}
}

// ImportFiles imports jobs concurrently, running at most
// Config.ImportWorkers at a time. A failing job does not stop the others;
// jobs that have not started when ctx is done are marked canceled.
// Results are returned in job order together with the first error.
func (s *Store) ImportFiles(ctx context.Context, jobs []ImportJob, opts ...ImportOption) ([]ImportResult, error) {
	options := importOptions{progress: nil}
	for _, opt := range opts {
		opt(&options)
	}

	workers := s.config.ImportWorkers
	if workers < 1 {
		workers = 1
	}

	results := make([]ImportResult, len(jobs))
	var progressMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		results[i] = ImportResult{
			ID:     uuid.New(),
			Symbol: job.Symbol,
			Path:   job.Path,
			Count:  0,
			Err:    nil,
		}

		g.Go(func() error {
			result := &results[i]

			if err := ctx.Err(); err != nil {
				result.Err = errors.Wrapf(errors.ErrCodeImportCanceled, err, "import of %s canceled", job.Path)
			} else {
				result.Count, result.Err = s.importJob(job)
			}

			if options.progress != nil {
				progressMu.Lock()
				options.progress(*result)
				progressMu.Unlock()
			}

			return result.Err
		})
	}

	err := g.Wait()
	if err != nil {
		s.logger.Warn("Some imports failed", zap.Int("jobs", len(jobs)), zap.Error(err))
	}

	return results, err
}

func (s *Store) importJob(job ImportJob) (int, error) {
	format := job.Format
	if format == "" {
		format = importer.FormatFromPath(job.Path)
	}

	switch format {
	case FormatCSV:
		return s.ImportCSV(job.Path, job.Symbol)
	case FormatParquet:
		return s.ImportParquet(job.Path, job.Symbol)
	default:
		return 0, errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported format %q for %s", format, job.Path)
	}
}
