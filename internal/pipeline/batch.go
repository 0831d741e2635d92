package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultConcurrency is the number of concurrent jobs when WithConcurrency is
// not used.
const DefaultConcurrency = 3

// BatchProcessor runs jobs for many companies concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// limiter paces job starts. Nil means unlimited.
	limiter *rate.Limiter

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRateLimit caps job starts at perMinute per minute, allowing one
// immediate start. Non-positive values disable the limit.
func WithRateLimit(perMinute int) BatchOption {
	return func(b *BatchProcessor) {
		if perMinute <= 0 {
			b.limiter = nil
			return
		}
		b.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per job so no state leaks between jobs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job and returns them in input order.
// Job failures are recorded on the jobs; the returned error is non-nil only
// when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*Job) ([]*Job, error) {
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(*Job, int) {})
	return jobs, err
}

// ProcessBatchWithCallback runs every job and calls callback as each one
// finishes, with the job's index in jobs. The callback is called from the
// goroutine that ran the job, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []*Job,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_companies", len(jobs),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if bp.limiter != nil {
				if err := bp.limiter.Wait(ctx); err != nil {
					job.Err = err
					return ctx.Err()
				}
			}
			if err := ctx.Err(); err != nil {
				job.Err = err
				return err
			}

			bp.logger.Info("generating report",
				"company", job.Company,
				"index", i+1,
				"total", len(jobs),
			)

			// Failures stay on the job so the rest of the batch continues.
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("report generation failed",
					"company", job.Company,
					"error", err,
				)
			}

			callback(job, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch processing complete",
		"total_companies", len(jobs),
		"elapsed", time.Since(start),
	)
	return err
}
