package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of report production.
type Step interface {
	// Do executes the step against job. A returned error stops the pipeline
	// and is recorded on the job.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline running steps in the given order.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{steps: steps}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Execute runs every step against job, stopping at the first error.
// Cancellation is checked before each step; the error is also stored on job.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	start := time.Now()
	defer func() { job.Elapsed = time.Since(start) }()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"company", job.Company,
				"reason", err,
			)
			job.Err = err
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"company", job.Company,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Warn("step failed",
				"step", step.Name(),
				"company", job.Company,
				"error", err,
			)
			job.Err = err
			return err
		}
		job.Steps = append(job.Steps, step.Name())
	}
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
