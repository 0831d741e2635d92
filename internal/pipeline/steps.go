package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/corpscope/internal/client"
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/session"
)

// Generator produces a report for a company. *client.Client implements it.
type Generator interface {
	GenerateReport(ctx context.Context, req client.GenerateRequest) (*model.ReportData, error)
}

// GenerateStep asks the backend for the job's report.
type GenerateStep struct {
	generator Generator
}

// NewGenerateStep creates a GenerateStep.
func NewGenerateStep(g Generator) *GenerateStep {
	return &GenerateStep{generator: g}
}

// Name returns the step name.
func (s *GenerateStep) Name() string {
	return "generate"
}

// Do calls the backend and stores the result on job.
func (s *GenerateStep) Do(ctx context.Context, job *Job) error {
	data, err := s.generator.GenerateReport(ctx, client.NewGenerateRequest(job.Company, job.Link))
	if err != nil {
		return err
	}
	job.Data = data
	return nil
}

// ValidateStep rejects results without a report body.
type ValidateStep struct{}

// Name returns the step name.
func (ValidateStep) Name() string {
	return "validate"
}

// Do validates job.Data.
func (ValidateStep) Do(_ context.Context, job *Job) error {
	if job.Data == nil {
		return model.ErrMissingReport
	}
	return job.Data.Validate()
}

// StoreStep saves the job's report as the session's current report.
type StoreStep struct {
	store session.Store
}

// NewStoreStep creates a StoreStep writing to store.
func NewStoreStep(store session.Store) *StoreStep {
	return &StoreStep{store: store}
}

// Name returns the step name.
func (s *StoreStep) Name() string {
	return "store"
}

// Do saves job.Data.
func (s *StoreStep) Do(ctx context.Context, job *Job) error {
	if err := session.SaveReport(ctx, s.store, job.Data); err != nil {
		return fmt.Errorf("failed to store report for %s: %w", job.Company, err)
	}
	return nil
}

// DefaultSteps returns generate and validate, followed by store when store
// is non-nil.
func DefaultSteps(g Generator, store session.Store) []Step {
	steps := []Step{NewGenerateStep(g), ValidateStep{}}
	if store != nil {
		steps = append(steps, NewStoreStep(store))
	}
	return steps
}
