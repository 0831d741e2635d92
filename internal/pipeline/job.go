package pipeline

import (
	"time"

	"github.com/nao1215/corpscope/internal/model"
)

// Job carries one company through the pipeline.
type Job struct {
	// Company is the company name as given by the user.
	Company string

	// Link is the optional company website; empty means none.
	Link string

	// Data is the backend result, set by GenerateStep.
	Data *model.ReportData

	// Err is the first step error, if any.
	Err error

	// Steps lists the steps that ran, in order.
	Steps []string

	// Elapsed is the wall time spent in Execute.
	Elapsed time.Duration
}

// NewJob creates a Job for company.
func NewJob(company, link string) *Job {
	return &Job{Company: company, Link: link}
}

// Succeeded reports whether the job produced a report without error.
func (j *Job) Succeeded() bool {
	return j.Err == nil && j.Data != nil
}
