// Package pipeline turns company names into finished reports.
//
// A Job moves through a Pipeline of Steps: ask the backend for the report,
// check that it carries a report body, then optionally save it as the
// session's current report. BatchProcessor runs many jobs concurrently with
// errgroup, bounded by a concurrency limit and an optional requests-per-minute
// limiter (golang.org/x/time/rate), and returns the jobs in input order.
//
// One company failing never stops the others: the error is recorded on its
// Job.
package pipeline
