package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use errors.Is()
// and still show a readable message.
var (
	// ErrNoCompany is returned when no company name or list file is specified.
	ErrNoCompany = errors.New("no company specified: provide a company name or use --list")

	// ErrInvalidBaseURL is returned when the backend URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https url")

	// ErrInvalidProxyAddress is returned when the proxy is not in host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Use 0 for no timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidDelay is returned when a reveal, scroll or mask delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidRateLimit is returned when requests per minute is negative.
	// Use 0 for no limit.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose only one of --json, --markdown and --html")
)
