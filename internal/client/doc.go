// Package client talks to the research-report backend.
//
// The backend exposes two endpoints:
//   - POST /api/keys/set stores the Cohere and Tavily API keys
//   - POST /api/report/generate researches a company and returns a report
//
// Failures are split in two kinds so callers can word their messages:
// a *TransportError when the request could not be sent or completed, and an
// *APIError when the backend answered with a non-2xx status. The client never
// retries.
package client
