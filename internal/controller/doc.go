// Package controller drives the research-report workflow on top of a View.
//
// The Controller owns the session state (stored keys, per-field visibility and
// the current report) and reacts to four user actions:
//   - SubmitKeys validates and sends the Cohere/Tavily key pair to the backend
//   - ToggleVisibility flips whether a key field shows plaintext
//   - GenerateReport requests a report, renders it and reveals it
//   - ClearReportError hides a stale report error when the user starts over
//
// LoadStoredKeys restores keys saved earlier in the session.
//
// # Overlapping requests
//
// Every GenerateReport call takes a generation number. A response that
// arrives after a newer call has started is dropped: it is neither stored nor
// rendered, and it does not touch the loading indicator or the trigger. A
// rendered report cancels any reveal still running, so the view always ends on
// the newest report.
//
// View implementations are called from the goroutine running the action and
// from the reveal goroutine, so they must be safe for concurrent use.
package controller
