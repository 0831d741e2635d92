// Package server serves the session's current report in a browser.
//
// Routes:
//   - GET /               page shell with the report title and full report
//   - GET /report         the report as an HTML fragment
//   - GET /report/stream  the report revealed character by character over a
//     chunked response, one flush per frame
//   - GET /api/report     the raw ReportData as JSON
//   - GET /healthz        liveness check
//
// The report is read from the session store on every request, so a report
// generated by another corpscope process shows up on reload.
package server
