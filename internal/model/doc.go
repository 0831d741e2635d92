// Package model defines the data structures shared across corpscope.
//
// This package contains the following main types:
//   - ReportData: The payload returned by the report generation endpoint
//   - Report: The structured research report with its five sections
//   - StoredKeys: The credential pair cached in the session store
//   - VisibilityState: Plaintext/masked flags for the credential fields
//
// The models mirror the backend's JSON shape so they can be decoded directly
// from HTTP responses and stored verbatim in the session store.
package model
