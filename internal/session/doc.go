// Package session stores per-session state that outlives a single command:
// the saved API key pair and the most recently generated report.
//
// Two stores are provided:
//   - SQLiteStore keeps a small key-value table in a SQLite file
//     (modernc.org/sqlite, CGO-free). By default the file lives in the XDG
//     runtime directory, which the OS clears when the login session ends.
//   - MemoryStore keeps everything in process memory; used by tests and by
//     commands that must not touch the disk.
//
// Values are JSON documents. Entries never expire on their own.
package session
