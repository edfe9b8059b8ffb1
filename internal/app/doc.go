// Package app provides the orchestration layer for the admin client.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// session machinery, the data stores, and the UI. It serves as the composition
// root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/bookadm/config.toml
//  2. Initialize the structured log file under the state directory
//  3. Create the HTTP client with its cookie jar
//  4. Build the session clock, auth gate, and warning policy
//  5. Build the reference cache and the books/orders/staff stores
//  6. Wire the expiry watcher into the Bubble Tea program
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Session Enforcement
//
// Two background goroutines run alongside the UI:
//
//   - The expiry watcher samples the shared activity file every second. When
//     the idle limit is reached while signed in, it logs the session out and
//     posts a forced-logout message into the running program.
//   - The warning logger samples the same clock at a coarse cadence and
//     writes level transitions to the log. The interactive banner runs on the
//     UI's own tick; this poller is the audit trail.
//
// The watcher posts into the program through a handle captured by closure,
// assigned after the program is constructed but before ticking starts.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - API base address unparsable
//
// Recoverable errors (logged, the UI stays up):
//   - Any individual API request failure
//   - Activity file read or write failures
//
// An unreachable backend is not fatal at startup: the sign-in screen shows
// the failure and the operator can retry.
package app
