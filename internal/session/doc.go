// Package session owns the client-side session lifecycle: the idle clock,
// the authentication gate, the inactivity warning, and expiry enforcement.
//
// # Overview
//
// The backend holds the real session (a cookie); this package tracks the
// client's view of it. A Clock records the last user activity and persists it
// to a shared state file so that every running client instance counts down
// the same deadline — a touch in one window extends the session for all of
// them. A Gate turns backend answers into an explicit state machine
// (unknown → anonymous/pending → authenticated) and routes every mutation
// (touch, status check, logout) through defined methods.
//
// # Idle enforcement
//
// The ExpiryWatcher polls at a short interval. Each tick re-reads the shared
// file, adopts the newest activity time (max reconcile — a stale value never
// overwrites a fresh one), and forces a logout exactly once when the
// remaining time reaches zero while authenticated. Enforcement slack is
// bounded by the poll interval.
//
// # Two-step login
//
// Login is two calls: BeginLogin submits credentials and leaves the gate in
// a pending state, VerifyCode completes the second factor. Only a subsequent
// CheckStatus — the single source of the authenticated flag — flips the gate.
//
// # Warnings
//
// Warning converts a remaining time into a level-triggered signal with two
// thresholds (imminent and coarse). Dismissal hides the signal but re-arms
// when the remaining time keeps falling past a small slack, so a user cannot
// silence the countdown permanently.
package session
